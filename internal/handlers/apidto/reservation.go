package apidto

import (
	"time"

	"github.com/kamgaa/lab-reservation/internal/admission"
	"github.com/kamgaa/lab-reservation/internal/schedule"
	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
)

type Reservation struct {
	ReservationID string     `json:"reservation_id"`
	OwnerID       string     `json:"owner_id"`
	TeamName      string     `json:"team_name"`
	Date          string     `json:"date"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	Hours         float64    `json:"hours"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

func FromReservation(r *reservation.Reservation) Reservation {
	if r == nil {
		return Reservation{}
	}

	var createdAtPtr *time.Time
	if !r.CreatedAt.IsZero() {
		t := r.CreatedAt
		createdAtPtr = &t
	}

	return Reservation{
		ReservationID: r.ID,
		OwnerID:       r.OwnerID,
		TeamName:      r.TeamName,
		Date:          timeslot.FormatDate(r.Date),
		StartTime:     r.Start.String(),
		EndTime:       r.End.String(),
		Hours:         admission.Hours(r.Duration()),
		CreatedAt:     createdAtPtr,
	}
}

func FromReservations(rs []*reservation.Reservation) []Reservation {
	out := make([]Reservation, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromReservation(r))
	}
	return out
}

type ScheduleTeam struct {
	TeamName string `json:"team_name"`
	Color    string `json:"color"`
}

type ScheduleBlock struct {
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
	Teams     []ScheduleTeam `json:"teams"`
}

type Schedule struct {
	Date   string          `json:"date"`
	Blocks []ScheduleBlock `json:"blocks"`
}

func FromSchedule(day schedule.Day) Schedule {
	blocks := make([]ScheduleBlock, 0, len(day.Blocks))
	for _, b := range day.Blocks {
		teams := make([]ScheduleTeam, 0, len(b.Teams))
		for _, m := range b.Teams {
			teams = append(teams, ScheduleTeam{TeamName: m.TeamName, Color: m.Color})
		}
		blocks = append(blocks, ScheduleBlock{
			StartTime: b.Start.String(),
			EndTime:   b.End.String(),
			Teams:     teams,
		})
	}
	return Schedule{
		Date:   timeslot.FormatDate(day.Date),
		Blocks: blocks,
	}
}
