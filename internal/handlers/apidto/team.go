package apidto

import (
	"github.com/kamgaa/lab-reservation/internal/admission"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
)

type Team struct {
	TeamName string `json:"team_name"`
	Color    string `json:"color"`
	Members  []User `json:"members,omitempty"`
}

func FromTeam(t *team.Team) Team {
	if t == nil {
		return Team{}
	}
	return Team{
		TeamName: t.TeamName,
		Color:    t.Color,
		Members:  FromUsers(t.Members),
	}
}

func FromTeams(teams []*team.Team) []Team {
	out := make([]Team, 0, len(teams))
	for _, t := range teams {
		dto := FromTeam(t)
		dto.Members = nil
		out = append(out, dto)
	}
	return out
}

// TeamColors is the name -> color table the schedule is drawn with.
func TeamColors(teams []*team.Team) map[string]string {
	out := make(map[string]string, len(teams))
	for _, t := range teams {
		out[t.TeamName] = t.Color
	}
	return out
}

type Quota struct {
	TeamName       string  `json:"team_name"`
	WeekStart      string  `json:"week_start"`
	WeekEnd        string  `json:"week_end"`
	UsedHours      float64 `json:"used_hours"`
	RemainingHours float64 `json:"remaining_hours"`
	LimitHours     float64 `json:"limit_hours"`
}

func FromQuota(q *admission.QuotaView) Quota {
	if q == nil {
		return Quota{}
	}
	return Quota{
		TeamName:       q.TeamName,
		WeekStart:      timeslot.FormatDate(q.WeekStart),
		WeekEnd:        timeslot.FormatDate(q.WeekEnd),
		UsedHours:      q.UsedHours,
		RemainingHours: q.RemainingHours,
		LimitHours:     q.LimitHours,
	}
}
