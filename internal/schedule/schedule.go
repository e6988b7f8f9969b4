// Package schedule turns a day's reservations into hourly occupancy blocks for
// display.
package schedule

import (
	"sort"
	"time"

	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
)

const (
	BlocksPerDay = 24
	// FallbackColor is used for teams missing from the color table.
	FallbackColor = "gray"
)

type TeamMark struct {
	TeamName string
	Color    string
}

// Block is the hour [Start, End). The last block of a day ends at 24:00.
type Block struct {
	Start timeslot.TimeOfDay
	End   timeslot.TimeOfDay
	Teams []TeamMark
}

type Day struct {
	Date   time.Time
	Blocks []Block
}

// Build marks every hourly block touched by a reservation on date with the
// reservation's team, once per team. Reservations on other dates are ignored.
func Build(date time.Time, rs []*reservation.Reservation, colors map[string]string) Day {
	date = timeslot.Normalize(date)

	day := Day{Date: date, Blocks: make([]Block, BlocksPerDay)}
	seen := make([]map[string]bool, BlocksPerDay)

	for h := range day.Blocks {
		day.Blocks[h] = Block{
			Start: timeslot.At(h, 0),
			End:   timeslot.At(h+1, 0),
			Teams: []TeamMark{},
		}
		seen[h] = make(map[string]bool)
	}

	for _, r := range rs {
		if !timeslot.SameDay(r.Date, date) {
			continue
		}

		for h := range day.Blocks {
			b := &day.Blocks[h]
			if r.Start >= b.End || r.End <= b.Start || seen[h][r.TeamName] {
				continue
			}

			seen[h][r.TeamName] = true
			b.Teams = append(b.Teams, TeamMark{TeamName: r.TeamName, Color: colorOf(colors, r.TeamName)})
		}
	}

	for h := range day.Blocks {
		teams := day.Blocks[h].Teams
		sort.Slice(teams, func(i, j int) bool { return teams[i].TeamName < teams[j].TeamName })
	}

	return day
}

func colorOf(colors map[string]string, teamName string) string {
	if c, ok := colors[teamName]; ok && c != "" {
		return c
	}
	return FallbackColor
}
