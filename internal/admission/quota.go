package admission

import (
	"context"
	"time"

	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
)

// QuotaCalculator sums a team's booked time over the ISO week of a date.
// Reservations count against the team recorded on them at booking time.
type QuotaCalculator struct {
	Weekly time.Duration
}

func (q QuotaCalculator) WeeklyUsed(ctx context.Context, repo reservation.Repo, teamName string, ref time.Time) (time.Duration, error) {
	monday, sunday := timeslot.WeekRange(ref)

	rs, err := repo.ListByTeamInRange(ctx, teamName, monday, sunday)
	if err != nil {
		return 0, err
	}

	var used time.Duration
	for _, r := range rs {
		used += r.Duration()
	}
	return used, nil
}

// Remaining never goes below zero, even for weeks booked over a smaller quota.
func (q QuotaCalculator) Remaining(used time.Duration) time.Duration {
	return max(q.Weekly-used, 0)
}

// Hours converts to fractional hours; slot-aligned durations convert exactly.
func Hours(d time.Duration) float64 {
	return d.Hours()
}
