package admission

import (
	"context"

	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
)

// FindConflict returns the first reservation in existing that overlaps iv,
// skipping the one with id excluding. Team does not matter: the room is shared.
func FindConflict(existing []*reservation.Reservation, iv timeslot.Interval, excluding string) *reservation.Reservation {
	for _, r := range existing {
		if excluding != "" && r.ID == excluding {
			continue
		}
		if r.Interval().Overlaps(iv) {
			return r
		}
	}
	return nil
}

// HasConflict checks iv against every reservation on its date.
func HasConflict(ctx context.Context, repo reservation.Repo, iv timeslot.Interval, excluding string) (bool, error) {
	existing, err := repo.ListByDate(ctx, iv.Date)
	if err != nil {
		return false, err
	}
	return FindConflict(existing, iv, excluding) != nil, nil
}
