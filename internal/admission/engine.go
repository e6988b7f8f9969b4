// Package admission decides whether a proposed reservation may be booked.
//
// A request is checked, in order, for slot alignment, positive duration, being
// in the future, the owner's team weekly quota and overlap with any existing
// reservation on the same day. The quota and overlap reads and the insert all
// run inside one reservation.Store.Atomically call, so concurrent requests are
// decided one after another against fresh state.
package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kamgaa/lab-reservation/internal/metrics"
	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"go.uber.org/zap"
)

type Engine struct {
	logger *zap.SugaredLogger
	store  reservation.Store
	policy Policy
	clock  Clock
	quota  QuotaCalculator
}

func NewEngine(logger *zap.SugaredLogger, store reservation.Store, policy Policy, clock Clock) *Engine {
	policy = policy.withDefaults()
	if clock == nil {
		clock = RealClock{}
	}

	return &Engine{
		logger: logger,
		store:  store,
		policy: policy,
		clock:  clock,
		quota:  QuotaCalculator{Weekly: policy.WeeklyQuota},
	}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Today is the current civil date in the policy location.
func (e *Engine) Today() time.Time {
	return timeslot.Civil(e.clock.Now(), e.policy.Location)
}

// TryReserve books [start, end) on date for ownerID, or returns the reason it
// cannot. Rejections wrap one of the Err* sentinels (or user.ErrUserNotFound);
// quota rejections are *QuotaError. Any storage failure is ErrStorageUnavailable
// and nothing has been written.
func (e *Engine) TryReserve(ctx context.Context, ownerID string, date time.Time, start, end timeslot.TimeOfDay) (res *reservation.Reservation, err error) {
	began := time.Now()
	defer func() {
		metrics.ObserveAdmission(Code(err), began)
	}()

	iv := timeslot.Interval{Date: timeslot.Normalize(date), Start: start, End: end}
	e.logger.Debugw("TryReserve()", "ownerID", ownerID, "interval", iv.String())

	if err := e.validate(iv); err != nil {
		e.logger.Warnw("reservation rejected", "ownerID", ownerID, "interval", iv.String(), "err", err)
		return nil, err
	}

	var confirmed *reservation.Reservation
	err = e.store.Atomically(ctx, func(ctx context.Context, repo reservation.Repo) error {
		teamName, err := repo.GetOwnerTeam(ctx, ownerID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return err
			}
			return storageErr(err)
		}

		if teamName == "" {
			return ErrNoTeam
		}

		used, err := e.quota.WeeklyUsed(ctx, repo, teamName, iv.Date)
		if err != nil {
			return storageErr(err)
		}

		remaining := e.quota.Remaining(used)
		if remaining <= 0 {
			return &QuotaError{Reason: ErrQuotaExhausted, RemainingHours: 0}
		}
		if iv.Duration() > remaining {
			return &QuotaError{Reason: ErrQuotaExceeded, RemainingHours: Hours(remaining)}
		}

		conflict, err := HasConflict(ctx, repo, iv, "")
		if err != nil {
			return storageErr(err)
		}
		if conflict {
			return ErrSlotConflict
		}

		confirmed, err = repo.Insert(ctx, &reservation.Reservation{
			OwnerID:   ownerID,
			TeamName:  teamName,
			Date:      iv.Date,
			Start:     iv.Start,
			End:       iv.End,
			CreatedAt: e.clock.Now().UTC(),
		})
		if err != nil {
			return storageErr(err)
		}

		return nil
	})

	if err != nil {
		if IsRejection(err) {
			e.logger.Warnw("reservation rejected", "ownerID", ownerID, "interval", iv.String(), "err", err)
			return nil, err
		}

		e.logger.Errorw("admission failed", "ownerID", ownerID, "interval", iv.String(), "err", err)
		return nil, storageErr(err)
	}

	e.logger.Infow("reservation confirmed", "reservationID", confirmed.ID, "teamName", confirmed.TeamName, "interval", iv.String())
	return confirmed, nil
}

func (e *Engine) validate(iv timeslot.Interval) error {
	step := e.policy.SlotMinutes
	if !iv.Start.Aligned(step) || !iv.End.Aligned(step) {
		return fmt.Errorf("%w: %s-%s is not on %d-minute slots", ErrInvalidInterval, iv.Start, iv.End, step)
	}

	if iv.Start >= iv.End {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidInterval, iv.Start, iv.End)
	}

	now := e.clock.Now()
	today := timeslot.Civil(now, e.policy.Location)

	if iv.Date.Before(today) {
		return fmt.Errorf("%w: %s is before %s", ErrPastTime, timeslot.FormatDate(iv.Date), timeslot.FormatDate(today))
	}

	if iv.Date.Equal(today) && !timeslot.Instant(iv.Date, iv.Start, e.policy.Location).After(now) {
		return fmt.Errorf("%w: %s has already started", ErrPastTime, iv)
	}

	return nil
}

// WeeklyUsedHours is the read-only quota view for teamName in the week of ref.
func (e *Engine) WeeklyUsedHours(ctx context.Context, teamName string, ref time.Time) (float64, error) {
	e.logger.Debugw("WeeklyUsedHours()", "teamName", teamName, "ref", timeslot.FormatDate(ref))

	used, err := e.quota.WeeklyUsed(ctx, e.store, teamName, ref)
	if err != nil {
		e.logger.Errorw("error computing weekly usage", "teamName", teamName, "err", err)
		return 0, storageErr(err)
	}

	return Hours(used), nil
}

type QuotaView struct {
	TeamName       string
	WeekStart      time.Time
	WeekEnd        time.Time
	UsedHours      float64
	RemainingHours float64
	LimitHours     float64
}

func (e *Engine) TeamQuota(ctx context.Context, teamName string, ref time.Time) (*QuotaView, error) {
	e.logger.Debugw("TeamQuota()", "teamName", teamName, "ref", timeslot.FormatDate(ref))

	used, err := e.quota.WeeklyUsed(ctx, e.store, teamName, ref)
	if err != nil {
		e.logger.Errorw("error computing weekly usage", "teamName", teamName, "err", err)
		return nil, storageErr(err)
	}

	monday, sunday := timeslot.WeekRange(ref)
	return &QuotaView{
		TeamName:       teamName,
		WeekStart:      monday,
		WeekEnd:        sunday,
		UsedHours:      Hours(used),
		RemainingHours: Hours(e.quota.Remaining(used)),
		LimitHours:     Hours(e.policy.WeeklyQuota),
	}, nil
}

// ListByDate is the read-only listing of every reservation on date.
func (e *Engine) ListByDate(ctx context.Context, date time.Time) ([]*reservation.Reservation, error) {
	e.logger.Debugw("ListByDate()", "date", timeslot.FormatDate(date))

	rs, err := e.store.ListByDate(ctx, timeslot.Normalize(date))
	if err != nil {
		e.logger.Errorw("error listing reservations", "date", timeslot.FormatDate(date), "err", err)
		return nil, storageErr(err)
	}

	return rs, nil
}
