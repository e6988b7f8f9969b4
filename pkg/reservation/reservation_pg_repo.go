package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kamgaa/lab-reservation/pkg/pglock"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdmissionLockKey is the postgres advisory lock taken by every admission
// transaction. There is one shared room, so one key.
const AdmissionLockKey = pglock.Admission

type ReservationsRepoPg struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

var _ Store = (*ReservationsRepoPg)(nil)

func NewReservationsRepoPg(logger *zap.SugaredLogger, db *gorm.DB) *ReservationsRepoPg {
	return &ReservationsRepoPg{
		logger: logger,
		db:     db,
	}
}

// Atomically runs fn inside one transaction holding the admission advisory lock.
// Rows that would conflict may not exist yet, so row locks are not enough here.
func (repo *ReservationsRepoPg) Atomically(ctx context.Context, fn func(ctx context.Context, repo Repo) error) error {
	repo.logger.Debugw("Atomically()")

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := pglock.XactLock(tx, AdmissionLockKey); err != nil {
			repo.logger.Errorw("error taking admission lock", "err", err)
			return err
		}

		return fn(ctx, &ReservationsRepoPg{logger: repo.logger, db: tx})
	})
}

func (repo *ReservationsRepoPg) ListByDate(ctx context.Context, date time.Time) ([]*Reservation, error) {
	date = timeslot.Normalize(date)
	repo.logger.Debugw("ListByDate()", "date", timeslot.FormatDate(date))

	var out []*Reservation
	if err := repo.db.WithContext(ctx).
		Where("reservation_date = ?", date).
		Order("start_minute ASC").
		Find(&out).Error; err != nil {
		repo.logger.Errorw("error listing reservations by date", "date", timeslot.FormatDate(date), "err", err)
		return nil, err
	}

	return out, nil
}

// ListByTeamInRange returns the team's reservations with from <= date <= to.
func (repo *ReservationsRepoPg) ListByTeamInRange(ctx context.Context, teamName string, from, to time.Time) ([]*Reservation, error) {
	from, to = timeslot.Normalize(from), timeslot.Normalize(to)
	repo.logger.Debugw("ListByTeamInRange()", "teamName", teamName, "from", timeslot.FormatDate(from), "to", timeslot.FormatDate(to))

	var out []*Reservation
	if err := repo.db.WithContext(ctx).
		Where("team_name = ? AND reservation_date BETWEEN ? AND ?", teamName, from, to).
		Order("reservation_date ASC, start_minute ASC").
		Find(&out).Error; err != nil {
		repo.logger.Errorw("error listing team reservations", "teamName", teamName, "err", err)
		return nil, err
	}

	return out, nil
}

func (repo *ReservationsRepoPg) Insert(ctx context.Context, r *Reservation) (*Reservation, error) {
	repo.logger.Debugw("Insert()", "ownerID", r.OwnerID, "interval", r.Interval().String())

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Date = timeslot.Normalize(r.Date)

	if err := repo.db.WithContext(ctx).Create(r).Error; err != nil {
		repo.logger.Errorw("error inserting reservation", "reservationID", r.ID, "err", err)
		return nil, err
	}

	repo.logger.Debugw("reservation inserted", "reservationID", r.ID)
	return r, nil
}

func (repo *ReservationsRepoPg) GetOwnerTeam(ctx context.Context, ownerID string) (string, error) {
	repo.logger.Debugw("GetOwnerTeam()", "ownerID", ownerID)

	var owner user.User
	if err := repo.db.WithContext(ctx).First(&owner, "user_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			repo.logger.Warnw("owner does not exist", "ownerID", ownerID)
			return "", user.ErrUserNotFound
		}
		repo.logger.Errorw("error loading owner", "ownerID", ownerID, "err", err)
		return "", err
	}

	return owner.TeamName, nil
}

func (repo *ReservationsRepoPg) ListByOwner(ctx context.Context, ownerID string) ([]*Reservation, error) {
	repo.logger.Debugw("ListByOwner()", "ownerID", ownerID)

	var out []*Reservation
	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("reservation_date DESC, start_minute ASC").
		Find(&out).Error; err != nil {
		repo.logger.Errorw("error listing owner reservations", "ownerID", ownerID, "err", err)
		return nil, err
	}

	return out, nil
}

func (repo *ReservationsRepoPg) ListAll(ctx context.Context) ([]*Reservation, error) {
	repo.logger.Debugw("ListAll()")

	var out []*Reservation
	if err := repo.db.WithContext(ctx).
		Order("reservation_date DESC, start_minute ASC").
		Find(&out).Error; err != nil {
		repo.logger.Errorw("error listing reservations", "err", err)
		return nil, err
	}

	return out, nil
}

// Delete removes a reservation and returns what was removed.
func (repo *ReservationsRepoPg) Delete(ctx context.Context, id string) (*Reservation, error) {
	repo.logger.Debugw("Delete()", "reservationID", id)

	var removed Reservation
	tx := repo.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("reservation_id = ?", id).
		Delete(&removed)

	if tx.Error != nil {
		repo.logger.Errorw("error deleting reservation", "reservationID", id, "err", tx.Error)
		return nil, tx.Error
	}

	if tx.RowsAffected == 0 {
		repo.logger.Warnw("no reservation to delete", "reservationID", id)
		return nil, ErrReservationNotFound
	}

	repo.logger.Debugw("reservation deleted", "reservationID", id)
	return &removed, nil
}
