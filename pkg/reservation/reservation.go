package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/kamgaa/lab-reservation/pkg/timeslot"
)

var (
	ErrReservationNotFound = errors.New("RESERVATION_NOT_FOUND")
)

// Reservation - TeamName is the owner's team at booking time; later profile
// edits never move past reservations between teams.
type Reservation struct {
	ID        string             `gorm:"primaryKey;type:varchar(36);column:reservation_id"`
	OwnerID   string             `gorm:"type:varchar(64);index;not null;column:owner_id"`
	TeamName  string             `gorm:"type:varchar(64);index;not null;column:team_name"`
	Date      time.Time          `gorm:"type:date;index;not null;column:reservation_date"`
	Start     timeslot.TimeOfDay `gorm:"not null;column:start_minute"`
	End       timeslot.TimeOfDay `gorm:"not null;column:end_minute"`
	CreatedAt time.Time          `gorm:"column:created_at"`
}

func (r *Reservation) Interval() timeslot.Interval {
	return timeslot.Interval{Date: r.Date, Start: r.Start, End: r.End}
}

func (r *Reservation) Duration() time.Duration {
	return r.Interval().Duration()
}

// Repo is what admission needs from storage.
type Repo interface {
	ListByDate(ctx context.Context, date time.Time) ([]*Reservation, error)
	ListByTeamInRange(ctx context.Context, teamName string, from, to time.Time) ([]*Reservation, error)
	Insert(ctx context.Context, r *Reservation) (*Reservation, error)
	GetOwnerTeam(ctx context.Context, ownerID string) (string, error)
}

// Store is the full reservation storage. Atomically runs fn with a Repo whose
// reads and writes are serialised against every other Atomically call, so a
// check made inside fn still holds when fn writes.
type Store interface {
	Repo
	Atomically(ctx context.Context, fn func(ctx context.Context, repo Repo) error) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Reservation, error)
	ListAll(ctx context.Context) ([]*Reservation, error)
	Delete(ctx context.Context, id string) (*Reservation, error)
}
