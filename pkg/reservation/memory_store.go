package reservation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"github.com/kamgaa/lab-reservation/pkg/user"
)

// MemoryStore keeps reservations in process. Atomically holds a single writer
// lock for the whole callback; plain reads only take the data lock.
type MemoryStore struct {
	admission sync.Mutex

	mu     sync.RWMutex
	byID   map[string]*Reservation
	owners map[string]string
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*Reservation),
		owners: make(map[string]string),
		now:    time.Now,
	}
}

// SetOwnerTeam registers ownerID with its current team ("" for none).
func (s *MemoryStore) SetOwnerTeam(ownerID, teamName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[ownerID] = teamName
}

func (s *MemoryStore) Atomically(ctx context.Context, fn func(ctx context.Context, repo Repo) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.admission.Lock()
	defer s.admission.Unlock()

	return fn(ctx, s)
}

func (s *MemoryStore) ListByDate(ctx context.Context, date time.Time) ([]*Reservation, error) {
	date = timeslot.Normalize(date)
	return s.filter(ctx, func(r *Reservation) bool {
		return r.Date.Equal(date)
	})
}

func (s *MemoryStore) ListByTeamInRange(ctx context.Context, teamName string, from, to time.Time) ([]*Reservation, error) {
	from, to = timeslot.Normalize(from), timeslot.Normalize(to)
	return s.filter(ctx, func(r *Reservation) bool {
		return r.TeamName == teamName && !r.Date.Before(from) && !r.Date.After(to)
	})
}

func (s *MemoryStore) Insert(ctx context.Context, r *Reservation) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *r
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Date = timeslot.Normalize(stored.Date)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now().UTC()
	}
	s.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (s *MemoryStore) GetOwnerTeam(ctx context.Context, ownerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	teamName, ok := s.owners[ownerID]
	if !ok {
		return "", user.ErrUserNotFound
	}
	return teamName, nil
}

func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]*Reservation, error) {
	return s.filter(ctx, func(r *Reservation) bool {
		return r.OwnerID == ownerID
	})
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]*Reservation, error) {
	return s.filter(ctx, func(*Reservation) bool { return true })
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	delete(s.byID, id)
	return r, nil
}

// filter returns copies ordered by date, then start.
func (s *MemoryStore) filter(ctx context.Context, keep func(*Reservation) bool) ([]*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Reservation, 0)
	for _, r := range s.byID {
		if keep(r) {
			c := *r
			out = append(out, &c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}
