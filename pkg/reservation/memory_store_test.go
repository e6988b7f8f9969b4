package reservation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Queries(t *testing.T) {
	ctx := context.Background()
	store := reservation.NewMemoryStore()
	store.SetOwnerTeam("24510047", "CAD_UAV")

	monday := timeslot.Date(2024, time.June, 10)
	seed := []*reservation.Reservation{
		{OwnerID: "24510047", TeamName: "CAD_UAV", Date: monday, Start: timeslot.At(13, 0), End: timeslot.At(14, 0)},
		{OwnerID: "24510047", TeamName: "CAD_UAV", Date: monday, Start: timeslot.At(9, 0), End: timeslot.At(10, 0)},
		{OwnerID: "24510048", TeamName: "Palletrone", Date: monday, Start: timeslot.At(11, 0), End: timeslot.At(12, 0)},
		{OwnerID: "24510047", TeamName: "CAD_UAV", Date: monday.AddDate(0, 0, 7), Start: timeslot.At(9, 0), End: timeslot.At(10, 0)},
	}
	for _, r := range seed {
		inserted, err := store.Insert(ctx, r)
		require.NoError(t, err)
		require.NotEmpty(t, inserted.ID)
		require.Empty(t, r.ID, "caller's value must not be mutated")
	}

	byDate, err := store.ListByDate(ctx, monday)
	require.NoError(t, err)
	require.Len(t, byDate, 3)
	require.Equal(t, timeslot.At(9, 0), byDate[0].Start)
	require.Equal(t, timeslot.At(11, 0), byDate[1].Start)
	require.Equal(t, timeslot.At(13, 0), byDate[2].Start)

	from, to := timeslot.WeekRange(monday)
	week, err := store.ListByTeamInRange(ctx, "CAD_UAV", from, to)
	require.NoError(t, err)
	require.Len(t, week, 2)

	mine, err := store.ListByOwner(ctx, "24510047")
	require.NoError(t, err)
	require.Len(t, mine, 3)

	teamName, err := store.GetOwnerTeam(ctx, "24510047")
	require.NoError(t, err)
	require.Equal(t, "CAD_UAV", teamName)

	_, err = store.GetOwnerTeam(ctx, "00000000")
	require.ErrorIs(t, err, user.ErrUserNotFound)

	removed, err := store.Delete(ctx, byDate[0].ID)
	require.NoError(t, err)
	require.Equal(t, byDate[0].ID, removed.ID)

	_, err = store.Delete(ctx, byDate[0].ID)
	require.ErrorIs(t, err, reservation.ErrReservationNotFound)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestMemoryStore_AtomicallySerialises(t *testing.T) {
	ctx := context.Background()
	store := reservation.NewMemoryStore()
	day := timeslot.Date(2024, time.June, 10)

	// Each callback reads, then writes only if nothing is booked yet.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Atomically(ctx, func(ctx context.Context, repo reservation.Repo) error {
				existing, err := repo.ListByDate(ctx, day)
				if err != nil {
					return err
				}
				if len(existing) > 0 {
					return errors.New("taken")
				}
				_, err = repo.Insert(ctx, &reservation.Reservation{
					OwnerID: "24510047", TeamName: "CAD_UAV", Date: day,
					Start: timeslot.At(9, 0), End: timeslot.At(10, 0),
				})
				return err
			})
		}()
	}
	wg.Wait()

	got, err := store.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := reservation.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Atomically(ctx, func(context.Context, reservation.Repo) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
