package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	key string
	v   any
}

type recordingPublisher struct {
	sent []published
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{key: key, v: v})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestNotifier(t *testing.T) {
	at := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	r := &reservation.Reservation{
		ID:       "r-1",
		OwnerID:  "24510047",
		TeamName: "CAD_UAV",
		Date:     timeslot.Date(2024, time.June, 11),
		Start:    timeslot.At(9, 0),
		End:      timeslot.MinutesPerDay,
	}

	tests := []struct {
		name    string
		notify  func(n *Notifier)
		pubErr  error
		wantKey string
	}{
		{
			name:    "confirmed",
			notify:  func(n *Notifier) { n.Confirmed(context.Background(), r) },
			wantKey: KeyReservationConfirmed,
		},
		{
			name:    "cancelled",
			notify:  func(n *Notifier) { n.Cancelled(context.Background(), r) },
			wantKey: KeyReservationCancelled,
		},
		{
			name:   "publish failure is swallowed",
			notify: func(n *Notifier) { n.Confirmed(context.Background(), r) },
			pubErr: errors.New("channel/connection is not open"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{err: tt.pubErr}
			n := NewNotifier(zap.NewNop().Sugar(), pub)
			n.now = func() time.Time { return at }

			tt.notify(n)

			if tt.pubErr != nil {
				require.Empty(t, pub.sent)
				return
			}

			require.Len(t, pub.sent, 1)
			require.Equal(t, tt.wantKey, pub.sent[0].key)
			require.Equal(t, ReservationEvent{
				ReservationID: "r-1",
				OwnerID:       "24510047",
				TeamName:      "CAD_UAV",
				Date:          "2024-06-11",
				StartTime:     "09:00",
				EndTime:       "24:00",
				OccurredAt:    at,
			}, pub.sent[0].v)
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	require.NoError(t, p.PublishJSON(context.Background(), KeyReservationConfirmed, struct{}{}))
	require.NoError(t, p.Close())
}
