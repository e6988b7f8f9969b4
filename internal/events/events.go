// Package events announces reservation changes to other services.
package events

import (
	"context"
	"time"

	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"go.uber.org/zap"
)

const (
	KeyReservationConfirmed = "reservation.confirmed"
	KeyReservationCancelled = "reservation.cancelled"
)

type ReservationEvent struct {
	ReservationID string    `json:"reservation_id"`
	OwnerID       string    `json:"owner_id"`
	TeamName      string    `json:"team_name"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(r *reservation.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		ReservationID: r.ID,
		OwnerID:       r.OwnerID,
		TeamName:      r.TeamName,
		Date:          timeslot.FormatDate(r.Date),
		StartTime:     r.Start.String(),
		EndTime:       r.End.String(),
		OccurredAt:    at.UTC(),
	}
}

// Notifier publishes reservation events after the fact. A failed publish is
// logged and never undoes the change it reports.
type Notifier struct {
	logger    *zap.SugaredLogger
	publisher Publisher
	now       func() time.Time
}

func NewNotifier(logger *zap.SugaredLogger, publisher Publisher) *Notifier {
	return &Notifier{
		logger:    logger,
		publisher: publisher,
		now:       time.Now,
	}
}

func (n *Notifier) Confirmed(ctx context.Context, r *reservation.Reservation) {
	n.publish(ctx, KeyReservationConfirmed, r)
}

func (n *Notifier) Cancelled(ctx context.Context, r *reservation.Reservation) {
	n.publish(ctx, KeyReservationCancelled, r)
}

func (n *Notifier) publish(ctx context.Context, key string, r *reservation.Reservation) {
	if err := n.publisher.PublishJSON(ctx, key, NewReservationEvent(r, n.now())); err != nil {
		n.logger.Errorw("error publishing reservation event", "key", key, "reservationID", r.ID, "err", err)
		return
	}

	n.logger.Debugw("reservation event published", "key", key, "reservationID", r.ID)
}
