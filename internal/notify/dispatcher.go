package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/pkg/queue"
)

// Enqueuer accepts notification jobs.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// Dispatcher turns a new booking into two independent notification jobs.
type Dispatcher struct {
	queue  Enqueuer
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(q Enqueuer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{queue: q, logger: logger}
}

// BookingMessages returns the guest confirmation and the host notice for b.
func BookingMessages(b *models.Booking) []queue.NotificationPayload {
	id := b.ID
	return []queue.NotificationPayload{
		{
			Kind:      models.NotificationGuestConfirmation,
			BookingID: &id,
			Recipient: b.Guest.Email,
			Subject:   "Booking Successful!",
			BodyHTML:  fmt.Sprintf("You've successfully booked a room through StayVista. Transaction Id: %s", b.TransactionID),
		},
		{
			Kind:      models.NotificationHostNotice,
			BookingID: &id,
			Recipient: b.Host.Email,
			Subject:   "Your room got booked!",
			BodyHTML:  fmt.Sprintf("Get ready to welcome %s.", b.Guest.Name),
		},
	}
}

// BookingCreated enqueues both messages. A failure for one does not stop the other.
func (d *Dispatcher) BookingCreated(ctx context.Context, b *models.Booking) error {
	var errs []error
	for _, p := range BookingMessages(b) {
		if p.Recipient == "" {
			d.logger.Warn("notification skipped, no recipient", zap.String("kind", p.Kind), zap.String("booking_id", b.ID.String()))
			continue
		}
		if err := d.queue.EnqueueNotification(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("enqueue %s: %w", p.Kind, err))
		}
	}
	return errors.Join(errs...)
}
