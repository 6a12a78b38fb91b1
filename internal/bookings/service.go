package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/metrics"
	"github.com/stayvista/backend/internal/models"
)

// Store is the booking persistence the manager needs.
type Store interface {
	Insert(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	ListByGuest(ctx context.Context, guestEmail string) ([]models.Booking, error)
	ListByHost(ctx context.Context, hostEmail string) ([]models.Booking, error)
}

// Notifier dispatches the booking notifications. Errors are logged by the manager, never returned.
type Notifier interface {
	BookingCreated(ctx context.Context, b *models.Booking) error
}

// PaymentVerifier checks that a transaction authorized exactly price.
type PaymentVerifier interface {
	VerifyTransaction(ctx context.Context, transactionID string, price float64) error
}

// Manager creates and cancels bookings.
type Manager struct {
	store    Store
	notifier Notifier
	verifier PaymentVerifier
	metrics  metrics.Recorder
	logger   *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets the notification dispatcher.
func WithNotifier(n Notifier) Option { return func(m *Manager) { m.notifier = n } }

// WithVerifier enables payment verification on create.
func WithVerifier(v PaymentVerifier) Option { return func(m *Manager) { m.verifier = v } }

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option { return func(m *Manager) { m.metrics = r } }

// NewManager creates a booking manager.
func NewManager(store Store, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{store: store, metrics: metrics.Nop{}, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create stores b on behalf of guest. The price is stored as sent; it is not
// recomputed from the room. Notification failures do not fail the booking.
func (m *Manager) Create(ctx context.Context, b models.Booking, guest models.Party) (*models.Booking, error) {
	if strings.TrimSpace(guest.Email) == "" {
		return nil, models.ErrUnauthorized
	}
	b.ID = uuid.Nil
	b.Guest.Email = guest.Email
	if b.Guest.Name == "" {
		b.Guest.Name = guest.Name
	}

	if m.verifier != nil {
		if strings.TrimSpace(b.TransactionID) == "" {
			return nil, fmt.Errorf("%w: transactionId is required", models.ErrValidation)
		}
		if err := m.verifier.VerifyTransaction(ctx, b.TransactionID, b.Price); err != nil {
			return nil, fmt.Errorf("verify payment: %w", err)
		}
	}

	if err := m.store.Insert(ctx, &b); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	m.metrics.RecordBookingCreated()
	m.logger.Info("booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("guest", b.Guest.Email),
		zap.String("host", b.Host.Email),
	)

	if m.notifier != nil {
		if err := m.notifier.BookingCreated(ctx, &b); err != nil {
			m.logger.Warn("booking notification dispatch failed", zap.Error(err), zap.String("booking_id", b.ID.String()))
		}
	}
	return &b, nil
}

// Cancel deletes the booking if guestEmail made it. The room's booked flag is left as is.
func (m *Manager) Cancel(ctx context.Context, id uuid.UUID, guestEmail string) error {
	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
		}
		return err
	}
	if !strings.EqualFold(b.Guest.Email, guestEmail) {
		return models.ErrUnauthorized
	}
	n, err := m.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}
	m.metrics.RecordBookingCancelled()
	m.logger.Info("booking cancelled", zap.String("booking_id", id.String()), zap.String("guest", guestEmail))
	return nil
}

// ListForGuest returns the bookings made by guestEmail.
func (m *Manager) ListForGuest(ctx context.Context, guestEmail string) ([]models.Booking, error) {
	return m.store.ListByGuest(ctx, guestEmail)
}

// ListForHost returns the bookings on rooms owned by hostEmail.
func (m *Manager) ListForHost(ctx context.Context, hostEmail string) ([]models.Booking, error) {
	return m.store.ListByHost(ctx, hostEmail)
}
