package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/models"
)

// Store is the room persistence the registry needs.
type Store interface {
	List(ctx context.Context, category string) ([]models.Room, error)
	ListByHost(ctx context.Context, hostEmail string) ([]models.Room, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	Insert(ctx context.Context, room *models.Room) error
	UpdateOwned(ctx context.Context, id uuid.UUID, hostEmail string, p Patch) (int64, error)
	SetBooked(ctx context.Context, id uuid.UUID, booked bool) (int64, error)
	DeleteOwned(ctx context.Context, id uuid.UUID, hostEmail string) (int64, error)
}

// noFilter is the category value clients send when no category is selected.
const noFilter = "null"

// Registry manages room listings.
type Registry struct {
	store  Store
	logger *zap.Logger
}

// NewRegistry creates a room registry.
func NewRegistry(store Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{store: store, logger: logger}
}

// List returns all rooms, or only those in category. Empty and "null" mean no filter.
func (r *Registry) List(ctx context.Context, category string) ([]models.Room, error) {
	category = strings.TrimSpace(category)
	if category == noFilter {
		category = ""
	}
	return r.store.List(ctx, category)
}

// Create stores a room owned by host and returns it with its new id.
func (r *Registry) Create(ctx context.Context, room models.Room, host models.Party) (*models.Room, error) {
	if strings.TrimSpace(host.Email) == "" {
		return nil, models.ErrUnauthorized
	}
	room.ID = uuid.Nil
	room.Host.Email = host.Email
	if room.Host.Name == "" {
		room.Host.Name = host.Name
	}
	if err := r.store.Insert(ctx, &room); err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}
	r.logger.Info("room created", zap.String("room_id", room.ID.String()), zap.String("host", host.Email))
	return &room, nil
}

// Update overwrites the patched fields of a room owned by hostEmail.
func (r *Registry) Update(ctx context.Context, id uuid.UUID, p Patch, hostEmail string) (*models.Room, error) {
	if p.Empty() {
		return nil, fmt.Errorf("%w: no updatable fields", models.ErrValidation)
	}
	n, err := r.store.UpdateOwned(ctx, id, hostEmail, p)
	if err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	return r.Get(ctx, id)
}

// SetAvailability sets the booked flag.
func (r *Registry) SetAvailability(ctx context.Context, id uuid.UUID, booked bool) error {
	n, err := r.store.SetBooked(ctx, id, booked)
	if err != nil {
		return fmt.Errorf("set booked: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Delete removes a room owned by hostEmail.
func (r *Registry) Delete(ctx context.Context, id uuid.UUID, hostEmail string) error {
	n, err := r.store.DeleteOwned(ctx, id, hostEmail)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	r.logger.Info("room deleted", zap.String("room_id", id.String()), zap.String("host", hostEmail))
	return nil
}

// Get returns one room or models.ErrNotFound.
func (r *Registry) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("room %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return room, nil
}

// ListForHost returns the rooms owned by hostEmail.
func (r *Registry) ListForHost(ctx context.Context, hostEmail string) ([]models.Room, error) {
	return r.store.ListByHost(ctx, hostEmail)
}
