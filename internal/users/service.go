package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/models"
)

// Store is the persistence the directory needs.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, u *models.User) (bool, error)
	SetStatus(ctx context.Context, email, status string) (int64, error)
	Update(ctx context.Context, email string, f UpdateFields, timestamp int64) (int64, error)
}

// UpdateFields is the admin-editable part of a user.
type UpdateFields struct {
	Role   *models.Role `json:"role" binding:"omitempty,userrole"`
	Status *string      `json:"status"`
}

// UpsertResult reports what Upsert did.
type UpsertResult struct {
	User     *models.User `json:"user"`
	Inserted bool         `json:"inserted"`
	Modified bool         `json:"modified"`
}

// Service manages platform users.
type Service struct {
	store  Store
	now    func() int64
	logger *zap.Logger
}

// NewService creates a user directory service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, now: models.NowMillis, logger: logger}
}

// Upsert records a sign-in. An existing user is returned unchanged unless the request carries
// the Requested status, which is always written. A new user always starts as a guest.
func (s *Service) Upsert(ctx context.Context, in models.User) (*UpsertResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrValidation)
	}

	existing, err := s.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return s.upsertExisting(ctx, existing, in.Status)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("load user: %w", err)
	}

	u := &models.User{
		Email:     email,
		Name:      in.Name,
		Image:     in.Image,
		Role:      models.RoleGuest,
		Status:    models.StatusVerified,
		Timestamp: s.now(),
	}
	if models.IsRequestedStatus(in.Status) {
		u.Status = models.StatusRequested
	}
	inserted, err := s.store.Insert(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if !inserted {
		// lost a race with a concurrent first sign-in
		existing, err := s.store.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("reload user: %w", err)
		}
		return s.upsertExisting(ctx, existing, in.Status)
	}
	s.logger.Info("user created", zap.String("email", email))
	return &UpsertResult{User: u, Inserted: true}, nil
}

func (s *Service) upsertExisting(ctx context.Context, existing *models.User, status string) (*UpsertResult, error) {
	if !models.IsRequestedStatus(status) {
		return &UpsertResult{User: existing}, nil
	}
	n, err := s.store.SetStatus(ctx, existing.Email, models.StatusRequested)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	existing.Status = models.StatusRequested
	s.logger.Info("host role requested", zap.String("email", existing.Email))
	return &UpsertResult{User: existing, Modified: n > 0}, nil
}

// List returns every user.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.store.List(ctx)
}

// Get returns one user or models.ErrNotFound.
func (s *Service) Get(ctx context.Context, email string) (*models.User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

// Update applies an admin change (typically approving a host request) and refreshes the timestamp.
func (s *Service) Update(ctx context.Context, email string, f UpdateFields) (*models.User, error) {
	if f.Role != nil && !f.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, *f.Role)
	}
	n, err := s.store.Update(ctx, email, f, s.now())
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	if f.Role != nil {
		s.logger.Info("user role changed", zap.String("email", email), zap.String("role", string(*f.Role)))
	}
	return s.Get(ctx, email)
}
