package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/models"
)

// UserLookup loads the stored user record backing an identity.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Gate checks the caller's stored role. It reads storage only and never caches,
// so a role change made between the check and the guarded mutation is not detected.
type Gate struct {
	users  UserLookup
	logger *zap.Logger
}

// NewGate creates a role gate backed by users.
func NewGate(users UserLookup, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{users: users, logger: logger}
}

// Require fails with models.ErrUnauthorized unless the stored role of id equals role.
// A missing record and a lookup error are treated like a mismatch.
func (g *Gate) Require(ctx context.Context, id Identity, role models.Role) error {
	if id.Email == "" {
		return fmt.Errorf("no identity: %w", models.ErrUnauthorized)
	}
	u, err := g.users.GetByEmail(ctx, id.Email)
	if err != nil {
		g.logger.Debug("role lookup failed", zap.String("email", id.Email), zap.Error(err))
		return fmt.Errorf("role lookup: %w", models.ErrUnauthorized)
	}
	if u == nil || u.Role != role {
		return fmt.Errorf("role %q required: %w", role, models.ErrUnauthorized)
	}
	return nil
}

// RequireAdmin is Require with models.RoleAdmin.
func (g *Gate) RequireAdmin(ctx context.Context, id Identity) error {
	return g.Require(ctx, id, models.RoleAdmin)
}

// RequireHost is Require with models.RoleHost.
func (g *Gate) RequireHost(ctx context.Context, id Identity) error {
	return g.Require(ctx, id, models.RoleHost)
}
