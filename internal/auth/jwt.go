package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stayvista/backend/internal/models"
)

// Identity is what a session token proves about its bearer.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Claims holds JWT claims for a session.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService handles session token generation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service whose tokens live for expireDays.
func NewTokenService(secret string, expireDays int) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    time.Duration(expireDays) * 24 * time.Hour,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for the identity. The email is mandatory.
func (s *TokenService) Issue(id Identity) (string, error) {
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", models.ErrValidation)
	}
	now := s.now()
	claims := Claims{
		Email: email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token. Every failure is reported as models.ErrUnauthorized.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, fmt.Errorf("missing token: %w", models.ErrUnauthorized)
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ExpiresAt == nil || claims.Email == "" {
		return Identity{}, fmt.Errorf("invalid claims: %w", models.ErrUnauthorized)
	}
	return Identity{Email: claims.Email, Name: claims.Name}, nil
}
