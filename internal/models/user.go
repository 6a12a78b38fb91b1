package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the platform.
type Role string

const (
	RoleGuest     Role = "guest"
	RoleHost      Role = "host"
	RoleAdmin     Role = "admin"
	RoleRequested Role = "requested"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleHost, RoleAdmin, RoleRequested:
		return true
	}
	return false
}

// Account status values. A guest asking to become a host is marked Requested until an admin decides.
const (
	StatusVerified  = "Verified"
	StatusRequested = "Requested"
)

// IsRequestedStatus matches the self-service host request regardless of case ("requested", "Requested").
func IsRequestedStatus(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), StatusRequested)
}

// User represents a platform user.
type User struct {
	ID        uuid.UUID `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Image     string    `json:"image,omitempty"`
	Role      Role      `json:"role"`
	Status    string    `json:"status,omitempty"`
	Timestamp int64     `json:"timestamp"` // ms since epoch, refreshed on admin updates
	CreatedAt time.Time `json:"created_at"`
}

// Party is the denormalized identity copied into rooms and bookings (host or guest).
type Party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// NowMillis returns the current time in milliseconds since epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
