package stats

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/models"
)

// BookingSource lists bookings for each scope.
type BookingSource interface {
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByHost(ctx context.Context, hostEmail string) ([]models.Booking, error)
	ListByGuest(ctx context.Context, guestEmail string) ([]models.Booking, error)
}

// UserCounter counts platform users.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// RoomCounter counts rooms; an empty hostEmail counts all of them.
type RoomCounter interface {
	Count(ctx context.Context, hostEmail string) (int, error)
}

// UserLookup loads a user by email.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AdminSummary is the platform-wide summary.
type AdminSummary struct {
	TotalBookings int             `json:"totalBookings"`
	TotalUsers    int             `json:"totalUsers"`
	TotalRooms    int             `json:"totalRooms"`
	TotalPrice    float64         `json:"totalPrice"`
	ChartData     [][]interface{} `json:"chartData"`
}

// HostSummary covers the bookings on one host's rooms.
type HostSummary struct {
	ChartData     [][]interface{} `json:"chartData"`
	TotalPrice    float64         `json:"totalPrice"`
	TotalRooms    int             `json:"totalRooms"`
	TotalBookings int             `json:"totalBookings"`
	HostSince     *int64          `json:"hostSince"`
}

// GuestSummary covers one guest's bookings.
type GuestSummary struct {
	GuestSince    *int64          `json:"guestSince"`
	TotalPrice    float64         `json:"totalPrice"`
	TotalBookings int             `json:"totalBookings"`
	ChartData     [][]interface{} `json:"chartData"`
}

// Aggregator builds read-only booking summaries.
type Aggregator struct {
	bookings BookingSource
	users    UserCounter
	rooms    RoomCounter
	lookup   UserLookup
	style    LabelStyle
	logger   *zap.Logger
}

// NewAggregator creates a statistics aggregator.
func NewAggregator(bookings BookingSource, users UserCounter, rooms RoomCounter, lookup UserLookup, style LabelStyle, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{bookings: bookings, users: users, rooms: rooms, lookup: lookup, style: style, logger: logger}
}

// series totals the prices and builds the chart rows, header first, one row per booking in input order.
func (a *Aggregator) series(scope Scope, list []models.Booking) (float64, [][]interface{}) {
	total := 0.0
	chart := make([][]interface{}, 0, len(list)+1)
	chart = append(chart, a.style.header(scope))
	for _, b := range list {
		total += b.Price
		chart = append(chart, []interface{}{a.style.label(scope, b.Date), b.Price})
	}
	return total, chart
}

func (a *Aggregator) since(ctx context.Context, email string) (*int64, error) {
	u, err := a.lookup.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	ts := u.Timestamp
	return &ts, nil
}

// Admin summarizes every booking on the platform.
func (a *Aggregator) Admin(ctx context.Context) (*AdminSummary, error) {
	list, err := a.bookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	users, err := a.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	rooms, err := a.rooms.Count(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}
	total, chart := a.series(ScopeAdmin, list)
	return &AdminSummary{
		TotalBookings: len(list),
		TotalUsers:    users,
		TotalRooms:    rooms,
		TotalPrice:    total,
		ChartData:     chart,
	}, nil
}

// Host summarizes the bookings on hostEmail's rooms.
func (a *Aggregator) Host(ctx context.Context, hostEmail string) (*HostSummary, error) {
	list, err := a.bookings.ListByHost(ctx, hostEmail)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	rooms, err := a.rooms.Count(ctx, hostEmail)
	if err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}
	since, err := a.since(ctx, hostEmail)
	if err != nil {
		return nil, err
	}
	total, chart := a.series(ScopeHost, list)
	return &HostSummary{
		ChartData:     chart,
		TotalPrice:    total,
		TotalRooms:    rooms,
		TotalBookings: len(list),
		HostSince:     since,
	}, nil
}

// Guest summarizes guestEmail's bookings.
func (a *Aggregator) Guest(ctx context.Context, guestEmail string) (*GuestSummary, error) {
	list, err := a.bookings.ListByGuest(ctx, guestEmail)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	since, err := a.since(ctx, guestEmail)
	if err != nil {
		return nil, err
	}
	total, chart := a.series(ScopeGuest, list)
	return &GuestSummary{
		GuestSince:    since,
		TotalPrice:    total,
		TotalBookings: len(list),
		ChartData:     chart,
	}, nil
}
