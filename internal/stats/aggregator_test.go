package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayvista/backend/internal/models"
)

type fakeBookings []models.Booking

func (f fakeBookings) ListAll(context.Context) ([]models.Booking, error) { return f, nil }

func (f fakeBookings) ListByHost(_ context.Context, email string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f {
		if b.Host.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f fakeBookings) ListByGuest(_ context.Context, email string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f {
		if b.Guest.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeCounts struct {
	users int
	err   error
}

func (f fakeCounts) Count(context.Context) (int, error) { return f.users, f.err }

type roomCounts map[string]int

func (r roomCounts) Count(_ context.Context, host string) (int, error) {
	if host == "" {
		n := 0
		for _, v := range r {
			n += v
		}
		return n, nil
	}
	return r[host], nil
}

type fakeLookup map[string]int64

func (f fakeLookup) GetByEmail(_ context.Context, email string) (*models.User, error) {
	ts, ok := f[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &models.User{Email: email, Timestamp: ts}, nil
}

var (
	host  = models.Party{Email: "host@example.com"}
	guest = models.Party{Email: "guest@example.com"}
)

func sample() fakeBookings {
	return fakeBookings{
		{Price: 50, Date: "2024-03-05T10:00:00.000Z", Host: host, Guest: guest},
		{Price: 30, Date: "2024-12-25", Host: host, Guest: models.Party{Email: "other@example.com"}},
		{Price: 20, Date: "", Host: host, Guest: guest},
	}
}

func newAggregator(b fakeBookings, style LabelStyle) *Aggregator {
	return NewAggregator(b, fakeCounts{users: 7}, roomCounts{"host@example.com": 2, "x@example.com": 1},
		fakeLookup{"host@example.com": 1600000000000}, style, nil)
}

func TestAdmin_TotalsAndSeriesOrder(t *testing.T) {
	s, err := newAggregator(sample(), Unified).Admin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100.0, s.TotalPrice)
	assert.Equal(t, 3, s.TotalBookings)
	assert.Equal(t, 7, s.TotalUsers)
	assert.Equal(t, 3, s.TotalRooms)
	require.Len(t, s.ChartData, 4)
	assert.Equal(t, []interface{}{"Day", "Sales"}, s.ChartData[0])
	assert.Equal(t, []interface{}{"5/3", 50.0}, s.ChartData[1])
	assert.Equal(t, []interface{}{"25/12", 30.0}, s.ChartData[2])
	assert.Equal(t, []interface{}{"NaN/NaN", 20.0}, s.ChartData[3])
}

func TestHost_Scope(t *testing.T) {
	s, err := newAggregator(sample(), Unified).Host(context.Background(), "host@example.com")
	require.NoError(t, err)

	assert.Equal(t, 100.0, s.TotalPrice)
	assert.Equal(t, 3, s.TotalBookings)
	assert.Equal(t, 2, s.TotalRooms)
	require.NotNil(t, s.HostSince)
	assert.Equal(t, int64(1600000000000), *s.HostSince)
	assert.Len(t, s.ChartData, 4)
}

func TestGuest_ScopeAndMissingUser(t *testing.T) {
	s, err := newAggregator(sample(), Unified).Guest(context.Background(), "guest@example.com")
	require.NoError(t, err)

	assert.Equal(t, 70.0, s.TotalPrice)
	assert.Equal(t, 2, s.TotalBookings)
	assert.Nil(t, s.GuestSince)
	assert.Equal(t, []interface{}{"Day", "Sales"}, s.ChartData[0])
	assert.Len(t, s.ChartData, 3)
}

func TestEmptyScope(t *testing.T) {
	s, err := newAggregator(nil, Unified).Guest(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.TotalPrice)
	assert.Len(t, s.ChartData, 1)
}

func TestLegacyLabels(t *testing.T) {
	agg := newAggregator(sample(), Legacy)
	ctx := context.Background()

	admin, err := agg.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5/3", admin.ChartData[1][0])

	hostStats, err := agg.Host(ctx, "host@example.com")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Day", "Sales"}, hostStats.ChartData[0])
	assert.Equal(t, "5/ 2", hostStats.ChartData[1][0])
	assert.Equal(t, "25/ 11", hostStats.ChartData[2][0])
	assert.Equal(t, "NaN/ NaN", hostStats.ChartData[3][0])

	guestStats, err := agg.Guest(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"day", "buys"}, guestStats.ChartData[0])
	assert.Equal(t, "5/2", guestStats.ChartData[1][0])
	assert.Equal(t, "NaN/NaN", guestStats.ChartData[2][0])
}

func TestParseDate(t *testing.T) {
	valid := []string{
		"2024-03-05T10:00:00.000Z",
		"2024-03-05T10:00:00+02:00",
		"2024-03-05",
		"Tue Mar 05 2024 10:00:00 GMT+0000 (Coordinated Universal Time)",
	}
	for _, raw := range valid {
		d, ok := parseDate(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, 5, d.Day(), raw)
	}
	for _, raw := range []string{"", "  ", "not a date", "2024-13-45"} {
		_, ok := parseDate(raw)
		assert.False(t, ok, raw)
	}
}

func TestAdmin_CountErrorPropagates(t *testing.T) {
	agg := NewAggregator(sample(), fakeCounts{err: errors.New("db down")}, roomCounts{}, fakeLookup{}, Unified, nil)
	_, err := agg.Admin(context.Background())
	assert.Error(t, err)
}
