package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayvista/backend/internal/auth"
	"github.com/stayvista/backend/internal/bookings"
	"github.com/stayvista/backend/internal/metrics"
	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/internal/payments"
	"github.com/stayvista/backend/internal/rooms"
	"github.com/stayvista/backend/internal/stats"
	"github.com/stayvista/backend/internal/users"
)

// counter tracks storage writes across the fake stores.
type counter struct{ writes int }

type userStore struct {
	*counter
	users map[string]*models.User
}

func (s userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s userStore) List(context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s userStore) Insert(_ context.Context, u *models.User) (bool, error) {
	s.writes++
	s.users[u.Email] = u
	return true, nil
}

func (s userStore) SetStatus(_ context.Context, email, status string) (int64, error) {
	s.writes++
	return 1, nil
}

func (s userStore) Update(_ context.Context, email string, f users.UpdateFields, ts int64) (int64, error) {
	s.writes++
	u, ok := s.users[email]
	if !ok {
		return 0, nil
	}
	if f.Role != nil {
		u.Role = *f.Role
	}
	return 1, nil
}

func (s userStore) Count(context.Context) (int, error) { return len(s.users), nil }

type roomStore struct {
	*counter
	rooms []models.Room
}

func (s *roomStore) List(context.Context, string) ([]models.Room, error) { return s.rooms, nil }
func (s *roomStore) ListByHost(context.Context, string) ([]models.Room, error) {
	return s.rooms, nil
}
func (s *roomStore) GetByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	for _, r := range s.rooms {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}
func (s *roomStore) Insert(_ context.Context, r *models.Room) error {
	s.writes++
	r.ID = uuid.New()
	s.rooms = append(s.rooms, *r)
	return nil
}
func (s *roomStore) UpdateOwned(context.Context, uuid.UUID, string, rooms.Patch) (int64, error) {
	s.writes++
	return 1, nil
}
func (s *roomStore) SetBooked(context.Context, uuid.UUID, bool) (int64, error) {
	s.writes++
	return 1, nil
}
func (s *roomStore) DeleteOwned(context.Context, uuid.UUID, string) (int64, error) {
	s.writes++
	return 1, nil
}
func (s *roomStore) Count(context.Context, string) (int, error) { return len(s.rooms), nil }

type bookingStore struct {
	*counter
	bookings []models.Booking
}

func (s *bookingStore) Insert(_ context.Context, b *models.Booking) error {
	s.writes++
	b.ID = uuid.New()
	s.bookings = append(s.bookings, *b)
	return nil
}
func (s *bookingStore) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	for _, b := range s.bookings {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}
func (s *bookingStore) Delete(context.Context, uuid.UUID) (int64, error) {
	s.writes++
	return 1, nil
}
func (s *bookingStore) ListByGuest(context.Context, string) ([]models.Booking, error) {
	return s.bookings, nil
}
func (s *bookingStore) ListByHost(context.Context, string) ([]models.Booking, error) {
	return s.bookings, nil
}
func (s *bookingStore) ListAll(context.Context) ([]models.Booking, error) { return s.bookings, nil }

type intentProvider struct{ calls int }

func (p *intentProvider) CreateIntent(_ context.Context, amount int64, currency string) (*payments.Intent, error) {
	p.calls++
	return &payments.Intent{ID: "pi_1", ClientSecret: "secret", Amount: amount, Currency: currency}, nil
}
func (p *intentProvider) GetIntent(context.Context, string) (*payments.Intent, error) {
	return nil, models.ErrValidation
}

type fixture struct {
	router   *gin.Engine
	tokens   *auth.TokenService
	counter  *counter
	provider *intentProvider
	room     uuid.UUID
	booking  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c := &counter{}
	us := userStore{counter: c, users: map[string]*models.User{
		"admin@example.com": {Email: "admin@example.com", Role: models.RoleAdmin},
		"host@example.com":  {Email: "host@example.com", Role: models.RoleHost},
		"guest@example.com": {Email: "guest@example.com", Role: models.RoleGuest},
	}}
	roomID, bookingID := uuid.New(), uuid.New()
	rs := &roomStore{counter: c, rooms: []models.Room{{ID: roomID, Host: models.Party{Email: "host@example.com"}}}}
	bs := &bookingStore{counter: c, bookings: []models.Booking{{ID: bookingID, Guest: models.Party{Email: "guest@example.com"}, Price: 10}}}
	provider := &intentProvider{}

	tokens := auth.NewTokenService("test-secret", 365)
	gate := auth.NewGate(us, nil)
	reg := prometheus.NewRegistry()

	router := NewRouter(Deps{
		Tokens: tokens,
		Gate:   gate,
		Handlers: Handlers{
			Auth:     auth.NewHandler(tokens, auth.NewCookiePolicy(false, tokens.TTL()), nil),
			Users:    users.NewHandler(users.NewService(us, nil), nil),
			Rooms:    rooms.NewHandler(rooms.NewRegistry(rs, nil), nil),
			Images:   rooms.NewImageHandler(nil, nil),
			Bookings: bookings.NewHandler(bookings.NewManager(bs, nil), nil),
			Payments: payments.NewHandler(payments.NewBroker(provider, "usd", nil, nil), nil),
			Stats:    stats.NewHandler(stats.NewAggregator(bs, us, rs, us, stats.Unified, nil), nil),
		},
		Metrics:           metrics.NewCollector(reg),
		Gatherer:          reg,
		AuthRatePerMinute: 100,
	})
	return &fixture{router: router, tokens: tokens, counter: c, provider: provider, room: roomID, booking: bookingID}
}

func (f *fixture) do(t *testing.T, method, target, email, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		token, err := f.tokens.Issue(auth.Identity{Email: email})
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type route struct {
	method, path, body string
}

func (f *fixture) sessionRoutes() []route {
	return []route{
		{http.MethodPost, "/create-payment-intent", `{"price":10}`},
		{http.MethodGet, "/users", ""},
		{http.MethodPatch, "/user/guest@example.com", `{"role":"host"}`},
		{http.MethodPost, "/room", `{"title":"x"}`},
		{http.MethodGet, "/my-listings/host@example.com", ""},
		{http.MethodDelete, "/room/" + f.room.String(), ""},
		{http.MethodPatch, "/room/status/" + f.room.String(), `{"status":true}`},
		{http.MethodPatch, "/room/update/" + f.room.String(), `{"title":"y"}`},
		{http.MethodPost, "/room/image", ""},
		{http.MethodPost, "/booking", `{"price":10}`},
		{http.MethodGet, "/my-bookings/guest@example.com", ""},
		{http.MethodDelete, "/booking/" + f.booking.String(), ""},
		{http.MethodGet, "/manage-bookings/host@example.com", ""},
		{http.MethodGet, "/admin-stat", ""},
		{http.MethodGet, "/host-stat", ""},
		{http.MethodGet, "/guest-stat", ""},
	}
}

func TestNoSession_UnauthorizedWithoutWrites(t *testing.T) {
	f := newFixture(t)

	for _, r := range f.sessionRoutes() {
		w := f.do(t, r.method, r.path, "", r.body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
		assert.Contains(t, w.Body.String(), "unauthorized access", "%s %s", r.method, r.path)

		forged, err := auth.NewTokenService("wrong-secret", 365).Issue(auth.Identity{Email: "admin@example.com"})
		require.NoError(t, err)
		req := httptest.NewRequest(r.method, r.path, bytes.NewBufferString(r.body))
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: forged})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "forged %s %s", r.method, r.path)
	}
	assert.Equal(t, 0, f.counter.writes)
	assert.Equal(t, 0, f.provider.calls)
}

func TestAdminRoutes_RejectNonAdmins(t *testing.T) {
	f := newFixture(t)
	for _, email := range []string{"host@example.com", "guest@example.com", "ghost@example.com"} {
		assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/users", email, "").Code, email)
		assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/admin-stat", email, "").Code, email)
		assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPatch, "/user/guest@example.com", email, `{"role":"admin"}`).Code, email)
	}
	assert.Equal(t, 0, f.counter.writes)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/users", "admin@example.com", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/admin-stat", "admin@example.com", "").Code)
}

func TestHostRoutes_RejectNonHosts(t *testing.T) {
	f := newFixture(t)
	routes := []route{
		{http.MethodPost, "/room", `{"title":"x"}`},
		{http.MethodDelete, "/room/" + f.room.String(), ""},
		{http.MethodPatch, "/room/update/" + f.room.String(), `{"title":"y"}`},
		{http.MethodGet, "/host-stat", ""},
	}
	for _, email := range []string{"admin@example.com", "guest@example.com"} {
		for _, r := range routes {
			assert.Equal(t, http.StatusUnauthorized, f.do(t, r.method, r.path, email, r.body).Code, "%s %s as %s", r.method, r.path, email)
		}
	}
	assert.Equal(t, 0, f.counter.writes)

	assert.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/room", "host@example.com", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/host-stat", "host@example.com", "").Code)
}

func TestPublicRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Liveness, w.Body.String())

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/rooms?category=null", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/user/guest@example.com", "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/user/nobody@example.com", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/metrics", "", "").Code)
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/jwt", "", `{"email":"guest@example.com","name":"Gina"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var token *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			token = c
		}
	}
	require.NotNil(t, token)
	assert.True(t, token.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, token.SameSite)
	assert.Equal(t, int((365 * 24 * time.Hour).Seconds()), token.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/guest-stat", nil)
	req.AddCookie(token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	w = f.do(t, http.MethodGet, "/logout", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestPaymentIntent_ZeroPriceRejected(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/create-payment-intent", "guest@example.com", `{"price":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/create-payment-intent", "guest@example.com", `{}`).Code)
	assert.Equal(t, 0, f.provider.calls)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/create-payment-intent", "guest@example.com", `{"price":"12.5"}`).Code)
	assert.Equal(t, 1, f.provider.calls)
}

func TestUpdateUser_RoleValidation(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPatch, "/user/guest@example.com", "admin@example.com", `{"role":"owner"}`).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPatch, "/user/guest@example.com", "admin@example.com", `{"role":"host","status":"Verified"}`).Code)
}
