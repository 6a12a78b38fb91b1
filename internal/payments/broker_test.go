package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayvista/backend/internal/models"
)

type fakeProvider struct {
	created []int64
	intents map[string]*Intent
	err     error
}

func (p *fakeProvider) CreateIntent(_ context.Context, amount int64, currency string) (*Intent, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.created = append(p.created, amount)
	return &Intent{ID: "pi_new", ClientSecret: "pi_new_secret_x", Amount: amount, Currency: currency}, nil
}

func (p *fakeProvider) GetIntent(_ context.Context, id string) (*Intent, error) {
	if p.err != nil {
		return nil, p.err
	}
	in, ok := p.intents[id]
	if !ok {
		return nil, models.ErrValidation
	}
	return in, nil
}

func TestCreateIntent_RejectsWithoutProviderCall(t *testing.T) {
	for _, raw := range []string{``, `null`, `0`, `"0"`, `0.004`, `-5`, `"abc"`, `{}`} {
		p := &fakeProvider{}
		_, err := NewBroker(p, "", nil, nil).CreateIntent(context.Background(), json.RawMessage(raw))
		assert.True(t, errors.Is(err, models.ErrValidation), "price %q: err = %v", raw, err)
		assert.Empty(t, p.created, "price %q", raw)
	}
}

func TestCreateIntent_MinorUnits(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{`120`, 12000},
		{`"120"`, 12000},
		{`19.99`, 1998},
		{`"49.5 USD"`, 4950},
		{`0.01`, 1},
	}
	for _, tt := range tests {
		p := &fakeProvider{}
		secret, err := NewBroker(p, "usd", nil, nil).CreateIntent(context.Background(), json.RawMessage(tt.raw))
		require.NoError(t, err, tt.raw)
		assert.Equal(t, "pi_new_secret_x", secret)
		assert.Equal(t, []int64{tt.want}, p.created, tt.raw)
	}
}

func TestCreateIntent_ProviderFailureIsExternal(t *testing.T) {
	p := &fakeProvider{err: errors.New("stripe unavailable")}
	_, err := NewBroker(p, "usd", nil, nil).CreateIntent(context.Background(), json.RawMessage(`10`))
	assert.True(t, errors.Is(err, models.ErrExternal))
}

func TestVerifyTransaction(t *testing.T) {
	p := &fakeProvider{intents: map[string]*Intent{
		"pi_ok":       {ID: "pi_ok", Amount: 25000, Currency: "usd", Status: "succeeded"},
		"pi_canceled": {ID: "pi_canceled", Amount: 25000, Currency: "usd", Status: "canceled"},
		"pi_eur":      {ID: "pi_eur", Amount: 25000, Currency: "eur", Status: "succeeded"},
	}}
	b := NewBroker(p, "usd", nil, nil)
	ctx := context.Background()

	assert.NoError(t, b.VerifyTransaction(ctx, "pi_ok", 250))
	assert.True(t, errors.Is(b.VerifyTransaction(ctx, "pi_ok", 249.99), models.ErrValidation))
	assert.True(t, errors.Is(b.VerifyTransaction(ctx, "pi_canceled", 250), models.ErrValidation))
	assert.True(t, errors.Is(b.VerifyTransaction(ctx, "pi_eur", 250), models.ErrValidation))
	assert.True(t, errors.Is(b.VerifyTransaction(ctx, "pi_missing", 250), models.ErrValidation))

	p.err = errors.New("timeout")
	assert.True(t, errors.Is(b.VerifyTransaction(ctx, "pi_ok", 250), models.ErrExternal))
}

func TestHandler_CreateIntent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := &fakeProvider{}
	r := gin.New()
	r.POST("/create-payment-intent", NewHandler(NewBroker(p, "usd", nil, nil), nil).CreateIntent)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"price": 80}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"clientSecret":"pi_new_secret_x"`)

	assert.Equal(t, http.StatusBadRequest, post(`{"price": 0}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{}`).Code)
	assert.Len(t, p.created, 1)
}
