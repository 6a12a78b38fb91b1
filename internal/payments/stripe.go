package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/pkg/breaker"
)

// StripeProvider creates payment intents through the Stripe API.
type StripeProvider struct {
	api    *client.API
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewStripeProvider creates a provider for secretKey.
func NewStripeProvider(secretKey string, logger *zap.Logger) *StripeProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, cb: breaker.New("stripe", logger), logger: logger}
}

// CreateIntent creates an intent with automatic payment methods enabled.
func (p *StripeProvider) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.api.PaymentIntents.New(params)
	})
	if err != nil {
		return nil, err
	}
	return toIntent(res.(*stripe.PaymentIntent)), nil
}

// GetIntent retrieves an intent by id. An unknown id is a validation error.
func (p *StripeProvider) GetIntent(ctx context.Context, id string) (*Intent, error) {
	if !strings.HasPrefix(id, "pi_") {
		return nil, fmt.Errorf("%w: %q is not a payment intent id", models.ErrValidation, id)
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	res, err := p.cb.Execute(func() (interface{}, error) {
		pi, err := p.api.PaymentIntents.Get(id, params)
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.HTTPStatusCode == 404 {
			return nil, fmt.Errorf("%w: payment intent %s not found", models.ErrValidation, id)
		}
		return pi, err
	})
	if err != nil {
		return nil, err
	}
	return toIntent(res.(*stripe.PaymentIntent)), nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}
