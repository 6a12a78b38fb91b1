package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/metrics"
	"github.com/stayvista/backend/internal/models"
)

// Intent is what the broker needs from a provider's payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

// Provider creates and retrieves payment intents.
type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// Broker validates amounts and talks to the payment provider.
type Broker struct {
	provider Provider
	currency string
	metrics  metrics.Recorder
	logger   *zap.Logger
}

// NewBroker creates a payment broker. currency defaults to usd.
func NewBroker(provider Provider, currency string, rec metrics.Recorder, logger *zap.Logger) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	if currency == "" {
		currency = "usd"
	}
	return &Broker{provider: provider, currency: strings.ToLower(currency), metrics: rec, logger: logger}
}

// CreateIntent returns the client secret for an intent of price. Invalid prices are
// rejected before the provider is called.
func (b *Broker) CreateIntent(ctx context.Context, price json.RawMessage) (string, error) {
	v, err := ParsePrice(price)
	if err != nil {
		b.metrics.RecordPaymentIntent("rejected")
		return "", err
	}
	amount, err := MinorUnits(v)
	if err != nil {
		b.metrics.RecordPaymentIntent("rejected")
		return "", err
	}
	intent, err := b.provider.CreateIntent(ctx, amount, b.currency)
	if err != nil {
		b.metrics.RecordPaymentIntent("failed")
		b.logger.Error("create payment intent failed", zap.Error(err), zap.Int64("amount", amount))
		return "", fmt.Errorf("%w: create payment intent: %v", models.ErrExternal, err)
	}
	b.metrics.RecordPaymentIntent("created")
	b.logger.Info("payment intent created", zap.String("intent_id", intent.ID), zap.Int64("amount", amount))
	return intent.ClientSecret, nil
}

// VerifyTransaction checks that transactionID exists and authorized exactly price.
func (b *Broker) VerifyTransaction(ctx context.Context, transactionID string, price float64) error {
	amount, err := MinorUnits(price)
	if err != nil {
		return err
	}
	intent, err := b.provider.GetIntent(ctx, transactionID)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: retrieve payment intent: %v", models.ErrExternal, err)
	}
	switch intent.Status {
	case "canceled", "requires_payment_method":
		return fmt.Errorf("%w: transaction %s is not authorized (%s)", models.ErrValidation, transactionID, intent.Status)
	}
	if intent.Amount != amount {
		return fmt.Errorf("%w: booking price %d does not match authorized amount %d", models.ErrValidation, amount, intent.Amount)
	}
	if intent.Currency != "" && !strings.EqualFold(intent.Currency, b.currency) {
		return fmt.Errorf("%w: unexpected currency %s", models.ErrValidation, intent.Currency)
	}
	return nil
}
