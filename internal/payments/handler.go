package payments

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stayvista/backend/pkg/response"
)

// IntentCreator is what the HTTP layer needs from the broker.
type IntentCreator interface {
	CreateIntent(ctx context.Context, price json.RawMessage) (string, error)
}

// IntentRequest is the body for POST /create-payment-intent. Price may be a number or a string.
type IntentRequest struct {
	Price json.RawMessage `json:"price"`
}

// Handler handles payment HTTP endpoints.
type Handler struct {
	broker IntentCreator
	logger *zap.Logger
}

// NewHandler creates a payment handler.
func NewHandler(broker IntentCreator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{broker: broker, logger: logger}
}

// CreateIntent handles POST /create-payment-intent (session) and returns {"clientSecret": ...}.
func (h *Handler) CreateIntent(c *gin.Context) {
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	secret, err := h.broker.CreateIntent(c.Request.Context(), req.Price)
	if err != nil {
		response.Error(c, err, "failed to create payment intent")
		return
	}
	response.OK(c, gin.H{"clientSecret": secret})
}
