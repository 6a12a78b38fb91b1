package notify

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/pkg/response"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500
)

// LogLister lists delivery logs.
type LogLister interface {
	List(ctx context.Context, limit int) ([]models.NotificationLog, error)
}

// Handler handles notification log HTTP endpoints.
type Handler struct {
	logs LogLister
}

// NewHandler creates a notification log handler.
func NewHandler(logs LogLister) *Handler {
	return &Handler{logs: logs}
}

// List handles GET /notifications?limit= (admin).
func (h *Handler) List(c *gin.Context) {
	limit := defaultLogLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.BadRequest(c, "invalid limit")
			return
		}
		if n > maxLogLimit {
			n = maxLogLimit
		}
		limit = n
	}
	logs, err := h.logs.List(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to load notification logs")
		return
	}
	response.OK(c, logs)
}
