package stats

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/middleware"
	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/pkg/response"
)

// Handler serves the statistics endpoints.
type Handler struct {
	agg    *Aggregator
	logger *zap.Logger
}

// NewHandler creates a statistics handler.
func NewHandler(agg *Aggregator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{agg: agg, logger: logger}
}

// Admin handles GET /admin-stat (admin).
func (h *Handler) Admin(c *gin.Context) {
	s, err := h.agg.Admin(c.Request.Context())
	if err != nil {
		h.logger.Error("admin stats failed", zap.Error(err))
		response.Internal(c, "failed to load statistics")
		return
	}
	response.OK(c, s)
}

// Host handles GET /host-stat (host).
func (h *Handler) Host(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, models.ErrUnauthorized.Error())
		return
	}
	s, err := h.agg.Host(c.Request.Context(), id.Email)
	if err != nil {
		h.logger.Error("host stats failed", zap.Error(err), zap.String("host", id.Email))
		response.Internal(c, "failed to load statistics")
		return
	}
	response.OK(c, s)
}

// Guest handles GET /guest-stat (session).
func (h *Handler) Guest(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, models.ErrUnauthorized.Error())
		return
	}
	s, err := h.agg.Guest(c.Request.Context(), id.Email)
	if err != nil {
		h.logger.Error("guest stats failed", zap.Error(err), zap.String("guest", id.Email))
		response.Internal(c, "failed to load statistics")
		return
	}
	response.OK(c, s)
}
