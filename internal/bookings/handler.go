package bookings

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/middleware"
	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/pkg/response"
)

// Lifecycle is the booking operations the HTTP layer depends on.
type Lifecycle interface {
	Create(ctx context.Context, b models.Booking, guest models.Party) (*models.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, guestEmail string) error
	ListForGuest(ctx context.Context, guestEmail string) ([]models.Booking, error)
	ListForHost(ctx context.Context, hostEmail string) ([]models.Booking, error)
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	bookings Lifecycle
	logger   *zap.Logger
}

// NewHandler creates a booking handler.
func NewHandler(bookings Lifecycle, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{bookings: bookings, logger: logger}
}

// Create handles POST /booking (session).
func (h *Handler) Create(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, models.ErrUnauthorized.Error())
		return
	}
	var req models.Booking
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	b, err := h.bookings.Create(c.Request.Context(), req, models.Party{Email: id.Email, Name: id.Name})
	if err != nil {
		h.logger.Error("create booking failed", zap.Error(err), zap.String("guest", id.Email))
		response.Error(c, err, "failed to create booking")
		return
	}
	response.Created(c, gin.H{"insertedId": b.ID, "booking": b})
}

// ListForGuest handles GET /my-bookings/:email (session, caller only).
func (h *Handler) ListForGuest(c *gin.Context) {
	email, ok := callerMatchingPath(c)
	if !ok {
		return
	}
	list, err := h.bookings.ListForGuest(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("list guest bookings failed", zap.Error(err), zap.String("guest", email))
		response.Internal(c, "failed to list bookings")
		return
	}
	response.OK(c, list)
}

// ListForHost handles GET /manage-bookings/:email (host, caller only).
func (h *Handler) ListForHost(c *gin.Context) {
	email, ok := callerMatchingPath(c)
	if !ok {
		return
	}
	list, err := h.bookings.ListForHost(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("list host bookings failed", zap.Error(err), zap.String("host", email))
		response.Internal(c, "failed to list bookings")
		return
	}
	response.OK(c, list)
}

// Cancel handles DELETE /booking/:id (session, booking guest only).
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, models.ErrUnauthorized.Error())
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	if err := h.bookings.Cancel(c.Request.Context(), bookingID, id.Email); err != nil {
		response.Error(c, err, "failed to cancel booking")
		return
	}
	response.OK(c, gin.H{"deletedCount": 1})
}

func callerMatchingPath(c *gin.Context) (string, bool) {
	id, ok := middleware.Identity(c)
	if !ok || id.Email == "" || !strings.EqualFold(c.Param("email"), id.Email) {
		response.Unauthorized(c, models.ErrUnauthorized.Error())
		return "", false
	}
	return id.Email, true
}
