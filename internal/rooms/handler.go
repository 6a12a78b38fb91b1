package rooms

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

// Catalog is the room operations the HTTP layer depends on.
type Catalog interface {
	List(ctx context.Context, category string) ([]models.Room, error)
	Create(ctx context.Context, room models.Room, host models.Party) (*models.Room, error)
	Update(ctx context.Context, id uuid.UUID, p Patch, hostEmail string) (*models.Room, error)
	SetAvailability(ctx context.Context, id uuid.UUID, booked bool) error
	Delete(ctx context.Context, id uuid.UUID, hostEmail string) error
	Get(ctx context.Context, id uuid.UUID) (*models.Room, error)
	ListForHost(ctx context.Context, hostEmail string) ([]models.Room, error)
}

// StatusRequest is the body for PATCH /room/status/:id.
type StatusRequest struct {
	Status *bool `json:"status" binding:"required"`
}

// Handler handles room HTTP endpoints.
type Handler struct {
	rooms  Catalog
	logger *zap.Logger
}

// NewHandler creates a room handler.
func NewHandler(rooms Catalog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{rooms: rooms, logger: logger}
}

func parseRoomID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return uuid.Nil, false
	}
	return id, true
}

func caller(c *gin.Context) (string, bool) {
	id, ok := middleware.Identity(c)
	if !ok || id.Email == "" {
		response.Unauthorized(c, models.ErrUnauthorized.Error())
		return "", false
	}
	return id.Email, true
}

// List handles GET /rooms?category=.
func (h *Handler) List(c *gin.Context) {
	list, err := h.rooms.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.logger.Error("list rooms failed", zap.Error(err))
		response.Internal(c, "failed to list rooms")
		return
	}
	response.OK(c, list)
}

// Create handles POST /room (host).
func (h *Handler) Create(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, models.ErrUnauthorized.Error())
		return
	}
	var req models.Room
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), req, models.Party{Email: id.Email, Name: id.Name})
	if err != nil {
		h.logger.Error("create room failed", zap.Error(err), zap.String("host", id.Email))
		response.Error(c, err, "failed to create room")
		return
	}
	response.Created(c, gin.H{"insertedId": room.ID, "room": room})
}

// ListForHost handles GET /my-listings/:email (host). The path email must be the caller's.
func (h *Handler) ListForHost(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	if !strings.EqualFold(c.Param("email"), email) {
		response.Unauthorized(c, models.ErrUnauthorized.Error())
		return
	}
	list, err := h.rooms.ListForHost(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("list host rooms failed", zap.Error(err), zap.String("host", email))
		response.Internal(c, "failed to list rooms")
		return
	}
	response.OK(c, list)
}

// Delete handles DELETE /room/:id (host, owner only).
func (h *Handler) Delete(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	if err := h.rooms.Delete(c.Request.Context(), id, email); err != nil {
		response.Error(c, err, "failed to delete room")
		return
	}
	response.OK(c, gin.H{"deletedCount": 1})
}

// Get handles GET /rooms/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load room")
		return
	}
	response.OK(c, room)
}

// SetStatus handles PATCH /room/status/:id (session).
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.rooms.SetAvailability(c.Request.Context(), id, *req.Status); err != nil {
		response.Error(c, err, "failed to update room status")
		return
	}
	response.OK(c, gin.H{"modifiedCount": 1, "booked": *req.Status})
}

// Update handles PATCH /room/update/:id (host, owner only).
func (h *Handler) Update(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var p Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	room, err := h.rooms.Update(c.Request.Context(), id, p, email)
	if err != nil {
		response.Error(c, err, "failed to update room")
		return
	}
	response.OK(c, room)
}
