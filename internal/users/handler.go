package users

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/pkg/response"
)

// Directory is the user operations the HTTP layer depends on.
type Directory interface {
	Upsert(ctx context.Context, in models.User) (*UpsertResult, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, email string, f UpdateFields) (*models.User, error)
}

// UpsertRequest is the body for PUT /user. A role in the body is ignored.
type UpsertRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Status string `json:"status"`
}

// Handler handles user HTTP endpoints.
type Handler struct {
	dir    Directory
	logger *zap.Logger
}

// NewHandler creates a user handler.
func NewHandler(dir Directory, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{dir: dir, logger: logger}
}

// Upsert handles PUT /user.
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	res, err := h.dir.Upsert(c.Request.Context(), models.User{
		Email:  req.Email,
		Name:   req.Name,
		Image:  req.Image,
		Status: req.Status,
	})
	if err != nil {
		h.logger.Error("upsert user failed", zap.Error(err), zap.String("email", req.Email))
		response.Error(c, err, "failed to save user")
		return
	}
	response.OK(c, res)
}

// List handles GET /users (admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.dir.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

// Get handles GET /user/:email.
func (h *Handler) Get(c *gin.Context) {
	u, err := h.dir.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err, "failed to load user")
		return
	}
	response.OK(c, u)
}

// Update handles PATCH /user/:email (admin only).
func (h *Handler) Update(c *gin.Context) {
	var req UpdateFields
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.dir.Update(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		h.logger.Error("update user failed", zap.Error(err), zap.String("email", c.Param("email")))
		response.Error(c, err, "failed to update user")
		return
	}
	response.OK(c, u)
}
