package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stayvista/backend/pkg/response"
)

// TokenRequest is the body for POST /jwt.
type TokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// Handler handles session HTTP endpoints.
type Handler struct {
	tokens *TokenService
	cookie CookiePolicy
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(tokens *TokenService, cookie CookiePolicy, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{tokens: tokens, cookie: cookie, logger: logger}
}

// Issue handles POST /jwt. Sets the session cookie for the posted identity.
func (h *Handler) Issue(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	token, err := h.tokens.Issue(Identity{Email: req.Email, Name: req.Name})
	if err != nil {
		h.logger.Error("issue token failed", zap.Error(err))
		response.Error(c, err, "failed to issue token")
		return
	}
	http.SetCookie(c.Writer, h.cookie.Session(token))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout handles GET /logout. Always succeeds, with or without a session.
func (h *Handler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, h.cookie.Cleared())
	c.JSON(http.StatusOK, gin.H{"success": true})
}
