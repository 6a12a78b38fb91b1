package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/stayvista/backend/internal/auth"
	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/pkg/response"
)

// ContextIdentity is the key for the verified session identity in gin context.
const ContextIdentity = "identity"

// Session returns a middleware that verifies the token cookie and sets the identity in context.
func Session(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(auth.CookieName)
		if err != nil || raw == "" {
			response.Unauthorized(c, models.ErrUnauthorized.Error())
			c.Abort()
			return
		}
		id, err := tokens.Verify(raw)
		if err != nil {
			response.Unauthorized(c, models.ErrUnauthorized.Error())
			c.Abort()
			return
		}
		c.Set(ContextIdentity, id)
		c.Next()
	}
}

// Identity returns the session identity set by Session.
func Identity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
