package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/stayvista/backend/internal/auth"
	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/pkg/response"
)

// RequireRole returns a middleware that allows only callers whose stored role is role.
// It must run after Session.
func RequireRole(gate *auth.Gate, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := Identity(c)
		if !ok {
			response.Unauthorized(c, models.ErrUnauthorized.Error())
			c.Abort()
			return
		}
		if err := gate.Require(c.Request.Context(), id, role); err != nil {
			response.Unauthorized(c, models.ErrUnauthorized.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}
