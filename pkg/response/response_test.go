package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayvista/backend/internal/models"
)

func TestError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthorized", fmt.Errorf("gate: %w", models.ErrUnauthorized), http.StatusUnauthorized, "unauthorized access"},
		{"validation", fmt.Errorf("%w: price is required", models.ErrValidation), http.StatusBadRequest, "validation failed: price is required"},
		{"not found", fmt.Errorf("room: %w", models.ErrNotFound), http.StatusNotFound, "room: not found"},
		{"external", fmt.Errorf("%w: stripe down", models.ErrExternal), http.StatusBadGateway, "external service error: stripe down"},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err, "failed")

			assert.Equal(t, tt.status, w.Code)
			var body Body
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}
