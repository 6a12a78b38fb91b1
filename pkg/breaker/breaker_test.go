package breaker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stayvista/backend/internal/models"
)

func TestBreaker_OpensAfterThreeFailures(t *testing.T) {
	cb := New("test", nil)
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, boom })
		assert.Equal(t, boom, err)
	}
	_, err := cb.Execute(func() (interface{}, error) { return "unreachable", nil })
	assert.True(t, IsOpen(err))
}

func TestBreaker_ValidationErrorsDoNotTrip(t *testing.T) {
	cb := New("test", nil)
	invalid := fmt.Errorf("%w: bad amount", models.ErrValidation)

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, invalid })
		assert.True(t, errors.Is(err, models.ErrValidation))
	}
	v, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
}
