package users

import (
	"github.com/go-playground/validator/v10"

	"github.com/stayvista/backend/internal/models"
)

// RegisterValidations adds the "userrole" tag, rejecting roles outside the closed set.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
}
