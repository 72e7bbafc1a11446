package validation

import (
	"github.com/go-playground/validator/v10"
)

var rideTypes = map[string]bool{
	"CAR":         true,
	"MOTORCYCLE":  true,
	"SHARED_UBER": true,
	"GROUP":       true,
}

var rideStatuses = map[string]bool{
	"ACTIVE":    true,
	"FULL":      true,
	"CANCELLED": true,
	"COMPLETED": true,
}

var userRoles = map[string]bool{
	"STUDENT": true,
	"STAFF":   true,
}

// RegisterCustomValidators registers TaSafe-specific binding tags on the
// validator engine used by gin.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("ride_type", func(fl validator.FieldLevel) bool {
		return rideTypes[fl.Field().String()]
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("ride_status", func(fl validator.FieldLevel) bool {
		return rideStatuses[fl.Field().String()]
	}); err != nil {
		return err
	}

	return v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return userRoles[fl.Field().String()]
	})
}
