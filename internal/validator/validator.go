// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
// Period tokens are deliberately not validated here: unrecognized
// periods fall back to the six month default instead of erroring.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("view_mode", validateViewMode)
	}
}

func validateViewMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "CURRENT_CHANGE", "PERCENTAGE_CHANGE":
		return true
	}
	return false
}
