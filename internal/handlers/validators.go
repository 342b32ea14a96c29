package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mikenapp/caja_backend/internal/core/domain"
)

// RegisterValidations installs custom binding validations on Gin's validator
// engine. Must run once before routes are served.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("daystr", func(fl validator.FieldLevel) bool {
			return domain.ValidDay(fl.Field().String())
		})
	}
}
