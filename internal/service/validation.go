package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// NewValidator builds the shared validator with workflow custom rules.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("decision", func(fl validator.FieldLevel) bool {
		switch models.Decision(fl.Field().String()) {
		case models.DecisionApprove, models.DecisionReject:
			return true
		}
		return false
	})
	return v
}
