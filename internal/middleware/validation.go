package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/dmoran/orienta/internal/app/models/dto"
)

// ValidationErrorDetail converts a binding error into the standard error
// detail. Field-level validator errors become per-field messages; anything
// else is passed through as a plain detail string.
func ValidationErrorDetail(message string, err error) *dto.ErrorDetail {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		validationErrors := dto.NewValidationErrors()
		for _, e := range fieldErrors {
			validationErrors.AddError(e.Field(), formatValidationError(e))
		}
		return errorDetail.WithDetails(validationErrors.Errors)
	}

	return errorDetail.WithDetails(err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
