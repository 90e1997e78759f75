package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/preppal-app/coaching-service/internal/models"
)

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// Validator wraps go-playground validation plus the coaching business rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerBusinessRules()

	return v
}

// Validate validates a struct and converts tag failures into ValidationErrors.
// Returns nil when the struct passes.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, fe := range err.(validator.ValidationErrors) {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return errs
}

func (v *Validator) registerBusinessRules() {
	// experience_level and focus_area must come from the fixed preference lists.
	_ = v.validate.RegisterValidation("experience_level", func(fl validator.FieldLevel) bool {
		return containsString(models.ExperienceLevels, fl.Field().String())
	})
	_ = v.validate.RegisterValidation("focus_area", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || containsString(models.FocusAreas, value)
	})
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "experience_level":
		return "must be one of the supported experience levels"
	case "focus_area":
		return "must be one of the supported focus areas"
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
