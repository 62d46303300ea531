// Package validation provides request validation for the HTTP layer using
// go-playground/validator struct tags.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adjeikofi/cropdoc"
)

// Validator implements echo.Validator using go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate validates a struct using its validation tags. Failures come back
// as an EINVALID domain error carrying per-field messages, so handlers can
// return it directly.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return cropdoc.Invalid("Invalid request")
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fieldName(fe)] = fieldMessage(fe)
	}
	return cropdoc.ErrorWithFields(fields)
}

// fieldName converts a struct field name to its snake_case wire name.
func fieldName(fe validator.FieldError) string {
	var sb strings.Builder
	for i, r := range fe.Field() {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "uuid":
		return "Must be a valid ID"
	case "max":
		return "Value is too long"
	case "min":
		return "Value is too short"
	case "gt", "gte":
		return "Value is too small"
	default:
		return "Invalid value"
	}
}
