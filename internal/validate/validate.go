package validate

import (
	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Struct validates a request struct against its `validate` tags.
func Struct(s interface{}) error {
	return v.Struct(s)
}

// Errors flattens validator errors into a field→tag map for API responses.
// Returns nil when err is not a validation error.
func Errors(err error) map[string]string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string)
	for _, ve := range validationErrors {
		out[ve.Field()] = ve.Tag()
	}
	return out
}
