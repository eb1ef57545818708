// Package validation wraps a single shared validator instance for
// request body structs.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"workwear-backend/internal/apperrors"
)

var validate = validator.New()

// Struct validates s against its `validate` tags and converts the
// first failure into an apperrors.ValidationError.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return apperrors.Validationf("%s is required", field)
		case "min":
			return apperrors.Validationf("%s must be at least %s", field, fe.Param())
		case "max":
			return apperrors.Validationf("%s must be at most %s", field, fe.Param())
		case "email":
			return apperrors.Validationf("%s must be a valid email address", field)
		default:
			return apperrors.Validationf("%s is invalid", field)
		}
	}
	return apperrors.Validationf("invalid request body")
}
