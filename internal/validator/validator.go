package validator

import (
	"strings"

	ierr "github.com/flexprice/taxadmin/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// NewValidator builds the shared validator and registers the custom tags
func NewValidator() *validator.Validate {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", notBlank)
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

// notBlank fails strings that are empty after trimming. Pair it with
// omitnil for partial payloads.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
