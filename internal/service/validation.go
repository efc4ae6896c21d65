package service

import (
	"errors"
	"reflect"
	"strings"

	"storefront/internal/model"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all services. Field names in error messages follow
// the json tags so they match what the client submitted.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs validator tags over a payload and converts failures
// into a DomainError enumerating every offending field.
func validateStruct(payload any) *model.DomainError {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewValidationError(map[string]string{"payload": "invalid"})
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return model.NewValidationError(fields)
}

// fieldMessage renders a single validator failure as a user-facing message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters or items"
	case "max":
		return "must be at most " + fe.Param() + " characters or items"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
