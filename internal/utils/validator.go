package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/alktbihd/mentalhealth/internal/errors"
)

// Validator wraps go-playground/validator with the service's registration.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()

	// Report JSON field names in validation errors instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// ValidateStruct validates struct tags and returns the raw validator error.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// Validate validates struct tags and converts failures into the shared
// ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateVar validates a single value against a tag expression.
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}
