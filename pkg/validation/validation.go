// Package validation builds the request validator shared by the services
// and the HTTP layer.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/mealprep/pantrymatch/pkg/errors"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator with the custom rules registered
func Validator() *validator.Validate {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a validator that reports JSON field names and knows the
// custom rules:
//
//	notblank  string is not empty after trimming whitespace
func New() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = validate.RegisterValidation("notblank", validateNotBlank)

	return validate
}

func validateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr, reflect.Interface:
		if field.IsNil() {
			return false
		}
		return strings.TrimSpace(field.Elem().String()) != ""
	default:
		return !field.IsZero()
	}
}

// Struct validates s and converts failures into a validation AppError
func Struct(s interface{}) error {
	if err := Validator().Struct(s); err != nil {
		return apperrors.FromValidator(err)
	}
	return nil
}
