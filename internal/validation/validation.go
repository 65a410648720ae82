// Package validation wraps go-playground/validator with the rules used by
// registration, login and module input, and converts failures into
// field-level apperr validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/my-academia/academia-service/internal/apperr"
)

var (
	registrationNumberPattern = regexp.MustCompile(`^[A-Z]{2}/[0-9]{4}/[0-9]{4}$`)
	personNamePattern         = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// RegistrationNumberFormat is the example shown to clients.
const RegistrationNumberFormat = "EG/2020/1234"

// Validator validates input structs. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Registration of static rules cannot fail.
	_ = v.RegisterValidation("regno", func(fl validator.FieldLevel) bool {
		return registrationNumberPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return &Validator{validate: v}
}

var defaultValidator = New()

// Struct validates s with the package default validator.
func Struct(s any) error {
	return defaultValidator.Struct(s)
}

// Var validates a single value with the package default validator.
func Var(field, label string, value any, tag string) *apperr.FieldError {
	return defaultValidator.Var(field, label, value, tag)
}

// Struct validates s and returns an *apperr.Error of kind validation, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(fmt.Errorf("validate %T: %w", s, err))
	}

	labels := labelsOf(s)
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := labels[fe.StructField()]
		if !ok {
			label = fe.Field()
		}
		fields = append(fields, apperr.FieldError{
			Field:   fe.Field(),
			Message: message(label, fe),
		})
	}

	return apperr.Validation(apperr.MsgValidationFailed, fields...)
}

// Var validates a single value against tag and returns the field error, or nil.
func (v *Validator) Var(field, label string, value any, tag string) *apperr.FieldError {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &apperr.FieldError{Field: field, Message: label + " is invalid"}
	}

	return &apperr.FieldError{Field: field, Message: message(label, verrs[0])}
}

// IsStrongPassword reports whether s has an ASCII lower case letter, an
// ASCII upper case letter and an ASCII digit.
func IsStrongPassword(s string) bool {
	var lower, upper, digit bool
	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case 'a' <= b && b <= 'z':
			lower = true
		case 'A' <= b && b <= 'Z':
			upper = true
		case '0' <= b && b <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}

func labelsOf(s any) map[string]string {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	labels := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if label := f.Tag.Get("label"); label != "" {
			labels[f.Name] = label
		}
	}
	return labels
}

func message(label string, fe validator.FieldError) string {
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		if numeric {
			return fmt.Sprintf("%s cannot exceed %s", label, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
	case "min":
		if numeric {
			if fe.Param() == "0" {
				return label + " cannot be negative"
			}
			return fmt.Sprintf("%s must be at least %s", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "regno":
		return label + " must be in format: " + RegistrationNumberFormat
	case "personname":
		return label + " must contain only letters and spaces"
	case "strongpassword":
		return label + " must contain at least one lowercase letter, one uppercase letter, and one number"
	default:
		return label + " is invalid"
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
