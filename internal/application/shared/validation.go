package shared

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teashop/backend/internal/domain/shared"
)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// FieldError describes one failed field rule
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
// It matches shared.ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return shared.ErrValidation.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the domain code of the failure
func (e *ValidationError) Unwrap() error {
	return shared.ErrValidation
}

var (
	defaultValidator *validator.Validate
	validatorOnce    sync.Once
)

// Validator returns the process-wide validator with the custom rules registered
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		defaultValidator = validator.New(validator.WithRequiredStructEnabled())
		RegisterValidations(defaultValidator)
	})
	return defaultValidator
}

// RegisterValidations installs the json field naming and the custom tags on v:
// clock is an HH:MM wall time and date is a YYYY-MM-DD calendar date.
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})
}

// Validate checks input against its validate tags
func Validate(input any) error {
	err := Validator().Struct(input)
	if err == nil {
		return nil
	}
	return ToValidationError(err)
}

// ToValidationError converts validator errors; other errors pass through
func ToValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("validate: %w", err)
		}
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_with", "required_without":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "email":
		return "Invalid email format"
	case "clock":
		return "Must be a time in HH:MM format"
	case "date":
		return "Must be a date in YYYY-MM-DD format"
	case "dive":
		return "Contains an invalid element"
	default:
		return "Invalid value"
	}
}
