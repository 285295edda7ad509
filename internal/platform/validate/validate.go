package validate

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

// ErrValidation is the sentinel carried by every *Error.
var ErrValidation = eris.New("validation failed")

var (
	instance     *validator.Validate
	instanceOnce sync.Once
)

// Error lists the fields that failed validation with a readable message per field.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return ErrValidation
}

// Validator returns the shared validator, registering custom rules on first use.
func Validator() *validator.Validate {
	instanceOnce.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())

		// Field names come from the form tag so messages match the HTML inputs.
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(fld.Name)
			}
			return name
		})

		_ = instance.RegisterValidation("notblank", validateNotBlank)
		_ = instance.RegisterValidation("maxbytes", validateMaxBytes)
	})

	return instance
}

// Struct validates v against its `validate` tags.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return eris.Wrap(err, "validating input")
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		if _, exists := fields[fieldErr.Field()]; exists {
			continue
		}
		fields[fieldErr.Field()] = message(fieldErr)
	}

	return &Error{Fields: fields}
}

// Fields extracts per-field messages from err, or nil when err is not a validation error.
func Fields(err error) map[string]string {
	var validationErr *Error
	if errors.As(err, &validationErr) {
		return validationErr.Fields
	}
	return nil
}

// IsValidation reports whether err wraps a validation failure.
func IsValidation(err error) bool {
	var validationErr *Error
	return errors.As(err, &validationErr)
}

var messages = map[string]string{
	"required": "is required",
	"notblank": "must not be blank",
	"email":    "must be a valid email address",
	"eqfield":  "does not match",
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		suffix := ""
		if fe.Kind() == reflect.String {
			suffix = " characters"
		}
		if fe.Tag() == "min" {
			return "must be at least " + fe.Param() + suffix
		}
		return "must be at most " + fe.Param() + suffix
	case "maxbytes":
		return "must be at most " + fe.Param() + " bytes"
	}

	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}

	return "failed " + fe.Tag() + " check"
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateMaxBytes bounds the encoded length of a string, unlike max which counts runes.
func validateMaxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
