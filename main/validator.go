package main

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// init before main function
func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())
	Validate.RegisterTagNameFunc(jsonFieldName)
	_ = Validate.RegisterValidation("valid_email", ValidateEmail)
	_ = Validate.RegisterValidation("not_blank", ValidateNotBlank)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func ValidateEmail(fl validator.FieldLevel) bool {
	return emailRe.MatchString(fl.Field().String())
}

// ValidateNotBlank rejects strings that are empty after trimming.
func ValidateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

// validationFieldErrors converts validator errors into a field-keyed map.
// Messages come from the messages table, keyed by JSON field name; slice
// indexes ("email[1]") collapse onto the field itself. ok is false when
// err is not a validation error.
func validationFieldErrors(err error, messages map[string]string) (fieldErrors, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	errs := fieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}

		if _, exists := errs[field]; exists {
			continue
		}

		if msg, ok := messages[field]; ok {
			errs[field] = msg
		} else {
			errs[field] = field + " is invalid."
		}
	}

	return errs, true
}
