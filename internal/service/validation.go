package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/dto"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

const (
	tagFilled       = "filled"
	tagAccountEmail = "account_email"
	tagPhone10      = "phone10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

	validate = newValidator()

	// Messages keyed by "<field>.<tag>"; a bare tag is the fallback.
	validationMessages = map[string]string{
		"name." + tagFilled:        "Name is required",
		"parentEmail." + tagFilled: "Parent email is required",
		"email." + tagFilled:       "Email is required",
		"std." + tagFilled:         "Standard is required",
		"div." + tagFilled:         "Division is required",
		"rollNo." + tagFilled:      "Roll number is required",
		"school." + tagFilled:      "School is required",
		"parentsNo." + tagFilled:   "Parent's phone number is required",
		"gender." + tagFilled:      "Gender is required",
		tagAccountEmail:            "Please enter a valid email address",
		tagPhone10:                 "Please enter a valid 10-digit phone number",
		tagFilled:                  "This field is required",
	}
)

// ValidationError names one invalid registration field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(tagFilled, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(tagAccountEmail, func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPhone10, func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	return v
}

// ValidateEmail reports whether s looks like an email address.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePassword reports whether s is long enough to be accepted.
func ValidatePassword(s string) bool {
	return len(s) >= MinPasswordLength
}

// ValidatePhone reports whether s is exactly ten digits.
func ValidatePhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidateStudentPayload returns every violation in form order. At most one error is reported per field.
func ValidateStudentPayload(data dto.StudentRegistration) []ValidationError {
	return collectViolations(validate.Struct(data))
}

// ValidateTeacherPayload returns every violation in form order.
func ValidateTeacherPayload(data dto.TeacherRegistration) []ValidationError {
	return collectViolations(validate.Struct(data))
}

func collectViolations(err error) []ValidationError {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: messageFor(fe.Field(), fe.Tag())})
	}
	return out
}

func messageFor(field, tag string) string {
	if msg, ok := validationMessages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := validationMessages[tag]; ok {
		return msg
	}
	return field + " is invalid"
}
