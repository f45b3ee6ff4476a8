package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// CourseCodeRegex matches course codes like "CSCE 121" or "MATH 151"
	CourseCodeRegex = regexp.MustCompile(`^[A-Z]{2,4}\s\d{3}$`)

	// TermLabelRegex matches term labels like "Fall 2024"
	TermLabelRegex = regexp.MustCompile(`^(Fall|Winter|Spring|Summer)\s20\d{2}$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the planner's custom
// tags registered ("coursecode", "termlabel").
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("coursecode", func(fl validator.FieldLevel) bool {
		return CourseCodeRegex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("termlabel", func(fl validator.FieldLevel) bool {
		return TermLabelRegex.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateVar validates a single value against a tag expression, e.g.
// ValidateVar(label, "termlabel").
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "coursecode":
				errors[field] = fmt.Sprintf("%s must be a course code like CSCE 121", e.Field())
			case "termlabel":
				errors[field] = fmt.Sprintf("%s must be a term label like Fall 2024", e.Field())
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
