package validation

import (
	"regexp"
	"strings"

	"applicant-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Digits with optional leading + and common separators: (555) 123-4567, +1 555.123.4567
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ().-]+$`)
)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("candidate_status", oneOf(domain.CandidateStatuses))
	_ = v.RegisterValidation("interview_type", oneOf(domain.InterviewTypes))
	_ = v.RegisterValidation("interview_status", oneOf(domain.InterviewStatuses))
}

// ValidPhone validates a phone number structure: 7 to 15 digits, optional
// leading + and the separators people usually type.
func ValidPhone(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	if !phoneRegex.MatchString(val) {
		return false
	}
	digits := 0
	for _, r := range val {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

// oneOf is like the builtin oneof tag but accepts values containing spaces.
func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, a := range allowed {
			if val == a {
				return true
			}
		}
		return false
	}
}
