package validation

import (
	"errors"
	"fmt"
	"strings"

	"applicant-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"Name":           "Name",
	"Email":          "Email",
	"Phone":          "Phone",
	"Status":         "Status",
	"Position":       "Position",
	"Department":     "Department",
	"HiringLocation": "Hiring location",
	"City":           "City",
	"State":          "State",
	"CandidateID":    "Candidate",
	"InterviewerID":  "Interviewer",
	"Text":           "Note",
	"Date":           "Date",
	"Time":           "Time",
	"Type":           "Interview type",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.StructField())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", label, describeLayout(param))
	case "valid_phone":
		return fmt.Sprintf("%s must be a valid phone number (7-15 digits)", label)
	case "candidate_status":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(domain.CandidateStatuses, ", "))
	case "interview_type":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(domain.InterviewTypes, ", "))
	case "interview_status":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(domain.InterviewStatuses, ", "))
	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

func describeLayout(layout string) string {
	switch layout {
	case "2006-01-02":
		return "YYYY-MM-DD"
	case "15:04":
		return "HH:MM"
	}
	return layout
}
