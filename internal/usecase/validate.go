package usecase

import (
	"net/http"
	"strings"

	"applicant-tracker/pkg/apperror"
	"applicant-tracker/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// validateStruct turns validator failures into a 400 listing every problem.
func validateStruct(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return apperror.New(http.StatusBadRequest, strings.Join(validation.FormatValidationErrors(err), "; "), err)
	}
	return nil
}
