package v1

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// resumeField is the multipart field carrying the PDF.
const resumeField = "resume"

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest(fmt.Sprintf("Invalid %s", label)))
		return 0, false
	}
	return id, true
}

func callerEmail(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserEmail))
}

// bindError turns a body read or decode failure into a 400. Bodies cut off by
// the body limit get the size message.
func bindError(err error, fallback string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.New(http.StatusBadRequest, "Request body too large", err)
	}
	return apperror.New(http.StatusBadRequest, fallback, err)
}

// formResume returns the resume part of a multipart request, or nil when the
// form has none. The caller closes the returned closer.
func formResume(c *gin.Context) (*domain.ResumeFile, io.Closer, error) {
	fh, err := c.FormFile(resumeField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, bindError(err, "Invalid multipart form")
	}
	return openResume(fh)
}

func openResume(fh *multipart.FileHeader) (*domain.ResumeFile, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperror.New(http.StatusBadRequest, "Failed to read uploaded file", err)
	}
	return &domain.ResumeFile{
		FileName: fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Content:  f,
	}, f, nil
}
