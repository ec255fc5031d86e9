package middleware

import (
	"fmt"
	"net/http"

	"applicant-tracker/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// multipartOverhead covers form boundaries and the non-file fields of an
// intake form.
const multipartOverhead = 1 << 20

// BodyLimit caps the request body at maxFile plus multipart overhead. Reads
// past the cap fail with *http.MaxBytesError, which handlers report as 400.
func BodyLimit(maxFile int64) gin.HandlerFunc {
	limit := maxFile + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.Error(apperror.BadRequest(fmt.Sprintf("File exceeds the maximum size of %d bytes", maxFile)))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
