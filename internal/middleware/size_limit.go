package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// headroom for multipart boundaries and part headers
const multipartOverhead = int64(8 * 1024)

// SizeLimit caps the request body at maxBodyBytes plus multipart overhead.
// Reads past the cap fail with http.MaxBytesError, which upload handlers
// translate to 413.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes+multipartOverhead)
		c.Next()
	}
}
