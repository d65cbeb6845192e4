package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joseggch15/inboundoutbound-sub000/pkg/response"
)

// BodyLimit caps the request body at maxBytes. Reads past the cap fail with
// "http: request body too large", which is mapped to 413 after the handler
// runs.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			// multipart wraps the reader error, so match by message
			if err.Err != nil && strings.Contains(err.Err.Error(), "request body too large") {
				response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "request body too large")
				return
			}
		}
	}
}
