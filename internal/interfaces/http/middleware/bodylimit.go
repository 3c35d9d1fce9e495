package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libsys/acquisitions/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that rejects request bodies over maxBytes.
// Requests without a declared length are capped while streaming.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "request body exceeds maximum allowed size"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
