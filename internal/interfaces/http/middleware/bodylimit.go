package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cabinet/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Oversized uploads are refused before they are read into memory.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeInvalidInput, "Request body exceeds maximum allowed size"))
			return
		}

		// Guards chunked requests that omit Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
