package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardrobe/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Route groups
// set their own limit: photo uploads need far more than JSON bodies.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size")
			return
		}

		// Chunked bodies have no Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
