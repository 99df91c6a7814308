package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wardrobe/backend/internal/interfaces/http/dto"
)

// abortWithError stops the chain with the API error envelope
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
