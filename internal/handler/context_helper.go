package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/omran-academy/academy-api/internal/middleware"
	"github.com/omran-academy/academy-api/internal/models"
)

// currentClaims extracts the authenticated operator claims from the context.
func currentClaims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
