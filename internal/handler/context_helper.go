package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/goliter/classsight-api/internal/middleware"
	"github.com/goliter/classsight-api/internal/models"
)

// claimsFromContext returns the authenticated caller's claims, nil when the
// route runs without the JWT middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, _ := c.Get(middleware.ContextUserKey)
	claims, _ := value.(*models.JWTClaims)
	return claims
}
