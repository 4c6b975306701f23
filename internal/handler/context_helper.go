package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/middleware"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
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

// actorFromContext returns the authenticated caller or an UNAUTHORIZED error.
func actorFromContext(c *gin.Context) (models.Actor, error) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		return models.Actor{}, appErrors.ErrUnauthorized
	}
	return claims.Actor(), nil
}
