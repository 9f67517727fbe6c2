package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/middleware"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
	"github.com/Prathams-org/AI-in-Edutech-sub000/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext writes a 401 and returns false when the request carries no claims.
func actorFromContext(c *gin.Context) (models.Actor, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Actor{}, false
	}
	return claims.Actor(), true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}
