package middleware

import (
	"github.com/gin-gonic/gin"

	"wildlife-catalog-backend/internal/shared/apperror"
	"wildlife-catalog-backend/internal/shared/response"
)

// RequireAdmin checks that the caller set by Identity is a moderator
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil {
			response.AbortWithError(c, apperror.New(apperror.KindUnauthenticated, "AUTH_004", "Authentication required"))
			return
		}

		if !caller.IsAdmin {
			response.AbortWithError(c, apperror.New(apperror.KindForbidden, "AUTH_005", "Access denied: admin role required"))
			return
		}

		c.Next()
	}
}
