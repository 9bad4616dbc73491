package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wildlife-catalog-backend/internal/domains/policy"
	"wildlife-catalog-backend/internal/shared/apperror"
	"wildlife-catalog-backend/internal/shared/response"
	"wildlife-catalog-backend/pkg/jwt"
	"wildlife-catalog-backend/pkg/logger"
)

const callerKey = "caller"

// TokenVerifier is the part of the JWT manager the middleware needs
type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// Identity attaches the caller named by a Bearer token. Requests without
// an Authorization header stay anonymous; a header that does not verify
// is rejected.
func Identity(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. No header means anonymous
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 2. Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.AbortWithError(c, apperror.New(apperror.KindUnauthenticated, "AUTH_001", "Invalid authorization header format"))
			return
		}

		// 3. Verify and parse JWT
		claims, err := verifier.ValidateToken(parts[1])
		if err != nil {
			logger.Debug("token rejected: " + err.Error())
			response.AbortWithError(c, apperror.New(apperror.KindUnauthenticated, "AUTH_002", "Invalid token"))
			return
		}

		// 4. user_id must be a UUID
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.AbortWithError(c, apperror.New(apperror.KindUnauthenticated, "AUTH_003", "Invalid user ID in token"))
			return
		}

		c.Set(callerKey, &policy.Caller{ID: userID, IsAdmin: claims.IsAdmin()})
		c.Next()
	}
}

// RequireCaller rejects anonymous requests
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c) == nil {
			response.AbortWithError(c, apperror.New(apperror.KindUnauthenticated, "AUTH_004", "Authentication required"))
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller set by Identity, or nil when anonymous
func CallerFrom(c *gin.Context) *policy.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*policy.Caller)
	return caller
}
