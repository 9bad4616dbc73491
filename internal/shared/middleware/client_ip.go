package middleware

import (
	"github.com/gin-gonic/gin"

	"wildlife-catalog-backend/internal/shared/utils"
)

const clientIPKey = "client_ip"

// ClientIP resolves the client address once per request.
//
// Usage:
//
//	router.Use(middleware.ClientIP())
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, utils.ExtractClientIP(c))
		c.Next()
	}
}

// ClientIPFrom returns the address set by ClientIP, falling back to gin
func ClientIPFrom(c *gin.Context) string {
	if ip := c.GetString(clientIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}
