package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP extracts the real client IP address from the request.
// It handles various proxy scenarios and header combinations.
//
// Priority order:
// 1. X-Forwarded-For header (standard proxy header, takes first IP)
// 2. X-Real-IP header (nginx/cloudflare)
// 3. Direct connection RemoteAddr (fallback)
//
// Returns: Valid IP address string
func ExtractClientIP(c *gin.Context) string {
	// Try X-Forwarded-For first (proxy/load balancer)
	// Format: "client, proxy1, proxy2"
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		// Take the first IP (actual client)
		ips := strings.Split(xff, ",")
		clientIP := strings.TrimSpace(ips[0])

		// Validate IP format
		if isValidIP(clientIP) {
			return clientIP
		}
	}

	// Try X-Real-IP (nginx, cloudflare)
	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		if isValidIP(xri) {
			return xri
		}
	}

	// Fallback to direct connection
	// RemoteAddr format: "IP:port" or "[IPv6]:port"
	remoteAddr := c.Request.RemoteAddr
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// If no port, assume it's just an IP
		ip = remoteAddr
	}

	// Validate and return
	if isValidIP(ip) {
		return ip
	}

	// Ultimate fallback (should rarely happen)
	return "127.0.0.1"
}

// isValidIP validates if a string is a valid IPv4 or IPv6 address
func isValidIP(ip string) bool {
	if ip == "" {
		return false
	}

	// Parse and validate
	parsed := net.ParseIP(ip)
	return parsed != nil
}
