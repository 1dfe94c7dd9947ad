package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Maintenance rejects every request with 503 while the maintenance flag is
// set. It runs before rate limiting so a closed service never consumes quota.
func Maintenance(enabled bool, message string) gin.HandlerFunc {
	if message == "" {
		message = "Service temporarily unavailable."
	}
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":  "Under maintenance",
			"detail": message,
		})
	}
}
