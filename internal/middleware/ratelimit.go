package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/ratelimit"
)

// RateLimit enforces an IP-keyed sliding-window limit. Keys are namespaced by
// prefix so stacked limiter instances count independently. When quotaHeaders
// is set, every response carries X-RateLimit-* headers. Limiter backend
// errors fail open.
func RateLimit(limiter ratelimit.Limiter, prefix string, quotaHeaders bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		decision, err := limiter.Check(c.Request.Context(), prefix+":"+ip)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("prefix", prefix), zap.Error(err))
			c.Next()
			return
		}

		resetSec := int(math.Ceil(decision.Reset.Seconds()))
		if resetSec < 0 {
			resetSec = 0
		}

		if quotaHeaders {
			c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))
		}

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(resetSec))
			if quotaHeaders {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": "Rate limit exceeded. Please try again shortly.",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  "Rate limited",
				"detail": "Too many requests. Please slow down.",
			})
			return
		}

		c.Next()
	}
}
