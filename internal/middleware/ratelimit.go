package middleware

import (
	"net/http" // HTTP status codes
	"time"     // Window duration

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// RateLimit enforces a fixed-window request quota per client IP, backed by
// Redis so the count survives restarts and is shared across replicas. Over
// quota requests are rejected with 429 before reaching any handler. When
// Redis itself fails the request is allowed through: admission control must
// not turn a cache outage into a full API outage.
func RateLimit(rdb *redis.Client, keyPrefix string, max int64, window time.Duration, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + keyPrefix + ":" + c.ClientIP() // One counter per client address
		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logrus.WithError(err).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		// First hit in the window starts the expiry clock
		if count == 1 {
			if err := rdb.Expire(c.Request.Context(), key, window).Err(); err != nil {
				logrus.WithError(err).Warn("failed to set rate limit window")
			}
		}
		// Reject once over the quota
		if count > max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": message,
			})
			return
		}
		c.Next()
	}
}
