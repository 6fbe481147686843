package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const rateLimitWindow = time.Minute

// RateCounter counts hits of key within a fixed window
type RateCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows limit requests per client IP per minute. Requests pass
// when the counter store is unavailable.
func RateLimit(limit int, counter RateCounter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		windowStart := now.Truncate(rateLimitWindow)
		key := fmt.Sprintf("rate_limit:%s:%d", c.ClientIP(), windowStart.Unix())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		count, err := counter.IncrWindow(ctx, key, rateLimitWindow)
		if err != nil {
			logger.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(windowStart.Add(rateLimitWindow).Unix(), 10))

		if count > int64(limit) {
			retryAfter := int(windowStart.Add(rateLimitWindow).Sub(now).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too Many Attempts."})
			return
		}

		c.Next()
	}
}
