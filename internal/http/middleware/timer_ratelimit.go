package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// TimerRateLimit limits timer start/stop calls per user (not per IP) using
// Redis. Requires the JWT middleware to have run first.
func TimerRateLimit(maxOps int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}
		userID, ok := userIDVal.(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid user"})
			return
		}

		key := "timer_rl:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx := context.Background()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-TimerRateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		c.Header("X-TimerRateLimit-Limit", strconv.Itoa(maxOps))
		remaining := int64(maxOps) - val
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-TimerRateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if val > int64(maxOps) {
			RLBlocked.WithLabelValues("timer:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     "timer rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("timer:" + c.FullPath()).Inc()
		c.Next()
	}
}
