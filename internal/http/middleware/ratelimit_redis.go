package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"task_tracker/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter connects the shared Redis client used by the rate
// limiting middleware. With an empty addr, or when the ping fails, the client
// stays nil and every limiter in this package fails open.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		return
	}
	redisClient = client
	logger.Info("redis rate limiter connected", "addr", addr)
}

// RedisRateLimit is a fixed-window limiter backed by Redis INCR/EXPIRE,
// keyed by client IP. Key format: rl:<window_seconds>:<ip>.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		ctx := context.Background()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// fail-open on Redis errors, but make it visible
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
