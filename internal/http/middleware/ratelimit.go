package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientWindow struct {
	start time.Time
	count int
}

var (
	rlMu    sync.Mutex
	clients = make(map[string]*clientWindow)
)

// SimpleRateLimit is an in-process fixed-window limiter keyed by client IP.
// Used when Redis is not configured; state is lost on restart.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		rlMu.Lock()
		cw, ok := clients[ip]
		if !ok || now.Sub(cw.start) > window {
			clients[ip] = &clientWindow{start: now, count: 1}
			rlMu.Unlock()
			RLRequests.WithLabelValues(c.FullPath()).Inc()
			c.Next()
			return
		}
		cw.count++
		count := cw.count
		rlMu.Unlock()

		if count > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
