package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"poirec/pkg/utils"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether ip may make a request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	now := rl.now()
	if now.Sub(rl.lastSweep) > limiterIdleTTL {
		for k, e := range rl.limiters {
			if now.Sub(e.lastAccess) > limiterIdleTTL {
				delete(rl.limiters, k)
			}
		}
		rl.lastSweep = now
	}
	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// RateLimit rejects requests over the per-IP budget with 429.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			utils.RespondError(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
