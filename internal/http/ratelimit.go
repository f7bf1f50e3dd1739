package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Per-IP rates for abuse-prone endpoints.
const (
	authRateRPS      = 1.0 / 6.0 // one attempt every 6 seconds
	authRateBurst    = 3
	commentRateRPS   = 1.0 / 3.0
	commentRateBurst = 1
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	rl := &IPRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		rps:      r,
		burst:    b,
	}
	go rl.cleanup()
	return rl
}

func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = limiter
	}
	return limiter
}

// cleanup periodically drops buckets that have refilled, i.e. idle clients.
func (rl *IPRateLimiter) cleanup() {
	for {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if v.Tokens() >= float64(rl.burst) {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "Too many requests. Please wait."})
			return
		}
		c.Next()
	}
}
