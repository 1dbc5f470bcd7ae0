package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InMemoryRateLimiter keeps one token bucket per key (e.g. IP or user ID).
type InMemoryRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

// NewInMemoryRateLimiter allows perMinute requests per key with the given burst.
// Keys idle for longer than idleTTL are dropped by Cleanup.
func NewInMemoryRateLimiter(perMinute, burst int, idleTTL time.Duration) *InMemoryRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &InMemoryRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		idle:     idleTTL,
	}
}

func (r *InMemoryRateLimiter) Allow(key string) bool {
	r.mu.Lock()
	v, ok := r.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[key] = v
	}
	v.lastSeen = time.Now()
	r.mu.Unlock()
	return v.limiter.Allow()
}

// Cleanup drops visitors not seen within the idle TTL.
func (r *InMemoryRateLimiter) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-r.idle)
	for k, v := range r.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(r.visitors, k)
		}
	}
}

// Run calls Cleanup every minute until stop is closed.
func (r *InMemoryRateLimiter) Run(stop <-chan struct{}) {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			r.Cleanup()
		case <-stop:
			return
		}
	}
}

// RateLimit returns a middleware that limits by client IP.
func RateLimit(limiter *InMemoryRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Too many requests"})
			return
		}
		c.Next()
	}
}
