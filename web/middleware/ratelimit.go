package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"

	"bookshelf/logger"
)

// LoginRateLimiter throttles login attempts per client IP with a token
// bucket: capacity attempts immediately, refilled at one token per interval.
type LoginRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*ratelimit.Bucket
	interval time.Duration
	capacity int64
}

func NewLoginRateLimiter(interval time.Duration, capacity int64) *LoginRateLimiter {
	return &LoginRateLimiter{
		buckets:  make(map[string]*ratelimit.Bucket),
		interval: interval,
		capacity: capacity,
	}
}

func (l *LoginRateLimiter) bucket(ip string) *ratelimit.Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[ip]; ok {
		return b
	}
	b := ratelimit.NewBucket(l.interval, l.capacity)
	l.buckets[ip] = b
	return b
}

// Handler aborts with 429 when the caller's bucket is empty.
func (l *LoginRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if l.bucket(ip).TakeAvailable(1) == 0 {
			logger.Warningf("login rate limit exceeded for %s", ip)
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
