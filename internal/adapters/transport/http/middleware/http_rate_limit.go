package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// NewHTTPRateLimitPerIP limits requests per client IP. Limiters live in an
// LRU bounded by cacheSize; an entry is dropped ttl after it was created.
func NewHTTPRateLimitPerIP(limit, burst, cacheSize int, ttl time.Duration) gin.HandlerFunc {
	visitors := expirable.NewLRU[string, *rate.Limiter](cacheSize, nil, ttl)
	var mu sync.Mutex

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := visitors.Get(ip); ok {
			return l
		}
		l := rate.NewLimiter(rate.Limit(limit), burst)
		visitors.Add(ip, l)
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
