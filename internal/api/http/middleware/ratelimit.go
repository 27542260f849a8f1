package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterTTL = 5 * time.Minute

type cachedLimiter struct {
	limiter   *rate.Limiter
	expiresAt time.Time
}

// RateLimit throttles requests per resolved profile. It must run after the
// profile resolver; a non-positive rps disables limiting.
func RateLimit(rps float64, burst int, profileKey string) gin.HandlerFunc {
	var limiters sync.Map // profile id -> *cachedLimiter

	return func(c *gin.Context) {
		if rps <= 0 {
			c.Next()
			return
		}

		id := c.GetInt64(profileKey)
		if !getOrCreateLimiter(&limiters, id, rps, burst).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "RateLimited",
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}

func getOrCreateLimiter(limiters *sync.Map, id int64, rps float64, burst int) *rate.Limiter {
	if v, ok := limiters.Load(id); ok {
		cached := v.(*cachedLimiter)
		if time.Now().Before(cached.expiresAt) {
			return cached.limiter
		}
	}

	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	limiters.Store(id, &cachedLimiter{limiter: limiter, expiresAt: time.Now().Add(limiterTTL)})
	return limiter
}
