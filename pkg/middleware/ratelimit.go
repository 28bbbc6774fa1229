package middleware

import (
	"sync"
	"time"

	"growpreen/pkg/errutil"
	"growpreen/pkg/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxTrackedLimiters = 10000

// RateLimiter keeps one token bucket per caller.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(every),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > maxTrackedLimiters {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Handler limits by user id, falling back to the client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := identity.UserID(c.Request.Context())
		if key == "" {
			key = c.ClientIP()
		}

		if !rl.limiter(key).Allow() {
			zap.L().Warn("rate limit exceeded", zap.String("key", key), zap.String("path", c.FullPath()))
			c.Error(errutil.TooManyRequest("too many requests, slow down", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
