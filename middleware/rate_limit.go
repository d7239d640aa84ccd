package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jayeshjain4/StatusGo/utils"
)

const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter hands out one token bucket per client key.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*clientLimiter
	now      func() time.Time
}

// NewRateLimiter allows perMinute requests per client with a burst of half that.
func NewRateLimiter(perMinute int) *RateLimiter {
	perMinute = max(perMinute, 1)
	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		limiters: map[string]*clientLimiter{},
		now:      time.Now,
	}
}

// Allow consumes one token for key.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, l := range r.limiters {
		if now.After(l.expires) {
			delete(r.limiters, k)
		}
	}

	l, ok := r.limiters[key]
	if !ok {
		l = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.limiters[key] = l
	}
	l.expires = now.Add(limiterIdleTTL)
	return l.limiter.AllowN(now, 1)
}

// RateLimitMiddleware applies the limiter keyed by the authenticated user, falling back to client IP.
func RateLimitMiddleware(r *RateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := "ip:" + ctx.ClientIP()
		if id, ok := CurrentUserID(ctx); ok {
			key = "user:" + strconv.FormatUint(uint64(id), 10)
		}
		if !r.Allow(key) {
			utils.Error(ctx, 429, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
