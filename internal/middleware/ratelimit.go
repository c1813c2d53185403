package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/engagement/pkg/response"
)

// RateLimiter 按用户（匿名按 IP）限流
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rps      rate.Limit
	burst    int
	ttl      time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{limiters: make(map[string]*visitor), rps: rate.Limit(rps), burst: burst, ttl: 10 * time.Minute}
}

func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = v
	}
	v.lastSeen = now

	// 顺带清理长时间不活跃的 key
	if len(l.limiters) > 10000 {
		for k, old := range l.limiters {
			if now.Sub(old.lastSeen) > l.ttl {
				delete(l.limiters, k)
			}
		}
	}
	return v.limiter.Allow()
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := UserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !l.Allow(key) {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
