package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariebrainware/practice-records/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	// Rate limiting defaults
	defaultRateLimit  = 5                // 5 attempts
	defaultRateWindow = 15 * time.Minute // per 15 minutes
)

// RateLimitConfig holds configuration for rate limiting.
// With a Redis client the counters are shared between instances; without one
// each process keeps its own token buckets.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	Redis  *redis.Client
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter creates a rate limiting middleware keyed by route and client IP.
func RateLimiter(config RateLimitConfig) gin.HandlerFunc {
	return RateLimiterWith(NewLimiter(config))
}

// RateLimiterWith creates a rate limiting middleware around an existing Limiter.
func RateLimiterWith(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		key := fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Fail open: an unavailable limiter backend must not block the route.
			util.LogEvent(util.Event{
				Type:    util.EventRateLimitExceeded,
				IP:      clientIP,
				Message: fmt.Sprintf("Rate limit check failed: %v", err),
			})
			c.Next()
			return
		}

		if !allowed {
			util.LogEvent(util.Event{
				Type:    util.EventRateLimitExceeded,
				IP:      clientIP,
				Message: fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
			})
			util.CallTooManyRequests(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: fmt.Errorf("rate limit exceeded"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// NewLimiter picks the Redis limiter when a client is configured and the
// in-process limiter otherwise.
func NewLimiter(config RateLimitConfig) Limiter {
	if config.Limit <= 0 {
		config.Limit = defaultRateLimit
	}
	if config.Window <= 0 {
		config.Window = defaultRateWindow
	}
	if config.Redis != nil {
		return &redisLimiter{rdb: config.Redis, limit: config.Limit, window: config.Window}
	}
	return newLocalLimiter(config.Limit, config.Window)
}

// redisLimiter is a fixed-window counter stored in Redis.
type redisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}
	// The first hit opens the window.
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}

// localLimiter keeps one token bucket per key. A bucket holds limit tokens
// and refills one token every window/limit.
type localLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    int
	window   time.Duration
	lastScan time.Time
	now      func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	return &localLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (l *localLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	b, ok := l.buckets[key]
	if !ok {
		every := rate.Every(l.window / time.Duration(l.limit))
		b = &bucket{limiter: rate.NewLimiter(every, l.limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// evictIdle drops buckets untouched for a full window; they would be full again anyway.
func (l *localLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastScan) < l.window {
		return
	}
	l.lastScan = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.window {
			delete(l.buckets, key)
		}
	}
}
