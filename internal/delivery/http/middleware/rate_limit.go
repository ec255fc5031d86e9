package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Whether to reject requests when Redis is unavailable
	FailClosed bool
	// Redis is optional; nil selects the in-memory store
	Redis *goredis.Client
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// Fixed window counter. Returns [current_count, ttl_remaining].
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

var rateLimitScript = goredis.NewScript(rateLimitLuaScript)

// UploadRateLimitConfig returns config for file upload endpoints
func UploadRateLimitConfig(perMinute int, client *goredis.Client) RateLimitConfig {
	if perMinute <= 0 {
		perMinute = 10
	}
	return RateLimitConfig{
		Limit:     perMinute,
		Window:    time.Minute,
		KeyPrefix: "rl:upload:",
		Redis:     client,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

type rateLimiter struct {
	config RateLimitConfig
	store  sync.Map // key -> *rateLimitEntry
	now    func() time.Time
	swept  time.Time
	sweep  sync.Mutex
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// Uses Redis when configured and falls back to memory when it errors.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	l := &rateLimiter{config: config, now: time.Now}
	return l.handle
}

func (l *rateLimiter) handle(c *gin.Context) {
	fullKey := l.config.KeyPrefix + l.config.KeyFunc(c)
	now := l.now()

	var count int
	var resetAt time.Time

	if l.config.Redis != nil {
		var err error
		count, resetAt, err = l.checkRedis(c.Request.Context(), fullKey)
		if err != nil {
			logger.Log.Warn("Rate limit store unavailable",
				"request_id", c.GetString(string(domain.KeyRequestID)),
				"error", err,
			)
			if l.config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt = l.checkInMemory(fullKey, now)
		}
	} else {
		count, resetAt = l.checkInMemory(fullKey, now)
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(l.config.Limit))
	c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

	if count > l.config.Limit {
		retryAfter := int(resetAt.Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		logger.Log.Warn("Rate limit exceeded",
			"request_id", c.GetString(string(domain.KeyRequestID)),
			"ip", c.ClientIP(),
			"path", c.FullPath(),
		)
		response.Error(c, http.StatusTooManyRequests, "Too many uploads. Please try again later.", nil)
		c.Abort()
		return
	}

	c.Header("X-RateLimit-Remaining", strconv.Itoa(l.config.Limit-count))
	c.Next()
}

func (l *rateLimiter) checkRedis(ctx context.Context, key string) (int, time.Time, error) {
	ttlSeconds := int(l.config.Window.Seconds())

	result, err := rateLimitScript.Run(ctx, l.config.Redis, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), l.now().Add(time.Duration(ttl) * time.Second), nil
}

func (l *rateLimiter) checkInMemory(key string, now time.Time) (int, time.Time) {
	l.sweepExpired(now)

	entryI, _ := l.store.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(l.config.Window)})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !now.Before(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(l.config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

// sweepExpired drops stale entries at most once per window.
func (l *rateLimiter) sweepExpired(now time.Time) {
	l.sweep.Lock()
	defer l.sweep.Unlock()
	if now.Sub(l.swept) < l.config.Window {
		return
	}
	l.swept = now
	l.store.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			l.store.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}
