package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"candidate-tracking-backend/internal/delivery/http/response"
	"candidate-tracking-backend/internal/metrics"
	"candidate-tracking-backend/pkg/apperror"
	"candidate-tracking-backend/pkg/audit"
	"candidate-tracking-backend/pkg/logger"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix in Redis, also separates in-memory buckets
	KeyPrefix string
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Reject requests when Redis fails instead of falling back to memory
	FailClosed bool
}

// ReadRateLimitConfig limits listing and lookups per client IP.
func ReadRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:read:"}
}

// WriteRateLimitConfig limits candidate mutations per client IP.
func WriteRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:write:"}
}

// Atomic increment with TTL on first hit.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns {count, ttl}.
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// RateLimiter counts requests in fixed windows, in Redis when a client is
// available and in process memory otherwise.
type RateLimiter struct {
	config  RateLimitConfig
	redis   func() *goredis.Client
	audit   *audit.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	buckets sync.Map
}

func NewRateLimiter(config RateLimitConfig, redisClient func() *goredis.Client, auditLogger *audit.Logger, m *metrics.Metrics) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if redisClient == nil {
		redisClient = func() *goredis.Client { return nil }
	}
	return &RateLimiter{
		config:  config,
		redis:   redisClient,
		audit:   auditLogger,
		metrics: m,
		now:     time.Now,
	}
}

// Middleware enforces the limit on every request it sees.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.config.KeyPrefix + rl.config.KeyFunc(c)

		count, resetAt, err := rl.hit(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limit backend failed", "error", err, "fail_closed", rl.config.FailClosed)
			if rl.config.FailClosed {
				c.Error(apperror.ServiceUnavailable("Service temporarily unavailable. Please try again."))
				c.Abort()
				return
			}
			count, resetAt = rl.hitInMemory(key)
		}

		remaining := rl.config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > rl.config.Limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			rl.audit.RateLimitTriggered(c.Request.Context(), c.ClientIP(), c.FullPath())
			rl.metrics.IncrementRateLimited(c.FullPath())

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", &response.ErrorBody{
				Code:    "RATE_LIMITED",
				Message: "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) hit(ctx context.Context, key string) (int, time.Time, error) {
	client := rl.redis()
	if client == nil {
		count, resetAt := rl.hitInMemory(key)
		return count, resetAt, nil
	}

	result, err := rateLimitScript.Run(ctx, client, []string{key}, int(rl.config.Window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

func (rl *RateLimiter) hitInMemory(key string) (int, time.Time) {
	now := rl.now()
	v, _ := rl.buckets.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(rl.config.Window)})
	entry := v.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(rl.config.Window)
	}
	entry.count++
	return entry.count, entry.resetAt
}

// Sweep drops expired in-memory buckets. Run it periodically until ctx ends.
func (rl *RateLimiter) Sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := rl.now()
			rl.buckets.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rl.buckets.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}
}
