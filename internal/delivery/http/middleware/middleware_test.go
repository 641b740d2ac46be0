package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidate-tracking-backend/internal/delivery/http/response"
	"candidate-tracking-backend/internal/domain"
	"candidate-tracking-backend/internal/metrics"
	"candidate-tracking-backend/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		fromCtx, _ = c.Request.Context().Value(domain.KeyRequestID).(string)
		c.Status(http.StatusOK)
	})

	t.Run("caller id kept", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/x", map[string]string{RequestIDHeader: "abc-123"})
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", fromCtx)
	})

	t.Run("oversized id replaced", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/x", map[string]string{RequestIDHeader: strings.Repeat("a", 200)})
		got := w.Header().Get(RequestIDHeader)
		assert.Len(t, got, 36)
		assert.Equal(t, got, fromCtx)
	})
}

func TestActor(t *testing.T) {
	var actor *string
	r := gin.New()
	r.Use(Actor())
	r.GET("/x", func(c *gin.Context) {
		actor = domain.ActorFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/x", map[string]string{UserIDHeader: "  recruiter-1 "})
	require.NotNil(t, actor)
	assert.Equal(t, "recruiter-1", *actor)

	serve(r, http.MethodGet, "/x", nil)
	assert.Nil(t, actor)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.Use(ErrorHandler())
	r.GET("/validation", func(c *gin.Context) {
		c.Error(apperror.NewValidation("Invalid email format", "email"))
	})
	r.GET("/precondition", func(c *gin.Context) {
		c.Error(apperror.NewPreconditionFailed("modified"))
	})
	r.GET("/database", func(c *gin.Context) {
		c.Error(apperror.NewDatabase("Failed to list candidates", errors.New("dial tcp: refused")))
	})
	r.GET("/written", func(c *gin.Context) {
		c.Error(errors.New("late"))
		c.String(http.StatusAccepted, "done")
	})

	w := serve(r, http.MethodGet, "/validation", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"email"`)
	assert.Contains(t, w.Body.String(), `"code":"VALIDATION_ERROR"`)

	w = serve(r, http.MethodGet, "/precondition", nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = serve(r, http.MethodGet, "/database", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "dial tcp")
	assert.Contains(t, w.Body.String(), `"request_id"`)

	w = serve(r, http.MethodGet, "/written", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestStoreTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	r := gin.New()
	r.Use(StoreTimeout(time.Second))
	r.GET("/x", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/x", nil)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware(true))
	r.GET("/v1/candidates", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/v1/candidates", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/v1/candidates", rl.Middleware(), func(c *gin.Context) {
		response.Success(c, http.StatusCreated, "ok", nil)
	})
	return r
}

func TestRateLimiter_InMemory(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(WriteRateLimitConfig(2, time.Minute), nil, nil, m)
	rl.now = func() time.Time { return now }
	r := limitedRouter(rl)

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodPost, "/v1/candidates", nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := serve(r, http.MethodPost, "/v1/candidates", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitRejected.WithLabelValues("/v1/candidates")))

	t.Run("window resets", func(t *testing.T) {
		now = now.Add(61 * time.Second)
		w := serve(r, http.MethodPost, "/v1/candidates", nil)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("sweep drops expired buckets", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.Sweep(ctx, 5*time.Millisecond)
		}()
		assert.Eventually(t, func() bool {
			empty := true
			rl.buckets.Range(func(_, _ interface{}) bool {
				empty = false
				return false
			})
			return empty
		}, time.Second, 10*time.Millisecond)
		cancel()
		wg.Wait()
	})
}

func unreachableRedis() func() *goredis.Client {
	c := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return func() *goredis.Client { return c }
}

func TestRateLimiter_RedisFailure(t *testing.T) {
	t.Run("fails open to memory", func(t *testing.T) {
		rl := NewRateLimiter(WriteRateLimitConfig(1, time.Minute), unreachableRedis(), nil, nil)
		r := limitedRouter(rl)

		assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/v1/candidates", nil).Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/v1/candidates", nil).Code)
	})

	t.Run("fails closed when configured", func(t *testing.T) {
		cfg := WriteRateLimitConfig(1, time.Minute)
		cfg.FailClosed = true
		rl := NewRateLimiter(cfg, unreachableRedis(), nil, nil)
		r := limitedRouter(rl)

		w := serve(r, http.MethodPost, "/v1/candidates", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
