package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"candidate-tracking-backend/internal/delivery/http/response"
	"candidate-tracking-backend/internal/metrics"
	"candidate-tracking-backend/pkg/logger"
)

// AccessLog writes one structured line per request and feeds the HTTP metrics.
func AccessLog(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.ObserveHTTP(c.Request.Method, route, status, latency)

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.Log.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request_id", c.GetString(response.RequestIDKey)),
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Float64("latency_ms", float64(latency.Microseconds())/1000.0),
			slog.String("ip", c.ClientIP()),
		)
	}
}
