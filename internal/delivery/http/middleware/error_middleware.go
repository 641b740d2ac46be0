package middleware

import (
	"github.com/gin-gonic/gin"

	"candidate-tracking-backend/internal/delivery/http/response"
	"candidate-tracking-backend/pkg/apperror"
	"candidate-tracking-backend/pkg/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, kind, message, field := apperror.Classify(err)

		// SECURITY: internal causes are logged, never returned to clients.
		if status >= 500 {
			logger.Error("request failed",
				"request_id", c.GetString(response.RequestIDKey),
				"method", c.Request.Method,
				"path", c.FullPath(),
				"error", err,
			)
		}
		response.Error(c, status, message, &response.ErrorBody{
			Code:    string(kind),
			Message: message,
			Field:   field,
		})
	}
}
