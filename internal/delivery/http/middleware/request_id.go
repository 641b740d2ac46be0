package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"candidate-tracking-backend/internal/delivery/http/response"
	"candidate-tracking-backend/internal/domain"
)

const RequestIDHeader = "X-Request-ID"

// RequestID ensures every request has an id for tracing and logs. A
// caller-supplied id is kept when it is short enough to be sane.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Set(response.RequestIDKey, rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeyRequestID, rid))
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}
