package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"candidate-tracking-backend/internal/domain"
)

// UserIDHeader carries the acting user's id, set by the gateway that
// authenticated the request.
const UserIDHeader = "X-User-Id"

// Actor copies the upstream user id into the request context, where the
// service reads it for createdBy/updatedBy.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(UserIDHeader)); id != "" && len(id) <= 256 {
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeyUserID, id))
		}
		c.Next()
	}
}
