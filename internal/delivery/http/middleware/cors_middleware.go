package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the configured frontend origins. Same-origin requests
// carry no Origin header and pass through untouched.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", UserIDHeader, RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, "ETag"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
