package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"candidate-tracking-backend/config"
	"candidate-tracking-backend/internal/delivery/http/middleware"
	"candidate-tracking-backend/internal/domain"
	"candidate-tracking-backend/internal/metrics"
	"candidate-tracking-backend/internal/usecase"
	"candidate-tracking-backend/pkg/validation"
)

type RouterDeps struct {
	CandidateUC domain.CandidateUsecase
	HealthUC    usecase.HealthUsecase
	Config      *config.Config
	Metrics     *metrics.Metrics
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer     prometheus.Gatherer
	ReadLimiter  *middleware.RateLimiter
	WriteLimiter *middleware.RateLimiter
}

func NewRouter(deps RouterDeps) *gin.Engine {
	// Query parameters are validated by gin's engine; give it the same
	// field naming and custom rules as the service validator.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.AccessLog(deps.Metrics))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Actor())
	r.Use(middleware.StoreTimeout(deps.Config.StoreTimeout))

	if deps.Gatherer != nil && deps.Config.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")

	// Health Check
	NewHealthHandler(v1, deps.HealthUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewCandidateHandler(v1, deps.CandidateUC, limiter(deps.ReadLimiter), limiter(deps.WriteLimiter))

	return r
}

func limiter(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return nil
	}
	return rl.Middleware()
}
