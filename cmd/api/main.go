package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"candidate-tracking-backend/config"
	_ "candidate-tracking-backend/docs" // Important for Swagger
	"candidate-tracking-backend/internal/delivery/http/middleware"
	v1 "candidate-tracking-backend/internal/delivery/http/v1"
	"candidate-tracking-backend/internal/metrics"
	"candidate-tracking-backend/internal/repository/tablestorage"
	"candidate-tracking-backend/internal/usecase"
	"candidate-tracking-backend/pkg/audit"
	"candidate-tracking-backend/pkg/database"
	"candidate-tracking-backend/pkg/logger"
	"candidate-tracking-backend/pkg/redis"
	"candidate-tracking-backend/pkg/tablestore"
	"candidate-tracking-backend/pkg/validation"
)

// @title           Candidate Tracking API
// @version         1.0
// @description     Candidate pipeline tracking backed by a partitioned table store.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel, cfg.ServiceName)
	logger.Log.Info("Starting candidate tracking backend", "port", cfg.Port, "store", cfg.StoreDriver)

	auditLogger := audit.New(cfg.ServiceName, cfg.Environment)
	defer func() { _ = auditLogger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Table Store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to open table store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// 4. Setup Redis (optional; rate limiting falls back to memory)
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		}
	}
	defer func() { _ = redis.Close() }()

	// 5. Setup UseCases
	candidateRepo := tablestorage.NewCandidateRepository(store)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, validation.New(), auditLogger, m)

	probes := []usecase.Probe{{Name: "store", Critical: true, Check: store.Ping}}
	if cfg.UpstashRedisURL != "" {
		probes = append(probes, usecase.Probe{Name: "redis", Check: redis.HealthCheck})
	}
	healthUC := usecase.NewHealthUsecase(cfg.ServiceName, cfg.Version, 2*time.Second, probes...)

	// 6. Setup Rate Limiters
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	readLimiter := middleware.NewRateLimiter(middleware.ReadRateLimitConfig(cfg.RateLimitReadThreshold, window), redis.Client, auditLogger, m)
	writeLimiter := middleware.NewRateLimiter(middleware.WriteRateLimitConfig(cfg.RateLimitWriteThreshold, window), redis.Client, auditLogger, m)
	go readLimiter.Sweep(ctx, time.Minute)
	go writeLimiter.Sweep(ctx, time.Minute)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC:  candidateUC,
		HealthUC:     healthUC,
		Config:       cfg,
		Metrics:      m,
		Gatherer:     reg,
		ReadLimiter:  readLimiter,
		WriteLimiter: writeLimiter,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// openStore returns the configured table store and a func releasing it.
func openStore(ctx context.Context, cfg *config.Config) (tablestore.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return tablestore.NewMemoryStore(), func() {}, nil
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		store := tablestore.NewPostgresStore(pool, cfg.TableName)
		if err := store.EnsureTable(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ensure table %s: %w", cfg.TableName, err)
		}
		return store, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
