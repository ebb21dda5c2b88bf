package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/database"
	"github.com/stemsi/placement-dashboard/internal/geo"
	"github.com/stemsi/placement-dashboard/internal/handler"
	"github.com/stemsi/placement-dashboard/internal/logger"
	"github.com/stemsi/placement-dashboard/internal/middleware"
	"github.com/stemsi/placement-dashboard/internal/repository"
	"github.com/stemsi/placement-dashboard/internal/router"
	"github.com/stemsi/placement-dashboard/internal/service"
	"github.com/stemsi/placement-dashboard/internal/validator"
	"github.com/stemsi/placement-dashboard/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("baseline_source", cfg.BaselineSource).
		Msg("Starting Placement Dashboard")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background loops (workers, janitors, catalog fetches) share this context.
	workerCtx, workerCancel := context.WithCancel(context.Background())

	// ─── Baseline Source ───────────────────────────────────────────────
	var baseline service.BaselineSource = repository.NewStaticRegionRepository()

	if cfg.BaselineSource == config.BaselineSourcePostgres {
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.MaxDBConns, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		cached := repository.NewCachedRegionRepository(
			repository.NewRegionMetricRepository(pool),
			rdb,
			config.CacheKey.RegionBaselineKey(cfg.GeoCountry),
			cfg.BaselineCacheTTL,
			log,
		)
		baseline = cached

		// The worker's first refresh prewarms the cache before traffic arrives.
		refreshWorker := worker.NewBaselineRefreshWorker(cached, cfg.BaselineRefreshInterval, log)
		go refreshWorker.Start(workerCtx)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	geoClient := geo.NewClient(cfg.GeoBaseURL, cfg.GeoCountry, cfg.GeoTimeout)

	dashboardService := service.NewDashboardService(baseline, config.DefaultBaselineShapes(), log)
	regionService := service.NewRegionService(geoClient, log)
	viewService := service.NewViewService(workerCtx, geoClient, dashboardService, cfg.ViewIdleTimeout, log)
	go viewService.RunJanitor(workerCtx)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	go limiter.RunCleanup(workerCtx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Region:    handler.NewRegionHandler(regionService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		View:      handler.NewViewHandler(viewService, log),
		WS:        handler.NewWSHandler(viewService, limiter, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, limiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Close live views; their pending fetches are discarded.
	log.Info().Int("views", viewService.Count()).Msg("Closing dashboard views")
	viewService.Shutdown()

	// 3. Stop background workers.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
