package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/cache"
	"github.com/stemsi/attendance-dashboard/internal/chart"
	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/stemsi/attendance-dashboard/internal/database"
	"github.com/stemsi/attendance-dashboard/internal/handler"
	"github.com/stemsi/attendance-dashboard/internal/logger"
	"github.com/stemsi/attendance-dashboard/internal/report"
	"github.com/stemsi/attendance-dashboard/internal/repository"
	"github.com/stemsi/attendance-dashboard/internal/router"
	"github.com/stemsi/attendance-dashboard/internal/service"
	"github.com/stemsi/attendance-dashboard/internal/validator"
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
		Str("data_file", cfg.DataFile).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting Attendance Dashboard")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Dataset Cache (Redis when configured, memory otherwise) ───────
	var store cache.Store = cache.NewMemoryStore(cfg.CacheTTL)
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb, config.CacheKey.DatasetKey(cfg.DataFile), cfg.CacheTTL)
	}

	// ─── Initialize Repository & Services ──────────────────────────────
	workbookRepo := repository.NewWorkbookRepository(cfg.DataFile, cfg.DataSheet, log)

	renderer, err := chart.NewRenderer(cfg.Theme)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare chart renderer")
	}

	datasetService := service.NewDatasetService(workbookRepo, store, log)
	dashboardService := service.NewDashboardService(datasetService)
	chartService := service.NewChartService(datasetService, renderer)
	reportService := service.NewReportService(datasetService, renderer, report.NewBuilder(cfg.Theme), cfg.DashboardTitle, log)

	// ─── Prewarm Dataset ───────────────────────────────────────────────
	// A missing or malformed workbook is reported on the pages, not fatal.
	if _, err := datasetService.Table(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial dataset load failed")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Dataset:   handler.NewDatasetHandler(dashboardService, log),
		Dashboard: handler.NewDashboardHandler(dashboardService, log),
		Chart:     handler.NewChartHandler(chartService, log),
		Report:    handler.NewReportHandler(reportService, log),
		Page:      handler.NewPageHandler(dashboardService, cfg, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
