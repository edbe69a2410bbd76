package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	workerPkg "bookrec/internal/infra/worker"
	"bookrec/internal/observability/logging"
)

// The worker triggers the API's reindex endpoint on a cron schedule so
// a long-running API picks up corpus changes (Postgres rows or a CSV
// refreshed in place) without a restart. The rebuild runs inside the
// API process, the only place a new snapshot can be served from; this
// binary just schedules it and reports the outcome.

func main() {
	logger := initLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("reindex_timeout", workerConfig.ReindexTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.String("api_base_url", workerConfig.APIBaseURL))

	client := buildReindexClient(logger, workerConfig)

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	startCronWorker(logger, client, workerConfig, workerMetrics, healthServer)
}

func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// buildReindexClient reads the admin credentials the API also uses.
// Missing credentials are fatal: every scheduled run would 401.
func buildReindexClient(logger *slog.Logger, cfg *workerPkg.WorkerConfig) *workerPkg.ReindexClient {
	username := os.Getenv("ADMIN_USER")
	password := os.Getenv("ADMIN_USER_PASSWORD")
	if username == "" || password == "" {
		logger.Error("ADMIN_USER and ADMIN_USER_PASSWORD must be set")
		os.Exit(1)
	}
	return workerPkg.NewReindexClient(cfg.APIBaseURL, username, password)
}

// startCronWorker starts the cron scheduler and runs the reindex job periodically.
func startCronWorker(logger *slog.Logger, client *workerPkg.ReindexClient, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runReindexJob(logger, client, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runReindexJob fires a single rebuild on the API with timeout and
// error handling. A run the API skips because another rebuild is in
// flight is logged but not counted as a failure.
func runReindexJob(logger *slog.Logger, client *workerPkg.ReindexClient, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	logger.Info("reindex started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ReindexTimeout)
	defer cancel()

	stats, err := client.Trigger(ctx)
	if err != nil {
		if errors.Is(err, workerPkg.ErrRebuildInProgress) {
			logger.Warn("reindex skipped, rebuild already running")
			metrics.RecordJobRun("skipped")
			return
		}
		logger.Error("reindex failed", slog.Any("error", err))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordBooksIndexed(stats.Books)
	metrics.RecordLastSuccess()

	logger.Info("reindex completed",
		slog.Int("books", stats.Books),
		slog.Int("features", stats.Features),
		slog.Duration("api_duration", stats.Duration))
}
