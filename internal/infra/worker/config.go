// Package worker schedules index rebuilds on the API process and runs
// a small health endpoint of its own. Configuration follows a fail-open
// strategy: invalid values fall back to defaults with a warning instead
// of refusing to start.
package worker

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"bookrec/internal/pkg/config"
)

// WorkerConfig controls the reindex schedule and the worker's own
// health server.
type WorkerConfig struct {
	// CronSchedule is the cron expression for index rebuilds.
	// Default: "30 5 * * *" (every day at 5:30).
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// ReindexTimeout caps a single rebuild run, corpus load included.
	ReindexTimeout time.Duration

	// HealthPort is the port for the worker's health check server.
	HealthPort int

	// APIBaseURL is the base URL of the API process whose reindex
	// endpoint the worker triggers.
	APIBaseURL string
}

// DefaultConfig returns production defaults: a daily rebuild at 5:30,
// a 30 minute timeout, and the usual exporter-style health port.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:   "30 5 * * *",
		Timezone:       "UTC",
		ReindexTimeout: 30 * time.Minute,
		HealthPort:     9091,
		APIBaseURL:     "http://localhost:8080",
	}
}

// Validate checks every field and returns the collected errors.
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errors = append(errors, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.ReindexTimeout); err != nil {
		errors = append(errors, fmt.Errorf("reindex timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}
	if err := validateBaseURL(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Errorf("api base url: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration from environment
// variables, validating each value and falling back to defaults on
// failure. It never returns an error; fallbacks are logged and counted
// in the metrics instead.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "30 5 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "UTC")
//   - REINDEX_TIMEOUT: duration string, 1m to 4h (default 30m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
//   - API_BASE_URL: base URL of the API to trigger (default http://localhost:8080)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, warnings []string) {
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, warning := range warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		warn("cron_schedule", result.Warnings)
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		warn("timezone", result.Warnings)
	}

	result = config.LoadEnvDuration("REINDEX_TIMEOUT", cfg.ReindexTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.ReindexTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		warn("reindex_timeout", result.Warnings)
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		warn("health_port", result.Warnings)
	}

	result = config.LoadEnvWithFallback("API_BASE_URL", cfg.APIBaseURL, validateBaseURL)
	cfg.APIBaseURL = result.Value.(string)
	if result.FallbackApplied {
		warn("api_base_url", result.Warnings)
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}

// validateBaseURL accepts absolute http or https URLs.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url '%s', expected http(s)://host[:port]", raw)
	}
	return nil
}
