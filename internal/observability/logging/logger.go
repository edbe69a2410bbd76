// Package logging builds the slog loggers used across the binaries and
// carries the request ID from the context into log attributes.
package logging

import (
	"context"
	"log/slog"
	"os"

	"bookrec/internal/handler/http/requestid"
)

func levelFromEnv() slog.Level {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewLogger returns a JSON logger on stdout. LOG_LEVEL=debug lowers the
// level; source locations are attached when the level allows warnings.
func NewLogger() *slog.Logger {
	level := levelFromEnv()
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelWarn,
	}))
}

// NewTextLogger returns a text logger on stderr for the CLI tools and
// local development.
func NewTextLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
}

// WithRequestID attaches the context's request ID to the logger when
// one is present.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if reqID := requestid.FromContext(ctx); reqID != "" {
		return logger.With("request_id", reqID)
	}
	return logger
}
