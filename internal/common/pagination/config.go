// Package pagination provides offset pagination for list endpoints:
// query-parameter parsing, metadata, and Prometheus metrics.
package pagination

import (
	"os"
	"strconv"
)

// Config bounds the page and limit parameters accepted from clients.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns page=1, limit=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT
// and PAGINATION_MAX_LIMIT, falling back to the defaults for unset or
// unparseable values.
func LoadFromEnv() Config {
	return Config{
		DefaultPage:  envInt("PAGINATION_DEFAULT_PAGE", 1),
		DefaultLimit: envInt("PAGINATION_DEFAULT_LIMIT", 20),
		MaxLimit:     envInt("PAGINATION_MAX_LIMIT", 100),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
