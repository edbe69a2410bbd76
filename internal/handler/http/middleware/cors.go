// Package middleware holds HTTP middleware that is configured from the
// environment rather than constructed inline.
package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// CORSConfig holds the policy for cross-origin requests.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of permitted origins.
	// "*" allows every origin but disables credentials.
	AllowedOrigins []string

	// AllowedMethods lists the HTTP methods allowed in CORS requests.
	AllowedMethods []string

	// AllowedHeaders lists the request headers allowed in CORS requests.
	AllowedHeaders []string

	// AllowCredentials must be true for Bearer token authentication
	// from a browser.
	AllowCredentials bool

	// MaxAge is how long preflight results may be cached, in seconds.
	MaxAge int

	Logger *slog.Logger
}

// LoadCORSConfig builds a CORSConfig from environment variables, with
// defaults suitable for a JSON API behind a known frontend.
//
//	CORS_ALLOWED_ORIGINS  comma-separated origin list (default: none, CORS disabled)
//	CORS_ALLOWED_METHODS  comma-separated method list
//	CORS_ALLOWED_HEADERS  comma-separated header list
//	CORS_MAX_AGE          preflight cache seconds
func LoadCORSConfig() *CORSConfig {
	cfg := &CORSConfig{
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitTrim(v)
	}
	if v := os.Getenv("CORS_ALLOWED_METHODS"); v != "" {
		cfg.AllowedMethods = splitTrim(v)
	}
	if v := os.Getenv("CORS_ALLOWED_HEADERS"); v != "" {
		cfg.AllowedHeaders = splitTrim(v)
	}
	if v := os.Getenv("CORS_MAX_AGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAge = n
		}
	}
	return cfg
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *CORSConfig) originAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// CORS returns middleware enforcing the configured policy. Same-origin
// requests pass through untouched. Disallowed origins get no CORS
// headers, so the browser blocks the response. Preflight OPTIONS
// requests for allowed origins are answered with 204 without reaching
// the next handler.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !config.originAllowed(origin) {
				if config.Logger != nil {
					config.Logger.Warn("cors origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("remote_addr", r.RemoteAddr))
				}
				next.ServeHTTP(w, r)
				return
			}

			// Echo back the request origin, required when credentials
			// are allowed.
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if config.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
