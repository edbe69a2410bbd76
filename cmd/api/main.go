package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"bookrec/internal/common/pagination"
	"bookrec/internal/config"
	"bookrec/internal/infra/adapter/persistence/csvstore"
	pgRepo "bookrec/internal/infra/adapter/persistence/postgres"
	"bookrec/internal/infra/db"
	"bookrec/internal/infra/textenc"
	"bookrec/internal/observability/logging"
	"bookrec/internal/recommend/index"
	"bookrec/internal/recommend/vectorizer"
	"bookrec/internal/repository"

	bookUC "bookrec/internal/usecase/book"
	recUC "bookrec/internal/usecase/recommend"
	reindexUC "bookrec/internal/usecase/reindex"

	hhttp "bookrec/internal/handler/http"
	hadmin "bookrec/internal/handler/http/admin"
	hauth "bookrec/internal/handler/http/auth"
	hbook "bookrec/internal/handler/http/book"
	"bookrec/internal/handler/http/middleware"
	hrec "bookrec/internal/handler/http/recommend"
	"bookrec/internal/handler/http/requestid"
	"bookrec/internal/observability/tracing"
	authservice "bookrec/internal/service/auth"
)

func main() {
	logger := initLogger()

	securityCfg := loadSecurityConfig(logger)
	validateCredentials(logger, securityCfg)

	engineCfg := loadEngineConfig(logger)

	source, database := buildCorpusSource(logger, engineCfg)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	holder := index.NewHolder()
	reindexSvc := reindexUC.NewService(source, holder, indexConfig(engineCfg))

	buildInitialIndex(logger, reindexSvc, engineCfg)

	version := getVersion()
	handler := setupServer(logger, securityCfg, engineCfg, holder, reindexSvc, database, version)

	runServer(logger, handler, version)
}

func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

func loadSecurityConfig(logger *slog.Logger) *config.SecurityConfig {
	path := os.Getenv("SECURITY_CONFIG_PATH")
	if path == "" {
		path = "configs/security.yaml"
	}
	cfg, err := config.LoadSecurityConfig(path)
	if err != nil {
		logger.Error("failed to load security configuration", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// validateCredentials refuses to boot with missing or weak admin
// credentials or JWT secret.
func validateCredentials(logger *slog.Logger, cfg *config.SecurityConfig) {
	if err := hauth.ValidateAdminCredentials(); err != nil {
		logger.Error("admin credentials validation failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := hauth.ValidateJWTSecret(cfg.GetJWTSecretEnv()); err != nil {
		logger.Error("jwt secret validation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func loadEngineConfig(logger *slog.Logger) *config.EngineConfig {
	path := os.Getenv("ENGINE_CONFIG_PATH")
	if path == "" {
		path = "configs/engine.yaml"
	}
	cfg, err := config.LoadEngineConfig(path)
	if err != nil {
		logger.Error("failed to load engine configuration", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// buildCorpusSource selects the corpus backend. The returned *sql.DB is
// nil for the CSV backend.
func buildCorpusSource(logger *slog.Logger, cfg *config.EngineConfig) (repository.BookSource, *sql.DB) {
	switch cfg.Corpus.Source {
	case "postgres":
		database := db.Open()
		if err := db.MigrateUp(database); err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
		source := pgRepo.NewBookRepo(database,
			pgRepo.WithMaxRows(cfg.Corpus.MaxRows),
			pgRepo.WithTextRepair(textenc.Repair),
		)
		logger.Info("corpus source: postgres", slog.Int("max_rows", cfg.Corpus.MaxRows))
		return source, database
	default:
		source := csvstore.NewBookStore(cfg.Corpus.Path,
			csvstore.WithMaxRows(cfg.Corpus.MaxRows),
			csvstore.WithTextRepair(textenc.Repair),
		)
		logger.Info("corpus source: csv",
			slog.String("path", cfg.Corpus.Path),
			slog.Int("max_rows", cfg.Corpus.MaxRows))
		return source, nil
	}
}

func indexConfig(cfg *config.EngineConfig) index.Config {
	return index.Config{
		Vectorizer: vectorizer.Config{
			MaxFeatures:     cfg.Vectorizer.MaxFeatures,
			UseBigrams:      cfg.Vectorizer.UseBigrams,
			MinDocFreq:      cfg.Vectorizer.MinDocFreq,
			MaxDocFreqRatio: cfg.Vectorizer.MaxDocFreqRatio,
			FilterStopWords: cfg.Vectorizer.FilterStopWords,
		},
		WithRatingFeature: cfg.Matching.WithRatingFeature,
		FuzzyThreshold:    cfg.Matching.FuzzyThreshold,
	}
}

// buildInitialIndex blocks until the first index is live. Serving
// queries without an index is not an option, so failure is fatal.
func buildInitialIndex(logger *slog.Logger, svc *reindexUC.Service, cfg *config.EngineConfig) {
	start := time.Now()
	stats, err := svc.Rebuild(context.Background())
	if err != nil {
		logger.Error("initial index build failed", slog.Any("error", err))
		os.Exit(1)
	}
	hhttp.RecordCorpusLoad(cfg.Corpus.Source, time.Since(start))
	hhttp.UpdateBooksTotal(stats.Books)
	logger.Info("initial index built",
		slog.Int("books", stats.Books),
		slog.Int("features", stats.Features),
		slog.Duration("duration", stats.Duration))
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures the HTTP handler with all routes and middleware.
func setupServer(
	logger *slog.Logger,
	securityCfg *config.SecurityConfig,
	engineCfg *config.EngineConfig,
	holder *index.Holder,
	reindexSvc *reindexUC.Service,
	database *sql.DB,
	version string,
) http.Handler {
	bookSvc := &bookUC.Service{Indexes: holder}
	recSvc := recUC.NewService(holder, engineCfg.Matching.SimilarityThreshold,
		recUC.WithDefaultTopN(engineCfg.Matching.TopN))

	authProvider := hauth.NewBasicAuthProvider(
		securityCfg.GetMinPasswordLength(),
		securityCfg.GetWeakPasswords(),
	)
	authService := authservice.NewAuthService(authProvider, securityCfg.GetPublicEndpoints())
	tokenExpiry := time.Duration(securityCfg.GetJWTExpiryHours()) * time.Hour

	// Token issuance gets its own tight limit: 5 requests per minute per IP.
	authRateLimiter := hhttp.NewRateLimiter(5, time.Minute)

	mux := http.NewServeMux()
	mux.Handle("POST /auth/token", authRateLimiter.Limit(hauth.TokenHandler(authService, tokenExpiry)))

	mux.Handle("GET /health", &hhttp.HealthHandler{Indexes: holder, DB: database, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Indexes: holder})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	paginationCfg := pagination.LoadFromEnv()
	hbook.Register(mux, bookSvc, recSvc, paginationCfg, logger)
	hrec.Register(mux, recSvc)
	hadmin.Register(mux, reindexSvc, logger)

	return applyMiddleware(logger, hauth.Authz(mux))
}

// applyMiddleware wraps the handler with the middleware chain.
// Order, outermost first: CORS, request ID, tracing, IP rate limit,
// recovery, logging, input validation, body limit, metrics, per-request
// timeout, then auth at the routing layer.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsConfig := middleware.LoadCORSConfig()
	corsConfig.Logger = logger
	if len(corsConfig.AllowedOrigins) > 0 {
		logger.Info("CORS enabled",
			slog.Any("allowed_origins", corsConfig.AllowedOrigins),
			slog.Any("allowed_methods", corsConfig.AllowedMethods),
			slog.Int("max_age", corsConfig.MaxAge))
	}

	rateLimiter := hhttp.NewRateLimiter(300, time.Minute)

	chain := handler
	chain = hhttp.Timeout(30 * time.Second)(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = rateLimiter.Limit(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(*corsConfig)(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
