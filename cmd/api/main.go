// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Bugtrack HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Run database migrations (idempotent).
//  4. Connect to PostgreSQL (pgxpool).
//  5. Connect to Redis when configured.
//  6. Load signing keys and build the session core.
//  7. Wire HTTP handlers and background workers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/bugtrack/internal/api"
	"github.com/taibuivan/bugtrack/internal/platform/config"
	"github.com/taibuivan/bugtrack/internal/platform/constants"
	"github.com/taibuivan/bugtrack/internal/platform/guard"
	"github.com/taibuivan/bugtrack/internal/platform/metrics"
	"github.com/taibuivan/bugtrack/internal/platform/middleware"
	"github.com/taibuivan/bugtrack/internal/platform/migration"
	pgstore "github.com/taibuivan/bugtrack/internal/platform/postgres"
	redisstore "github.com/taibuivan/bugtrack/internal/platform/redis"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
	"github.com/taibuivan/bugtrack/internal/tracker/issue"
	"github.com/taibuivan/bugtrack/internal/tracker/project"
	"github.com/taibuivan/bugtrack/internal/users/account"
	"github.com/taibuivan/bugtrack/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("jwt_algorithm", cfg.JWTAlgorithm),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 4. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, pgstore.Options{DSN: cfg.DatabaseURL, TraceQueries: cfg.Debug}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 5. Redis (optional) ───────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	if rdb != nil {
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
	}

	// ── 6. Session Core ───────────────────────────────────────────────────
	keys, err := sec.LoadKeySet(cfg.KeyOptions())
	must(log, err, "load signing keys")

	tokens, err := sec.NewTokenService(keys, cfg.JWTIssuer)
	must(log, err, "initialize token service")

	registry := metrics.New()
	registry.SetBuildInfo(constants.AppVersion)
	permissions := guard.Default()

	userRepository := auth.NewUserRepository(pool)
	var revocations auth.RevocationStore = auth.NewRevocationStore(pool)
	if rdb != nil {
		revocations = auth.NewCachedRevocationStore(revocations, rdb, log)
	}

	authService := auth.NewService(
		userRepository,
		revocations,
		tokens,
		sec.NewPasswordHasher(cfg.BcryptCost),
		auth.Lifetimes{Access: cfg.AccessTokenTTL(), Refresh: cfg.RefreshTokenTTL()},
		registry,
		log,
	)

	go auth.NewReaper(revocations, cfg.RevocationReapInterval, registry, log).Run(rootCtx)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	projectService := project.NewService(project.NewPostgresRepository(pool), permissions, log)
	issueService := issue.NewService(
		issue.NewPostgresRepository(pool),
		issue.NewPostgresCommentRepository(pool),
		projectService,
		userRepository,
		permissions,
		log,
	)

	liveness, readiness := api.NewHealthHandlers(healthDependencies(pool, rdb), log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Sessions:  authService,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(account.NewService(userRepository, permissions, log)),
		Project:   project.NewHandler(projectService),
		Issue:     issue.NewHandler(issueService),
	}

	limits := api.Limits{
		API:         middleware.NewRateLimiter(rootCtx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst),
		Credentials: middleware.NewRateLimiter(rootCtx, constants.AuthRateLimitRPS, constants.AuthRateLimitBurst),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, registry, limits, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	stop()

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger tagged with the application name and
// installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, "bugtrack"))
	slog.SetDefault(logger)
	return logger
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
