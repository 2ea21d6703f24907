// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/bugtrack/internal/platform/config"
	"github.com/taibuivan/bugtrack/internal/platform/constants"
	"github.com/taibuivan/bugtrack/internal/platform/metrics"
	"github.com/taibuivan/bugtrack/internal/platform/middleware"
	"github.com/taibuivan/bugtrack/internal/tracker/issue"
	"github.com/taibuivan/bugtrack/internal/tracker/project"
	"github.com/taibuivan/bugtrack/internal/users/account"
	"github.com/taibuivan/bugtrack/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process is up.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Sessions resolves bearer tokens for the protected route groups.
	Sessions middleware.PrincipalResolver

	// Auth handles registration and the session lifecycle.
	Auth *auth.Handler

	// Account handles user lookup and role administration.
	Account *account.Handler

	// Project handles the project catalogue.
	Project *project.Handler

	// Issue handles issues and their comments.
	Issue *issue.Handler
}

// Limits carries the per-IP throttles applied to route groups.
type Limits struct {
	// API applies to every request.
	API *middleware.RateLimiter

	// Credentials applies to the /auth group on top of API.
	Credentials *middleware.RateLimiter
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, registry *metrics.Registry, limits Limits, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics(registry))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	if limits.API != nil {
		r.Use(limits.API.Handler)
	}
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", registry.Handler())

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {

		// Credential endpoints authenticate per route: refresh reads its own token.
		api.Group(func(public chi.Router) {
			if limits.Credentials != nil {
				public.Use(limits.Credentials.Handler)
			}
			public.Mount("/auth", h.Auth.Routes())
		})

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticate(h.Sessions))
			protected.Use(middleware.RequireAuth)

			protected.Mount("/users", h.Account.Routes())
			protected.Route("/projects", h.Project.RegisterRoutes)
			protected.Route("/issues", h.Issue.RegisterRoutes)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
