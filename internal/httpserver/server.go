package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"philagro/backend/internal/config"
	"philagro/backend/internal/metrics"
	authusecase "philagro/backend/internal/usecase/auth"
	pricelistusecase "philagro/backend/internal/usecase/pricelist"
	"philagro/backend/internal/usecase/session"
	userusecase "philagro/backend/internal/usecase/user"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Dependencies groups the services the HTTP layer calls into.
type Dependencies struct {
	Auth     *authusecase.Service
	Users    *userusecase.Service
	Prices   *pricelistusecase.Service
	Sessions *session.Manager
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   HealthCheck
}

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer   *http.Server
	router       chi.Router
	deps         Dependencies
	logger       *zap.Logger
	cookieSecure bool
	sessionTTL   time.Duration
	addr         string
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(cfg config.Config, deps Dependencies, logger *zap.Logger) *Server {
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	srv := &Server{
		router:       chi.NewRouter(),
		deps:         deps,
		logger:       logger,
		cookieSecure: cfg.CookieSecure,
		sessionTTL:   cfg.SessionTTL,
		addr:         addr,
	}
	srv.registerRoutes(cfg.AllowedOrigins)

	srv.httpServer = &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
	}
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
