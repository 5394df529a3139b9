package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"aya-hq/companion/pkg/assistant"
	"aya-hq/companion/pkg/chat"
	"aya-hq/companion/pkg/config"
	"aya-hq/companion/pkg/limits/ratelimit"
	"aya-hq/companion/pkg/session"
	"aya-hq/companion/pkg/telemetry/health"
	"aya-hq/companion/pkg/telemetry/metrics"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "AYA Companion Server"

// HealthChecker probes the model endpoint. *assistant.Service implements it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) assistant.HealthStatus
}

// Deps are the components the server routes requests to.
type Deps struct {
	Chat      *chat.Handler
	Sessions  *session.Store
	Assistant HealthChecker

	// Limiter rate limits chat messages per session. Nil disables it.
	Limiter *ratelimit.KeyedLimiter

	// Metrics is served on the configured metrics path when enabled.
	Metrics *metrics.Collector

	// Health runs the readiness checks. Nil gets a checker with none.
	Health *health.Checker

	Version health.VersionInfo
}

// Server is the HTTP API server.
type Server struct {
	config     *config.Config
	deps       Deps
	handler    http.Handler
	httpServer *http.Server
	listener   net.Listener

	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server and builds its routes.
func New(cfg *config.Config, deps Deps) *Server {
	if deps.Health == nil {
		deps.Health = health.New(health.DefaultCheckTimeout)
	}
	s := &Server{config: cfg, deps: deps}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound address once the server is listening.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting API server",
			"address", ln.Addr().String(),
			"environment", s.config.Environment,
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("API server stopped")
	})

	return shutdownErr
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
