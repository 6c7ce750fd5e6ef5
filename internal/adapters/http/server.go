// Package http is the service's HTTP adapter: server lifecycle, routing,
// middleware and handlers. Every failed request leaves through errnorm.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/platform/config"
)

// Server owns the gin engine and the listener it is served on.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	cfg    *config.ServerConfig
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New builds a server for cfg. Routes are registered on Engine before Serve.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	// Handlers pass c as a context; let it see the request's deadline.
	engine.ContextWithFallback = true

	return &Server{
		engine: engine,
		cfg:    cfg,
		logger: logger,
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           engine,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Engine exposes the router for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Config returns the settings the server was built with.
func (s *Server) Config() *config.ServerConfig {
	return s.cfg
}

// Addr is the bound address once Serve is listening, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.srv.Addr
}

// Serve listens and serves until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout. A listener failure is returned
// immediately.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("http server listening",
		slog.String("addr", ln.Addr().String()),
		slog.Duration("read_timeout", s.cfg.ReadTimeout),
		slog.Duration("write_timeout", s.cfg.WriteTimeout),
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("draining http server", slog.Duration("timeout", s.cfg.ShutdownTimeout))

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("http server stopped")

	return nil
}
