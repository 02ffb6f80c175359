package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ttravel/hospitality/internal/config"
	"github.com/ttravel/hospitality/internal/pkg/logger"
)

// Server represents the HTTP API server.
type Server struct {
	router *chi.Mux
	server *http.Server
	config config.ServerConfig
}

// NewServer creates a new API server around an already-built router.
func NewServer(cfg config.ServerConfig, router *chi.Mux) *Server {
	return &Server{router: router, config: cfg}
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	read, write, idle, _ := s.config.Timeouts()
	addr := fmt.Sprintf("%s:%d", s.config.GetHost(), s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  idle,
	}

	logger.Info("api server listening", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
