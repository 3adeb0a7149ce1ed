// Package http exposes the reflow scheduler over a stdlib
// net/http.ServeMux, matching this codebase's existing API server shape.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/application"
	"github.com/stefan123292/schedule-reflow/pkg/observability"
)

// Server is the HTTP API server for the reflow scheduler.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new reflow API server. health may be nil, in which
// case /healthz reports healthy without checking any collaborator.
func NewServer(cfg ServerConfig, service *application.Service, logger *slog.Logger, health *observability.HealthRegistry) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	handler := NewReflowHandler(service, logger, health)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.HandleHealth)
	mux.HandleFunc("POST /reflow", handler.HandleReflow)

	return &Server{
		mux:    mux,
		logger: logger,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start starts the API server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting reflow API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down reflow API server")
	return s.server.Shutdown(ctx)
}
