// Package api implements the musegen HTTP service: generation and
// preset endpoints plus health and metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/klangwerk/musegen/pkg/cache"
	"github.com/klangwerk/musegen/pkg/generator"
	"github.com/klangwerk/musegen/pkg/logging"
	"github.com/klangwerk/musegen/pkg/preset"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address (host:port).
	Addr string

	// Generator is the base backend configuration. Per-request model
	// overrides derive new configs from it.
	Generator generator.Config

	// Presets manages the preset store.
	Presets *preset.Manager

	// ShutdownTimeout bounds graceful shutdown (default: 10s).
	ShutdownTimeout time.Duration
}

// Server serves the musegen HTTP API. It owns the generation client
// cache and tears it down on shutdown.
type Server struct {
	addr            string
	base            generator.Config
	clients         *cache.InstanceCache[generator.Config, *generator.Client]
	presets         *preset.Manager
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// New creates a server. The base generator configuration is validated
// eagerly so a misconfigured daemon fails at startup, not on the first
// generation request.
func New(cfg Config) (*Server, error) {
	if cfg.Presets == nil {
		return nil, errors.New("api: preset manager is required")
	}
	if err := cfg.Generator.Validate(); err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	clients := cache.NewInstanceCache(func(ctx context.Context, c generator.Config) (*generator.Client, error) {
		return generator.New(c)
	})

	return &Server{
		addr:            cfg.Addr,
		base:            cfg.Generator,
		clients:         clients,
		presets:         cfg.Presets,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logging.NewLogger("api"),
	}, nil
}

// Handler returns the full HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/generate", s.handleGenerate)
	mux.HandleFunc("GET /v1/presets", s.handleListPresets)
	mux.HandleFunc("GET /v1/presets/{name}", s.handleGetPreset)
	mux.HandleFunc("PUT /v1/presets/{name}", s.handleSavePreset)
	mux.HandleFunc("DELETE /v1/presets/{name}", s.handleDeletePreset)
	mux.HandleFunc("POST /v1/presets/seed", s.handleSeedPresets)

	return s.withRequestID(s.withAccessLog(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully and
// clears the client cache.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.teardown()
	if err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	return <-errCh
}

// teardown clears the client cache so subsequent lookups miss.
func (s *Server) teardown() {
	s.clients.Clear()
	s.logger.Debug().Msg("Client cache cleared")
}

// client resolves the generation client for the given model override,
// creating and caching it on first use.
func (s *Server) client(ctx context.Context, model string) (*generator.Client, error) {
	cfg := s.base
	if model != "" {
		cfg.Model = model
	}
	return s.clients.GetOrCreate(ctx, cfg)
}
