// Package server provides the HTTP surface of bubbletype: the JSON API,
// the MJPEG stage stream and the WebSocket dot stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/bubbletype/internal/server/api"
	"go.uber.org/zap"
)

// Default stream rates.
const (
	DefaultStreamInterval = 66 * time.Millisecond
	DefaultDotInterval    = 33 * time.Millisecond
)

// Config holds the server configuration. Nil collaborators leave their
// routes unregistered.
type Config struct {
	StaticDir      string
	Studio         api.Studio
	Exporter       api.Exporter
	Stage          StageSource
	StreamInterval time.Duration
	DotInterval    time.Duration
	Logger         *zap.Logger
}

// Server is the bubbletype HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	dots   *DotsHandler
	logger *zap.Logger
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.StreamInterval <= 0 {
		config.StreamInterval = DefaultStreamInterval
	}
	if config.DotInterval <= 0 {
		config.DotInterval = DefaultDotInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		logger: logger,
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Studio != nil {
		letters := api.NewLettersHandler(s.config.Studio)
		s.mux.Handle("/api/letters", letters)
		s.mux.Handle("/api/letters/", letters)
		s.mux.Handle("/api/status", api.NewStatusHandler(s.config.Studio))

		s.dots = NewDotsHandler(s.config.Studio, s.config.DotInterval, s.logger)
		s.mux.Handle("/api/dots", s.dots)
	}

	if s.config.Exporter != nil {
		export := api.NewExportHandler(s.config.Exporter)
		s.mux.Handle("/api/export", export)
		s.mux.Handle("/api/export/", export)
	}

	if s.config.Stage != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Stage, s.config.StreamInterval, s.logger))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Request contexts derive from ctx so open streams end with it.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if s.dots != nil {
		go s.dots.Run(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
