// Package server exposes the HTTP API: presentation compiles, job
// status, chart previews, pattern analysis, and the collaboration
// websocket relay.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"podium/internal/config"
	"podium/internal/logging"
	"podium/internal/queue"
	"podium/internal/services/patterns"
)

// Server hosts the HTTP API for one daemon process.
type Server struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	analyzer *patterns.Client
	collab   *collabHub

	httpServer *http.Server
	listener   net.Listener
}

// New constructs the API server. The analyzer client is only wired when
// the [analyzer] section is enabled.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "api-server"))

	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
	if cfg.Analyzer.Enabled {
		s.analyzer = patterns.NewClient(patterns.ConfigFromSettings(cfg))
	}
	if cfg.Collab.Enabled {
		s.collab = newCollabHub(int64(cfg.Collab.MaxMessageBytes), logger)
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Paths.APIBind,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler (exposed for tests).
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/presentations", s.handleCreatePresentation).Methods(http.MethodPost)
	r.HandleFunc("/api/jobs", s.handleListJobs).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id:[0-9]+}", s.handleJobStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id:[0-9]+}/artifact", s.handleJobArtifact).Methods(http.MethodGet)
	r.HandleFunc("/api/charts/preview", s.handleChartPreview).Methods(http.MethodPost)
	r.HandleFunc("/api/logs", s.handleLogs).Methods(http.MethodGet)
	if s.analyzer != nil {
		r.HandleFunc("/api/patterns/analyze", s.handleAnalyzePatterns).Methods(http.MethodPost)
	}
	if s.collab != nil {
		r.HandleFunc("/api/collab/{room}", s.collab.handleJoin).Methods(http.MethodGet)
	}
	return r
}

// Start binds the listener and serves until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.logger.Info("api server listening", logging.String("bind", listener.Addr().String()))
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server stopped", logging.Error(err))
		}
	}()
	return nil
}

// Addr reports the bound address after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.collab != nil {
		s.collab.closeAll()
	}
	return s.httpServer.Shutdown(ctx)
}
