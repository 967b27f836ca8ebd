// Package server exposes the analysis results over an HTTP JSON API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/splitlens/splitlens/internal/community"
	"github.com/splitlens/splitlens/internal/engine"
	"github.com/splitlens/splitlens/internal/store"
)

// Server is the splitlens HTTP server.
type Server struct {
	store      *store.Store
	engine     *engine.Engine
	logger     *slog.Logger
	httpServer *http.Server
	port       int
}

// Config holds server configuration.
type Config struct {
	Port       int
	ProjectDir string
	Detector   *community.Options
}

// New creates a new server instance.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	st, err := store.Open(cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		store:  st,
		engine: engine.New(st, logger, cfg.Detector),
		logger: logger,
		port:   cfg.Port,
	}

	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/applications", s.corsMiddleware(s.handleApplications))
	mux.HandleFunc("/api/applications/", s.corsMiddleware(s.handleApplication))

	// Health check
	mux.HandleFunc("/api/health", s.corsMiddleware(s.handleHealth))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start starts the server and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.Int("port", s.port))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the route multiplexer, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// corsMiddleware adds CORS headers for local development.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", slog.Any("error", err))
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Application is one analyzable application on the list endpoint.
type Application struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// handleApplications handles GET /api/applications
func (s *Server) handleApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	byID, err := s.store.ListApplications(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}

	apps := make([]Application, 0, len(byID))
	for id, name := range byID {
		apps = append(apps, Application{ID: id, Name: name})
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })

	s.writeJSON(w, http.StatusOK, apps)
}

// handleApplication handles the per-application views:
//
//	GET /api/applications/:id            - full analysis result
//	GET /api/applications/:id/callgraph  - call graph nodes and edges
//	GET /api/applications/:id/packages   - package diagram
//	GET /api/applications/:id/flows      - per-endpoint data flows
//	GET /api/applications/:id/communities - proposed service boundaries
//	GET /api/applications/:id/summary    - consolidated summary
func (s *Server) handleApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/applications/")
	idPart, view, _ := strings.Cut(path, "/")
	appID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid application ID")
		return
	}

	result, err := s.engine.Analyze(r.Context(), appID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	switch view {
	case "":
		s.writeJSON(w, http.StatusOK, result)
	case "callgraph":
		s.writeJSON(w, http.StatusOK, result.CallGraph)
	case "packages":
		s.writeJSON(w, http.StatusOK, result.Packages)
	case "flows":
		s.writeJSON(w, http.StatusOK, result.Flows)
	case "communities":
		s.writeJSON(w, http.StatusOK, result.Boundaries)
	case "summary":
		s.writeJSON(w, http.StatusOK, result.Summary)
	default:
		s.writeError(w, http.StatusNotFound, "unknown view")
	}
}
