// Package web serves the local dashboard: an embedded page plus a JSON API
// over the controller.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"botfarm/internal/controller"
	"botfarm/internal/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed static/*
var staticFiles embed.FS

type Server struct {
	ctrl    *controller.Controller
	port    int
	timeout time.Duration
	server  *http.Server
}

func NewServer(ctrl *controller.Controller, port int, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		ctrl:    ctrl,
		port:    port,
		timeout: timeout,
	}
}

// Handler builds the dashboard's HTTP handler.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/scenario", s.corsMiddleware(s.handleScenario))
	mux.HandleFunc("/api/scenario/preset", s.corsMiddleware(s.handlePreset))
	mux.HandleFunc("/api/compile", s.corsMiddleware(s.handleCompile))
	mux.HandleFunc("/api/farm/start", s.corsMiddleware(s.handleStart))
	mux.HandleFunc("/api/farm/stop", s.corsMiddleware(s.handleStop))
	mux.HandleFunc("/api/farm/force-stop", s.corsMiddleware(s.handleForceStop))
	mux.HandleFunc("/api/accounts", s.corsMiddleware(s.handleAccounts))
	mux.HandleFunc("/api/stats", s.corsMiddleware(s.handleStats))
	mux.HandleFunc("/api/devices", s.corsMiddleware(s.handleDevices))
	mux.HandleFunc("/api/log", s.corsMiddleware(s.handleLog))
	mux.HandleFunc("/api/keywords", s.corsMiddleware(s.handleKeywords))
	mux.HandleFunc("/api/profiles", s.corsMiddleware(s.handleProfiles))
	mux.HandleFunc("/api/profiles/", s.corsMiddleware(s.handleProfile))

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to create static file system: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	return otelhttp.NewHandler(s.loggingMiddleware(mux), "botfarm-web"), nil
}

func (s *Server) Start() error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting web server on port %d", s.port)
	logger.Info("Access the dashboard at: http://localhost:%d", s.port)

	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.LogHTTPRequest(r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, NewErrorResponse(message))
}
