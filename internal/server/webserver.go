// Package server exposes the analysis service over HTTP: strategy
// listing, region submission, result polling, run history and the debug
// chart pages.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/topovision/topovision/internal/analysis"
	"github.com/topovision/topovision/internal/config"
	"github.com/topovision/topovision/internal/monitoring"
	"github.com/topovision/topovision/internal/store"
)

// WebServer handles the HTTP interface for submitting analyses and
// inspecting their results.
type WebServer struct {
	address  string
	svc      *analysis.Service
	db       *store.DB
	settings *config.Settings
	server   *http.Server
	logf     func(format string, v ...interface{})
}

// Config contains the wiring for the web server.
type Config struct {
	Address  string
	Service  *analysis.Service
	DB       *store.DB
	Settings *config.Settings
}

// NewWebServer creates a web server with the provided configuration.
func NewWebServer(cfg Config) *WebServer {
	settings := cfg.Settings
	if settings == nil {
		settings = config.EmptySettings()
	}
	ws := &WebServer{
		address:  cfg.Address,
		svc:      cfg.Service,
		db:       cfg.DB,
		settings: settings,
		logf:     monitoring.Component("WebServer"),
	}
	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}
	return ws
}

// Handler returns the route mux, exported for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.server.Handler
}

// Start begins serving in a goroutine and blocks until ctx is
// cancelled, then shuts the server down.
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		ws.logf("listening on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.logf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	ws.logf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		ws.logf("shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			ws.logf("force close error: %v", err)
		}
	}
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/strategies", ws.handleStrategies)
	mux.HandleFunc("/api/analyze", ws.handleAnalyze)
	mux.HandleFunc("/api/result", ws.handleResult)
	mux.HandleFunc("/api/runs", ws.handleRuns)
	mux.HandleFunc("/api/config", ws.handleConfig)
	mux.HandleFunc("/api/frame.png", ws.handleFramePNG)
	mux.HandleFunc("/debug/heatmap", ws.handleHeatmapPage)
	mux.HandleFunc("/debug/surface", ws.handleSurfacePage)
	mux.HandleFunc("/debug/heatmap.png", ws.handleHeatmapPNG)

	return mux
}
