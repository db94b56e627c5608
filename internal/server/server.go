// Package server provides the HTTP server for the unistroke recognition service.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/render"
	"github.com/ayusman/unistroke/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       *app.App
	Preview   render.Options
	// PreviewTTL is how long rendered template previews stay cached.
	PreviewTTL time.Duration
}

// Server represents the HTTP server for the unistroke application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register the recognition API if an App is configured
	if s.config.App != nil {
		previewHandler := api.NewPreviewHandler(s.config.App, s.config.Preview, s.config.PreviewTTL)
		templateHandler := api.NewTemplateHandler(s.config.App, previewHandler)

		// Use a wrapper to route between templates and preview handlers
		templateRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if this is a preview request: /api/templates/{id}/preview.png
			if strings.HasSuffix(r.URL.Path, "/preview.png") {
				previewHandler.ServeHTTP(w, r)
				return
			}
			templateHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/templates", templateRouter)
		s.mux.Handle("/api/templates/", templateRouter)

		s.mux.Handle("/api/recognize", api.NewRecognizeHandler(s.config.App))

		settingsHandler := api.NewSettingsHandler(s.config.App)
		s.mux.Handle("/api/settings", settingsHandler)
		s.mux.Handle("/api/settings/", settingsHandler)

		s.mux.Handle("/api/strokes", NewStrokeHandler(s.config.App))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
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

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.App != nil {
		response["templates"] = s.config.App.Recognizer().Len()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
