package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/pkg/errors"

	"github.com/voxdump/go-orbit-tracer/pkg/scene"
)

// Server exposes the progressive renderer over HTTP
type Server struct {
	addr      string
	sceneDir  string
	staticDir string
	logger    *slog.Logger
}

// NewServer creates a server that lists scene files from sceneDir and
// serves UI assets from staticDir
func NewServer(addr, sceneDir, staticDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{addr: addr, sceneDir: sceneDir, staticDir: staticDir, logger: logger}
}

// Handler returns the route table, split from Start so tests can drive
// it through httptest
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves HTTP until the listener fails
func (s *Server) Start() error {
	s.logger.Info("starting web server", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.MarshalWrite(w, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes plus scene and model files found
// in the scene directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response, err := scene.ListAllScenes(s.sceneDir)
	if err != nil {
		s.logger.Error("scene listing failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	json.MarshalWrite(w, response)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.MarshalWrite(w, map[string]string{"error": message})
}

// parseIntParam parses an integer query parameter with a default and
// inclusive bounds
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("invalid %s: %q", key, raw)
	}
	if value < min || value > max {
		return 0, errors.Errorf("%s must be between %d and %d, got %d", key, min, max, value)
	}
	return value, nil
}

// parseFloatParam parses a float query parameter with a default and
// inclusive bounds
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s: %q", key, raw)
	}
	if value < min || value > max {
		return 0, errors.Errorf("%s must be between %g and %g, got %g", key, min, max, value)
	}
	return value, nil
}
