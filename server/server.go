// Package server exposes the interview orchestrator over a small JSON HTTP
// surface. Request validation mirrors the orchestrator's error philosophy:
// malformed bodies get structured field errors, everything past validation
// becomes a reply payload.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/abhimanyu-1/Shibu-App/interview"
	"github.com/abhimanyu-1/Shibu-App/session"
)

// Interviewer is the orchestrator surface the handlers need.
type Interviewer interface {
	Start(ctx context.Context, sessionID string, profile session.Profile) interview.Reply
	Chat(ctx context.Context, sessionID, message string) interview.Reply
	RAGStatus() string
}

// Config holds HTTP server parameters.
type Config struct {
	Addr                string `json:"addr,omitempty"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds,omitempty"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds,omitempty"`
}

// DefaultConfig returns a Config with standard values.
func DefaultConfig() Config {
	return Config{
		Addr:                ":8000",
		ReadTimeoutSeconds:  15,
		WriteTimeoutSeconds: 120,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.ReadTimeoutSeconds > 0 {
		c.ReadTimeoutSeconds = source.ReadTimeoutSeconds
	}
	if source.WriteTimeoutSeconds > 0 {
		c.WriteTimeoutSeconds = source.WriteTimeoutSeconds
	}
}

// Server routes HTTP requests to an Interviewer.
type Server struct {
	interviewer Interviewer
	logger      *slog.Logger
}

// New creates a Server. A nil logger falls back to slog.Default.
func New(interviewer Interviewer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{interviewer: interviewer, logger: logger}
}

// Handler returns the routed handler with CORS, request-id, and request
// logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /start_interview", s.handleStart)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /health", s.handleHealth)
	return withCORS(withRequestID(withLogging(s.logger, mux)))
}

// HTTPServer builds an http.Server for the configured address.
func (s *Server) HTTPServer(cfg *Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}
}
