// Package server exposes the session tracker over HTTP. Routing uses the
// standard library's method patterns; responses use a {success, data} /
// {error, message} envelope.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/linqiu-dev/mingshi/internal/llm"
	"github.com/linqiu-dev/mingshi/internal/prompts"
	"github.com/linqiu-dev/mingshi/internal/session"
)

// maxBodyBytes bounds request bodies. Name and message payloads are tiny;
// anything larger is abuse.
const maxBodyBytes = 10 << 10 // 10KB

// Server wires the session service and prompt store to HTTP handlers.
type Server struct {
	sessions *session.Service
	prompts  *prompts.Store
	log      *logrus.Logger
}

// New creates a Server.
func New(sessions *session.Service, promptStore *prompts.Store, log *logrus.Logger) *Server {
	return &Server{
		sessions: sessions,
		prompts:  promptStore,
		log:      log,
	}
}

// Handler returns the full route table wrapped in logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("POST /api/sessions/{id}/messages", s.handleContinueSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/prompt", s.handleGetPrompt)
	mux.HandleFunc("POST /api/prompt", s.handleSetPrompt)
	mux.HandleFunc("PUT /api/prompt", s.handleSetPrompt)

	return s.withLogging(mux)
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, status int, label, message string) {
	s.writeJSON(w, status, errorEnvelope{Error: label, Message: message})
}

// writeServiceError maps the session error taxonomy to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var invalidInput *session.InvalidInputError
	var limitErr *session.LimitError
	var genErr *session.GenerationError

	switch {
	case errors.As(err, &invalidInput):
		s.writeError(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, "Session not found",
			"The requested session does not exist or has expired. Please start a new session.")
	case errors.As(err, &limitErr):
		s.writeError(w, http.StatusTooManyRequests, "Limit exceeded",
			err.Error()+". Please start a new session.")
	case errors.As(err, &genErr):
		msg := err.Error()
		var provErr *llm.ProviderError
		if errors.As(err, &provErr) && provErr.Retryable() {
			msg += ". This is likely transient; please retry."
		}
		s.writeError(w, http.StatusBadGateway, "Generation failed", msg)
	default:
		s.writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
