package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/linqiu-dev/mingshi/internal/prompts"
	"github.com/linqiu-dev/mingshi/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type createSessionRequest struct {
	Name         string `json:"name"`
	Locale       string `json:"locale"`
	Strategy     string `json:"strategy"`
	CustomPrompt string `json:"customPrompt"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid input", "request body must be valid JSON")
		return
	}

	outcome, err := s.sessions.Create(r.Context(), session.CreateParams{
		Subject:        req.Name,
		Locale:         req.Locale,
		Strategy:       prompts.Strategy(req.Strategy),
		PromptOverride: req.CustomPrompt,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeData(w, http.StatusCreated, outcome)
}

type continueSessionRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleContinueSession(w http.ResponseWriter, r *http.Request) {
	var req continueSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid input", "request body must be valid JSON")
		return
	}

	outcome, err := s.sessions.Continue(r.Context(), r.PathValue("id"), req.Message)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeData(w, http.StatusOK, outcome)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	meta, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeData(w, http.StatusOK, meta)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Remove(r.PathValue("id"))
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Session cleared successfully"})
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, map[string]string{"prompt": s.prompts.Default()})
}

type setPromptRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleSetPrompt(w http.ResponseWriter, r *http.Request) {
	var req setPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid input", "request body must be valid JSON")
		return
	}

	trimmed := strings.TrimSpace(req.Prompt)
	if err := s.prompts.SetDefault(trimmed); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	s.writeData(w, http.StatusOK, map[string]string{"prompt": trimmed})
}
