package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
	"github.com/edkim3275/notion-todo-AI-agent/internal/store"
)

type agentRequest struct {
	Text *string `json:"text"`
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "agent_disabled", "no language-model API key is configured")
		return
	}

	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", "text (string) field is required")
		return
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", "text (string) field is required")
		return
	}

	started := time.Now()
	result, err := s.agent.Run(r.Context(), *req.Text)
	if err != nil {
		s.logger.Error("agent run", "err", err)
		writeError(w, http.StatusInternalServerError, "agent_error", err.Error())
		return
	}

	intent := result.Tool
	if intent == "" {
		intent = "chat"
	}
	s.recordExecution(r, "agent", intent, result.Envelope, time.Since(started))

	writeJSON(w, http.StatusOK, result.Envelope)
}

func (s *Server) handleExecutePlan(w http.ResponseWriter, r *http.Request) {
	var plan core.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid plan payload")
		return
	}

	started := time.Now()
	env := s.svc.RunPlan(r.Context(), plan)
	s.recordExecution(r, "http", plan.Intent, env, time.Since(started))

	writeJSON(w, http.StatusOK, env)
}

// recordExecution appends to the audit log; a failed write is logged but
// never affects the response.
func (s *Server) recordExecution(r *http.Request, source, intent string, env core.Envelope, elapsed time.Duration) {
	if s.audit == nil {
		return
	}
	exec := &store.Execution{
		ID:         core.NewID(),
		Source:     source,
		Intent:     intent,
		OK:         env.OK,
		DurationMS: elapsed.Milliseconds(),
	}
	if !env.OK && env.Error != "" {
		errMsg := env.Error
		exec.Error = &errMsg
	}
	if err := s.audit.InsertExecution(r.Context(), exec); err != nil {
		s.logger.Warn("record execution", "err", err)
	}
}
