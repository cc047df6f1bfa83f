package api

import (
	"net/http"
	"time"
)

type executionResponse struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	Intent     string  `json:"intent"`
	OK         bool    `json:"ok"`
	Error      *string `json:"error,omitempty"`
	DurationMS int64   `json:"duration_ms"`
	CreatedAt  string  `json:"created_at"`
}

func (s *Server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeError(w, http.StatusServiceUnavailable, "audit_disabled", "execution audit store is not configured")
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
	executions, err := s.audit.ListExecutions(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list executions", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list executions")
		return
	}

	resp := make([]executionResponse, 0, len(executions))
	for _, e := range executions {
		resp = append(resp, executionResponse{
			ID:         e.ID,
			Source:     e.Source,
			Intent:     e.Intent,
			OK:         e.OK,
			Error:      e.Error,
			DurationMS: e.DurationMS,
			CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": resp})
}
