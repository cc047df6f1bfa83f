package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
)

type createTaskRequest struct {
	Title    string `json:"title"`
	Due      string `json:"due,omitempty"`
	Category string `json:"category,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type updateTaskRequest struct {
	TaskRef string `json:"task_ref"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

type completeTaskRequest struct {
	TaskRef string `json:"task_ref"`
}

type deleteTaskRequest struct {
	TaskRef string `json:"task_ref"`
	Confirm bool   `json:"confirm"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	pageSize := parseIntDefault(r.URL.Query().Get("page_size"), 10)
	rows, err := s.svc.ListTasks(r.Context(), pageSize)
	if err != nil {
		s.logger.Error("list tasks", "err", err)
		writeJSON(w, http.StatusBadGateway, core.Envelope{OK: false, Error: err.Error(), Result: nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": rows})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "title is required")
		return
	}

	page, err := s.svc.CreateTask(r.Context(), core.CreateTaskInput{
		Title:    req.Title,
		Due:      req.Due,
		Category: req.Category,
		Notes:    req.Notes,
	})
	if err != nil {
		s.logger.Error("create task", "err", err)
		writeJSON(w, http.StatusBadGateway, core.Envelope{OK: false, Error: err.Error(), Result: nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": page})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.TaskRef) == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "task_ref is required")
		return
	}

	patch, err := s.svc.Schema().BuildPatch(req.Field, req.Value)
	if err != nil {
		writeJSON(w, http.StatusOK, core.Envelope{OK: false, Error: core.ErrKindUnsupportedField, Result: nil})
		return
	}

	pageID, ok := s.resolveRef(w, r, req.TaskRef)
	if !ok {
		return
	}
	page, err := s.svc.UpdateTask(r.Context(), pageID, patch)
	if err != nil {
		s.logger.Error("update task", "task_ref", req.TaskRef, "err", err)
		writeJSON(w, http.StatusBadGateway, core.Envelope{OK: false, Error: err.Error(), Result: nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": page})
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.TaskRef) == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "task_ref is required")
		return
	}

	pageID, ok := s.resolveRef(w, r, req.TaskRef)
	if !ok {
		return
	}
	page, err := s.svc.CompleteTask(r.Context(), pageID)
	if err != nil {
		s.logger.Error("complete task", "task_ref", req.TaskRef, "err", err)
		writeJSON(w, http.StatusBadGateway, core.Envelope{OK: false, Error: err.Error(), Result: nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": page})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	var req deleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if !req.Confirm {
		// Refuse without touching the store; deletion needs an explicit
		// confirmation flag.
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      false,
			"message": "confirm=true is required; this flag guards against accidental deletion.",
		})
		return
	}
	if strings.TrimSpace(req.TaskRef) == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "task_ref is required")
		return
	}

	pageID, ok := s.resolveRef(w, r, req.TaskRef)
	if !ok {
		return
	}
	page, err := s.svc.DeleteTask(r.Context(), pageID)
	if err != nil {
		s.logger.Error("delete task", "task_ref", req.TaskRef, "err", err)
		writeJSON(w, http.StatusBadGateway, core.Envelope{OK: false, Error: err.Error(), Result: nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": page})
}

func (s *Server) handleDescribeDB(w http.ResponseWriter, r *http.Request) {
	props, err := s.svc.DescribeDatabase(r.Context())
	if err != nil {
		s.logger.Error("describe database", "err", err)
		writeJSON(w, http.StatusBadGateway, core.Envelope{OK: false, Error: err.Error(), Result: nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": props})
}

// resolveRef resolves a task reference and writes the failure envelope
// itself when resolution fails.
func (s *Server) resolveRef(w http.ResponseWriter, r *http.Request, ref string) (string, bool) {
	pageID, err := s.svc.ResolveRef(r.Context(), ref)
	if err != nil {
		if errors.Is(err, core.ErrNoMatch) {
			writeJSON(w, http.StatusOK, core.Envelope{OK: false, Error: core.ErrKindNoMatch, Result: []core.Row{}})
		} else {
			s.logger.Error("resolve task ref", "task_ref", ref, "err", err)
			writeJSON(w, http.StatusBadGateway, core.Envelope{OK: false, Error: err.Error(), Result: nil})
		}
		return "", false
	}
	return pageID, true
}

func parseIntDefault(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	payload := map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}
	writeJSON(w, status, payload)
}
