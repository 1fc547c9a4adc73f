package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alaik/settlerr/internal/db"
	"github.com/alaik/settlerr/internal/types"
)

// handleGenerateTasks builds a fresh settling-in task list for a user and
// stores it, replacing any previous list
func (s *Server) handleGenerateTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if !s.requireSelf(w, r, userID) {
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "user not found")
		return
	}

	generated := s.tasks.Generate(r.Context(), user.Profile())
	if err := s.store.SaveTasks(r.Context(), userID, generated); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save tasks")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"tasks": generated,
		"count": len(generated),
	})
}

// handleListTasks returns a user's current task list
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if !s.requireSelf(w, r, userID) {
		return
	}

	tasks, err := s.store.GetTasks(r.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "user not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "failed to get tasks")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// handleCheckTask verifies task completion from a submitted photo and removes
// the task from the list when the check passes
func (s *Server) handleCheckTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if !s.requireSelf(w, r, userID) {
		return
	}

	var req types.CheckTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "image_base64 is not valid base64")
		return
	}

	result, err := s.tasks.CheckCompletion(r.Context(), req.Description, image, req.ImageMIME)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "completion check unavailable")
		return
	}

	if result.Completed {
		removed, err := s.store.RemoveTask(r.Context(), userID, req.Description)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "failed to update tasks")
			return
		}
		result.TaskRemoved = removed
	}

	s.jsonResponse(w, http.StatusOK, result)
}
