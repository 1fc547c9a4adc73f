package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/alaik/settlerr/internal/db"
	"github.com/alaik/settlerr/internal/server/middleware"
	"github.com/alaik/settlerr/internal/types"
)

// pathUUID parses the {id} path segment. Writes a 400 and returns false on
// failure.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// requireSelf ensures the authenticated user matches the path user. User
// resources are owner-only.
func (s *Server) requireSelf(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	authID, err := middleware.GetUserID(r)
	if err != nil || authID != userID {
		s.errorResponse(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

// handleGetUser returns a user profile by ID
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r)
	if !ok {
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

	s.jsonResponse(w, http.StatusOK, user.Profile())
}

// handleGetUserByUsername returns a user profile by username query parameter
func (s *Server) handleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		s.errorResponse(w, http.StatusBadRequest, "username query parameter is required")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "user not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, user.Profile())
}

// handleUpdateUser applies a partial profile update
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if !s.requireSelf(w, r, userID) {
		return
	}

	var req types.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	update := &db.ProfileUpdate{}
	if req.Name != "" {
		update.Name = &req.Name
	}
	if req.Phone != "" {
		update.Phone = &req.Phone
	}
	if req.Status != "" {
		update.Status = &req.Status
	}
	if req.Occupation != "" {
		update.Occupation = &req.Occupation
	}
	if req.Interests != nil {
		update.Interests = &req.Interests
	}
	if req.Location != "" {
		update.Location = &req.Location
	}
	if req.Languages != nil {
		update.Languages = &req.Languages
	}
	if req.Bio != "" {
		update.Bio = &req.Bio
	}
	if req.PhotoURL != "" {
		update.PhotoURL = &req.PhotoURL
	}

	if err := s.store.UpdateProfile(r.Context(), userID, update); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "user not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil || user == nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to reload profile")
		return
	}
	s.jsonResponse(w, http.StatusOK, user.Profile())
}

// handleUpdatePassword changes the caller's password after verifying the
// current one
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if !s.requireSelf(w, r, userID) {
		return
	}

	var req types.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := s.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListUsers lists users who share an interest
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	interest := r.URL.Query().Get("interest")
	if interest == "" {
		s.errorResponse(w, http.StatusBadRequest, "interest query parameter is required")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	users, err := s.store.ListUsersByInterest(r.Context(), interest, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	profiles := make([]*types.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"users": profiles,
		"count": len(profiles),
	})
}

// handleDeleteUser removes a user account
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	if !s.requireSelf(w, r, userID) {
		return
	}

	if err := s.store.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "user not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
