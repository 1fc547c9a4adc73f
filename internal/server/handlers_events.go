package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alaik/settlerr/internal/matchmaking"
	"github.com/alaik/settlerr/internal/server/middleware"
	"github.com/alaik/settlerr/internal/types"
)

// handleCreateEvent creates a new event
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req types.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	// Dates are stored normalized so upcoming-event queries order lexically.
	date, ok := matchmaking.NormalizeEventDate(req.Date)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "date must be an ISO-8601 date or timestamp")
		return
	}

	event := &types.Event{
		Name:      req.Name,
		Organizer: req.Organizer,
		About:     req.About,
		Venue:     req.Venue,
		Category:  req.Category,
		Tags:      req.Tags,
		Language:  req.Language,
		Date:      date,
		RSVPLimit: req.RSVPLimit,
	}

	id, err := s.store.CreateEvent(r.Context(), event)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	created, err := s.store.GetEvent(r.Context(), id)
	if err != nil || created == nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to reload event")
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleListEvents lists events; ?upcoming=true restricts to events at or
// after the current time
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	var (
		events []types.Event
		err    error
	)
	if r.URL.Query().Get("upcoming") == "true" {
		from := s.now().UTC().Format(time.RFC3339)
		events, err = s.store.ListUpcomingEvents(r.Context(), from, limit)
	} else {
		events, err = s.store.ListEvents(r.Context(), limit)
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []types.Event{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// handleGetEvent returns an event by ID
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}

	event, err := s.store.GetEvent(r.Context(), eventID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event == nil {
		s.errorResponse(w, http.StatusNotFound, "event not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, event)
}

// handleGetEventByName returns an event by exact name query parameter
func (s *Server) handleGetEventByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	event, err := s.store.GetEventByName(r.Context(), name)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event == nil {
		s.errorResponse(w, http.StatusNotFound, "event not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, event)
}

// handleJoinEvent records an RSVP for the authenticated user
func (s *Server) handleJoinEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.store.JoinEvent(r.Context(), eventID, userID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "joined"})
}

// handleLeaveEvent removes the authenticated user's RSVP
func (s *Server) handleLeaveEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.store.LeaveEvent(r.Context(), eventID, userID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "left"})
}
