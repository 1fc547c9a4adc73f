package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alaik/settlerr/internal/types"
)

// candidateLimit caps how many stored events are considered per request.
const candidateLimit = 200

// handleRecommendations returns ranked upcoming events for a user.
// Query parameters min_score and top_n override the defaults (45, 5).
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r)
	if !ok {
		return
	}

	minScore, topN, ok := s.rankingParams(w, r)
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

	from := s.now().UTC().Format(time.RFC3339)
	events, err := s.store.ListUpcomingEvents(r.Context(), from, candidateLimit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	recommendations := scoredEventsOrEmpty(
		s.engine.RecommendEvents(r.Context(), user.Profile(), events, minScore, topN))

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// matchRequest is the body for prompt-based event search.
type matchRequest struct {
	Prompt   string  `json:"prompt"`
	MinScore float64 `json:"min_score,omitempty"`
	TopN     int     `json:"top_n,omitempty"`
}

// handleMatchEvents ranks events against a free-text prompt. Defaults are
// looser than the per-user path (50, 10).
func (s *Server) handleMatchEvents(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		s.errorResponse(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.MinScore < 0 || req.MinScore > 100 {
		s.errorResponse(w, http.StatusBadRequest, "min_score must be within [0,100]")
		return
	}
	if req.TopN < 0 {
		s.errorResponse(w, http.StatusBadRequest, "top_n must be non-negative")
		return
	}

	from := s.now().UTC().Format(time.RFC3339)
	events, err := s.store.ListUpcomingEvents(r.Context(), from, candidateLimit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	matches := scoredEventsOrEmpty(
		s.engine.MatchPrompt(r.Context(), req.Prompt, events, req.MinScore, req.TopN))

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// rankingParams parses optional min_score/top_n query parameters. Zero values
// mean "use defaults"; the engine applies them.
func (s *Server) rankingParams(w http.ResponseWriter, r *http.Request) (float64, int, bool) {
	var (
		minScore float64
		topN     int
	)
	if v := r.URL.Query().Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 100 {
			s.errorResponse(w, http.StatusBadRequest, "min_score must be within [0,100]")
			return 0, 0, false
		}
		minScore = f
	}
	if v := r.URL.Query().Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "top_n must be non-negative")
			return 0, 0, false
		}
		topN = n
	}
	return minScore, topN, true
}

// scoredEventsOrEmpty normalizes a nil slice for JSON output.
func scoredEventsOrEmpty(in []types.ScoredEvent) []types.ScoredEvent {
	if in == nil {
		return []types.ScoredEvent{}
	}
	return in
}
