package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"triviabattle/internal/model"
	"triviabattle/internal/service"
	"triviabattle/internal/transport/rest/middleware"
)

// Profiles reads durable player data
type Profiles interface {
	GetProfile(ctx context.Context, playerID string) (*model.Profile, error)
	History(ctx context.Context, playerID string, limit int64) ([]*model.MatchRecord, error)
}

// Results reads finished match results
type Results interface {
	Result(ctx context.Context, matchID string) (*model.MatchResult, error)
}

// ProfileHandler handles profile and match result endpoints
type ProfileHandler struct {
	profiles Profiles
	results  Results
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles Profiles, results Results) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		results:  results,
	}
}

// Me handles GET /v1/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	profile, err := h.profiles.GetProfile(r.Context(), playerID)
	if errors.Is(err, service.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		log.Printf("[Profile] load %s: %v", playerID, err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// History handles GET /v1/me/matches?limit=N
func (h *ProfileHandler) History(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	matches, err := h.profiles.History(r.Context(), playerID, limit)
	if err != nil {
		log.Printf("[Profile] history %s: %v", playerID, err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}

// MatchResult handles GET /v1/matches/{id}/result
func (h *ProfileHandler) MatchResult(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]
	result, err := h.results.Result(r.Context(), matchID)
	if errors.Is(err, service.ErrMatchNotFound) {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		log.Printf("[Profile] result %s: %v", matchID, err)
		writeError(w, http.StatusInternalServerError, "failed to load result")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
