package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mjharte/stagehand/session"
)

// CreateSession handles POST /sessions. Every call creates a new session.
func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := a.tracker.Create(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	a.security.logEvent(eventSessionCreated, r, usernameFromContext(r.Context()),
		slog.String("session_id", s.ID))
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

// GetSession handles GET /sessions/{sessionID}.
func (a *API) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := a.tracker.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

// SetStageData handles PUT /sessions/{sessionID}/stage/{stage}. The payload
// replaces the stage's document wholesale and the session jumps to that
// stage, adjacent or not.
func (a *API) SetStageData(w http.ResponseWriter, r *http.Request) {
	stage, err := strconv.Atoi(chi.URLParam(r, "stage"))
	if err != nil {
		mapError(w, session.ErrInvalidStage)
		return
	}

	// An empty body is equivalent to an empty payload.
	var req SetStageDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := a.tracker.SetStageData(r.Context(), chi.URLParam(r, "sessionID"), stage, req.Data)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message:      fmt.Sprintf("stage %d updated", stage),
		CurrentStage: s.CurrentStage,
	})
}

// MoveStage handles PUT /sessions/{sessionID}/move/{direction}.
func (a *API) MoveStage(w http.ResponseWriter, r *http.Request) {
	direction := session.Direction(chi.URLParam(r, "direction"))
	stage, err := a.tracker.MoveStage(r.Context(), chi.URLParam(r, "sessionID"), direction)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message:      fmt.Sprintf("moved to stage %d", stage),
		CurrentStage: stage,
	})
}
