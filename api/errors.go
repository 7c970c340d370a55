package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mjharte/stagehand/auth"
	"github.com/mjharte/stagehand/session"
	"github.com/mjharte/stagehand/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidStage),
		errors.Is(err, session.ErrInvalidDirection),
		errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, auth.ErrEmptyUsername):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "username already registered")
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
