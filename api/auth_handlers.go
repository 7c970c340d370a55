package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mjharte/stagehand/auth"
	"github.com/mjharte/stagehand/storage"
)

// Register handles POST /auth/register.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			a.security.logFailure(eventRegisterConflict, r, "username already registered")
		}
		mapError(w, err)
		return
	}

	a.security.logEvent(eventRegister, r, user.Username)
	writeJSON(w, http.StatusOK, RegisterResponse{ID: user.ID, Username: user.Username})
}

// Login handles POST /auth/login. The body is form-encoded
// (username, password), matching the OAuth2 password flow.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := a.auth.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			a.security.logFailure(eventLoginFailure, r, "invalid credentials")
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		mapError(w, err)
		return
	}

	token, err := a.issuer.Issue(user.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	a.security.logEvent(eventLoginSuccess, r, user.Username)
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, TokenType: "bearer"})
}
