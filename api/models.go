package api

import (
	"time"

	"github.com/mjharte/stagehand/storage"
)

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is returned from POST /auth/register.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResponse is returned from POST /auth/login. TokenType is always
// "bearer".
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// SessionResponse is the full session record as returned from the session
// endpoints. Stage keys serialize as "1", "2", "3".
type SessionResponse struct {
	ID           string                   `json:"id"`
	CurrentStage int                      `json:"current_stage"`
	Stages       map[int]storage.Document `json:"stages"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

func toSessionResponse(s *storage.Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID,
		CurrentStage: s.CurrentStage,
		Stages:       s.Stages,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SetStageDataRequest is the JSON body for PUT /sessions/{id}/stage/{stage}.
// A stage field duplicating the path parameter is accepted and ignored.
type SetStageDataRequest struct {
	Data storage.Document `json:"data"`
}

// MessageResponse acknowledges a mutation.
type MessageResponse struct {
	Message      string `json:"message"`
	CurrentStage int    `json:"current_stage,omitempty"`
}

// ErrorResponse is returned for all error cases.
type ErrorResponse struct {
	Error string `json:"error"`
}
