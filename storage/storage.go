// Package storage provides the persistence abstraction shared by the
// credential and session cores.
package storage

import (
	"context"
	"encoding/json"
	"time"
)

// Document is an opaque JSON object payload attached to a session stage.
// Payloads are stored and returned verbatim; the core never inspects them.
type Document = json.RawMessage

// EmptyDocument returns the canonical empty payload.
func EmptyDocument() Document {
	return Document("{}")
}

// User is an identity record. CreatedAt is set once at creation and never
// updated; this core never modifies or deletes users.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a multi-stage workflow instance. CurrentStage is always within
// [1,3] and Stages always carries exactly the keys 1, 2 and 3.
type Session struct {
	ID           string           `json:"id"`
	CurrentStage int              `json:"current_stage"`
	Stages       map[int]Document `json:"stages"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Clone returns a deep copy of the session so that callers can mutate the
// result without affecting the stored record.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	stages := make(map[int]Document, len(s.Stages))
	for k, v := range s.Stages {
		stages[k] = append(Document(nil), v...)
	}
	return &Session{
		ID:           s.ID,
		CurrentStage: s.CurrentStage,
		Stages:       stages,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// UserStore persists identity records.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrAlreadyExists if a user
	// with the same username is already present. Uniqueness is enforced
	// by the store itself, not by a racy check-then-insert in the caller.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByUsername returns ErrNotFound if no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// SessionStore persists session records.
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error

	// GetSession returns ErrNotFound if no session with that ID exists.
	GetSession(ctx context.Context, id string) (*Session, error)

	// UpdateSession replaces the stored record wholesale. Returns
	// ErrNotFound if the session does not exist.
	UpdateSession(ctx context.Context, session *Session) error
}

// Store combines both record collections. All backends implement it.
type Store interface {
	UserStore
	SessionStore
}
