// Package auth implements the credential core: registration, password
// authentication, and bearer token issue/verify.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/mjharte/stagehand/storage"
)

// Manager owns the credential lifecycle. It is stateless; all durable state
// lives in the injected user store.
type Manager struct {
	users storage.UserStore
}

// NewManager creates a credential manager over the given user store.
func NewManager(users storage.UserStore) *Manager {
	return &Manager{users: users}
}

// normalizeUsername trims surrounding whitespace and applies NFKC so that
// visually identical usernames map to one stored key.
func normalizeUsername(username string) string {
	return norm.NFKC.String(strings.TrimSpace(username))
}

// maxPasswordBytes is the bcrypt input limit. Longer passwords are
// truncated before hashing and before comparison, so registration and
// authentication agree on which prefix counts.
const maxPasswordBytes = 72

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// Register hashes the password and persists a new user. The store enforces
// username uniqueness; a conflict surfaces as storage.ErrAlreadyExists.
func (m *Manager) Register(ctx context.Context, username, password string) (*storage.User, error) {
	username = normalizeUsername(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &storage.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := m.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate looks up the user and compares the password against the
// stored bcrypt hash. A missing user and a wrong password return the same
// ErrInvalidCredentials so callers cannot enumerate usernames.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*storage.User, error) {
	user, err := m.users.GetUserByUsername(ctx, normalizeUsername(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
