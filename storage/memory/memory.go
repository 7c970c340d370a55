// Package memory provides a thread-safe in-memory implementation of storage.Store.
package memory

import (
	"context"
	"sync"

	"github.com/mjharte/stagehand/storage"
)

// Store is a thread-safe in-memory implementation of storage.Store.
// Suitable for testing, demos, and single-process use cases.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*storage.User
	sessions map[string]*storage.Session
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a new empty in-memory Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*storage.User),
		sessions: make(map[string]*storage.Session),
	}
}

func cloneUser(u *storage.User) *storage.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (s *Store) CreateUser(_ context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The existence check and the insert happen under one lock, so two
	// concurrent registrations for the same username cannot both succeed.
	if _, ok := s.users[user.Username]; ok {
		return storage.ErrAlreadyExists
	}
	s.users[user.Username] = cloneUser(user)
	return nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) CreateSession(_ context.Context, session *storage.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (*storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return sess.Clone(), nil
}

func (s *Store) UpdateSession(_ context.Context, session *storage.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return storage.ErrNotFound
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}
