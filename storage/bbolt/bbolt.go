// Package bbolt provides a BBolt-backed storage.Store.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/mjharte/stagehand/storage"
)

var (
	usersBucket    = []byte("users")
	sessionsBucket = []byte("sessions")
)

// Store implements storage.Store backed by a BBolt database.
// Users are keyed by username, sessions by ID; records are JSON-encoded.
type Store struct {
	db *bbolt.DB
}

var _ storage.Store = (*Store)(nil)

// NewStore returns a Store backed by the given BBolt database.
func NewStore(db *bbolt.DB) (*Store, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{usersBucket, sessionsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreFromFile opens a BBolt database at the given path and returns a new Store.
func NewStoreFromFile(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewStore(db)
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateUser(_ context.Context, user *storage.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(usersBucket)
		key := []byte(user.Username)
		// Check and insert run inside one write transaction, so the
		// uniqueness guarantee holds under concurrent registration.
		if b.Get(key) != nil {
			return storage.ErrAlreadyExists
		}
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*storage.User, error) {
	var user storage.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(usersBucket).Get([]byte(username))
		if data == nil {
			return fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
		}
		return json.Unmarshal(data, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateSession(_ context.Context, session *storage.Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		return tx.Bucket(sessionsBucket).Put([]byte(session.ID), data)
	})
}

func (s *Store) GetSession(_ context.Context, id string) (*storage.Session, error) {
	var session storage.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) UpdateSession(_ context.Context, session *storage.Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		key := []byte(session.ID)
		if b.Get(key) == nil {
			return fmt.Errorf("session %s: %w", session.ID, storage.ErrNotFound)
		}
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}
