// Package postgres implements storage.Store backed by PostgreSQL.
//
// The users table carries a unique index on username, so registration
// conflicts surface as duplicate-key violations instead of relying on a
// non-atomic check-then-insert. Stage payloads are stored as JSONB.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mjharte/stagehand/storage"
)

// uniqueViolation is the PostgreSQL error code for duplicate-key conflicts.
const uniqueViolation = "23505"

// Store implements storage.Store backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

// NewStore returns a Store backed by the given pgx connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// NewStoreFromDSN creates a connection pool from a DSN string, ensures the
// schema exists, and returns a new Store.
func NewStoreFromDSN(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return NewStore(pool), nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) CreateUser(ctx context.Context, user *storage.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	var user storage.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`,
		username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

func (s *Store) CreateSession(ctx context.Context, session *storage.Session) error {
	stages, err := json.Marshal(session.Stages)
	if err != nil {
		return fmt.Errorf("encoding stages: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, current_stage, stages, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.CurrentStage, stages, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*storage.Session, error) {
	var (
		session storage.Session
		stages  []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, current_stage, stages, created_at, updated_at FROM sessions WHERE id = $1`,
		id).Scan(&session.ID, &session.CurrentStage, &stages, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	if err := json.Unmarshal(stages, &session.Stages); err != nil {
		return nil, fmt.Errorf("decoding stages: %w", err)
	}
	return &session, nil
}

func (s *Store) UpdateSession(ctx context.Context, session *storage.Session) error {
	stages, err := json.Marshal(session.Stages)
	if err != nil {
		return fmt.Errorf("encoding stages: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions SET current_stage = $2, stages = $3, updated_at = $4 WHERE id = $1`,
		session.ID, session.CurrentStage, stages, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", session.ID, storage.ErrNotFound)
	}
	return nil
}
