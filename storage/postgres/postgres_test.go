package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjharte/stagehand/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("STAGEHAND_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("STAGEHAND_TEST_POSTGRES_DSN not set; skipping PostgreSQL tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(ctx, pool))

	// Clean tables for test isolation.
	pool.Exec(ctx, "DELETE FROM users")    //nolint:errcheck
	pool.Exec(ctx, "DELETE FROM sessions") //nolint:errcheck

	t.Cleanup(func() {
		pool.Exec(ctx, "DELETE FROM users")    //nolint:errcheck
		pool.Exec(ctx, "DELETE FROM sessions") //nolint:errcheck
		pool.Close()
	})
	return NewStore(pool)
}

func testSession() *storage.Session {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &storage.Session{
		ID:           uuid.NewString(),
		CurrentStage: 1,
		Stages: map[int]storage.Document{
			1: storage.EmptyDocument(),
			2: storage.EmptyDocument(),
			3: storage.EmptyDocument(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserUniqueConstraint(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	user := &storage.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		PasswordHash: "$2a$10$examplehash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	// The unique index, not an application-level check, rejects the
	// second insert.
	dup := &storage.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		PasswordHash: "other",
		CreatedAt:    time.Now().UTC(),
	}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), storage.ErrAlreadyExists)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	sess := testSession()
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStage)
	require.Len(t, got.Stages, 3)

	got.CurrentStage = 3
	got.Stages[3] = storage.Document(`{"done":true}`)
	got.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.UpdateSession(ctx, got))

	got2, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got2.CurrentStage)
	assert.JSONEq(t, `{"done":true}`, string(got2.Stages[3]))

	_, err = s.GetSession(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	missing := testSession()
	assert.ErrorIs(t, s.UpdateSession(ctx, missing), storage.ErrNotFound)
}
