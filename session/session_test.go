package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjharte/stagehand/session"
	"github.com/mjharte/stagehand/storage"
	"github.com/mjharte/stagehand/storage/memory"
)

func TestCreate(t *testing.T) {
	tr := session.NewTracker(memory.NewStore())

	s, err := tr.Create(t.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, session.FirstStage, s.CurrentStage)
	require.Len(t, s.Stages, 3)
	for i := session.FirstStage; i <= session.LastStage; i++ {
		assert.JSONEq(t, "{}", string(s.Stages[i]))
	}
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, s.CreatedAt, s.UpdatedAt)

	// Creation is never idempotent.
	other, err := tr.Create(t.Context())
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)
}

func TestGetNotFound(t *testing.T) {
	tr := session.NewTracker(memory.NewStore())

	_, err := tr.Get(t.Context(), "no-such-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetStageDataJumps(t *testing.T) {
	tr := session.NewTracker(memory.NewStore())
	ctx := t.Context()

	s, err := tr.Create(ctx)
	require.NoError(t, err)

	// A direct write to stage 3 is allowed even though the session is at
	// stage 1; the jump need not be adjacent.
	updated, err := tr.SetStageData(ctx, s.ID, 3, storage.Document(`{"x":1}`))
	require.NoError(t, err)
	assert.Equal(t, 3, updated.CurrentStage)

	got, err := tr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentStage)
	assert.JSONEq(t, `{"x":1}`, string(got.Stages[3]))
	assert.JSONEq(t, "{}", string(got.Stages[1]))
	assert.JSONEq(t, "{}", string(got.Stages[2]))
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestSetStageDataReplacesWholesale(t *testing.T) {
	tr := session.NewTracker(memory.NewStore())
	ctx := t.Context()

	s, err := tr.Create(ctx)
	require.NoError(t, err)

	_, err = tr.SetStageData(ctx, s.ID, 2, storage.Document(`{"a":1,"b":2}`))
	require.NoError(t, err)

	// The second write replaces the payload, it does not merge.
	_, err = tr.SetStageData(ctx, s.ID, 2, storage.Document(`{"c":3}`))
	require.NoError(t, err)

	got, err := tr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":3}`, string(got.Stages[2]))
}

func TestSetStageDataValidation(t *testing.T) {
	tr := session.NewTracker(memory.NewStore())
	ctx := t.Context()

	s, err := tr.Create(ctx)
	require.NoError(t, err)

	_, err = tr.SetStageData(ctx, s.ID, 0, nil)
	assert.ErrorIs(t, err, session.ErrInvalidStage)

	_, err = tr.SetStageData(ctx, s.ID, 4, nil)
	assert.ErrorIs(t, err, session.ErrInvalidStage)

	_, err = tr.SetStageData(ctx, "no-such-id", 2, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// A nil payload stores the empty document.
	updated, err := tr.SetStageData(ctx, s.ID, 2, nil)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(updated.Stages[2]))
}

func TestMoveStageWalksTheFullRange(t *testing.T) {
	tr := session.NewTracker(memory.NewStore())
	ctx := t.Context()

	s, err := tr.Create(ctx)
	require.NoError(t, err)

	// Forward to the last stage, then clamp.
	for want := 2; want <= session.LastStage; want++ {
		stage, err := tr.MoveStage(ctx, s.ID, session.DirectionNext)
		require.NoError(t, err)
		assert.Equal(t, want, stage)
	}
	_, err = tr.MoveStage(ctx, s.ID, session.DirectionNext)
	assert.ErrorIs(t, err, session.ErrInvalidTransition)

	// Back to the first stage, then clamp.
	for want := 2; want >= session.FirstStage; want-- {
		stage, err := tr.MoveStage(ctx, s.ID, session.DirectionPrevious)
		require.NoError(t, err)
		assert.Equal(t, want, stage)
	}
	_, err = tr.MoveStage(ctx, s.ID, session.DirectionPrevious)
	assert.ErrorIs(t, err, session.ErrInvalidTransition)
}

func TestMoveStageValidation(t *testing.T) {
	tr := session.NewTracker(memory.NewStore())
	ctx := t.Context()

	s, err := tr.Create(ctx)
	require.NoError(t, err)

	_, err = tr.MoveStage(ctx, s.ID, session.Direction("sideways"))
	assert.ErrorIs(t, err, session.ErrInvalidDirection)

	_, err = tr.MoveStage(ctx, "no-such-id", session.DirectionNext)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
