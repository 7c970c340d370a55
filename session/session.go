// Package session implements the stage-progression core: a session walks a
// fixed three-stage range, either one step at a time or by jumping directly
// to a stage when its payload is written.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mjharte/stagehand/storage"
)

// Stage bounds. Transitions clamp to this range; there is no wraparound
// and no terminal state.
const (
	FirstStage = 1
	LastStage  = 3
)

// Direction names a relative stage move.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// Tracker owns session creation and stage transitions. Stateless; all
// durable state lives in the injected session store.
type Tracker struct {
	sessions storage.SessionStore
}

// NewTracker creates a session tracker over the given store.
func NewTracker(sessions storage.SessionStore) *Tracker {
	return &Tracker{sessions: sessions}
}

func emptyStages() map[int]storage.Document {
	stages := make(map[int]storage.Document, LastStage)
	for i := FirstStage; i <= LastStage; i++ {
		stages[i] = storage.EmptyDocument()
	}
	return stages
}

// Create persists a new session at stage 1 with all payloads empty.
// Every call creates a distinct session; there is no idempotency key.
func (t *Tracker) Create(ctx context.Context) (*storage.Session, error) {
	now := time.Now().UTC()
	s := &storage.Session{
		ID:           uuid.NewString(),
		CurrentStage: FirstStage,
		Stages:       emptyStages(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.sessions.CreateSession(ctx, s); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return s, nil
}

// Get returns the full session record, or storage.ErrNotFound.
func (t *Tracker) Get(ctx context.Context, id string) (*storage.Session, error) {
	return t.sessions.GetSession(ctx, id)
}

// SetStageData replaces the named stage's payload wholesale and force-sets
// the current stage to it. The jump may be non-adjacent; both this and the
// sequential MoveStage are part of the observable contract.
func (t *Tracker) SetStageData(ctx context.Context, id string, stage int, payload storage.Document) (*storage.Session, error) {
	if stage < FirstStage || stage > LastStage {
		return nil, ErrInvalidStage
	}
	s, err := t.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		payload = storage.EmptyDocument()
	}
	s.Stages[stage] = payload
	s.CurrentStage = stage
	s.UpdatedAt = time.Now().UTC()
	if err := t.sessions.UpdateSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// MoveStage shifts the current stage by one in the given direction and
// returns the new stage. Moving next at the last stage or previous at the
// first fails with ErrInvalidTransition.
func (t *Tracker) MoveStage(ctx context.Context, id string, direction Direction) (int, error) {
	if direction != DirectionNext && direction != DirectionPrevious {
		return 0, ErrInvalidDirection
	}
	s, err := t.sessions.GetSession(ctx, id)
	if err != nil {
		return 0, err
	}
	switch direction {
	case DirectionNext:
		if s.CurrentStage >= LastStage {
			return 0, fmt.Errorf("already at stage %d: %w", s.CurrentStage, ErrInvalidTransition)
		}
		s.CurrentStage++
	case DirectionPrevious:
		if s.CurrentStage <= FirstStage {
			return 0, fmt.Errorf("already at stage %d: %w", s.CurrentStage, ErrInvalidTransition)
		}
		s.CurrentStage--
	}
	s.UpdatedAt = time.Now().UTC()
	if err := t.sessions.UpdateSession(ctx, s); err != nil {
		return 0, err
	}
	return s.CurrentStage, nil
}
