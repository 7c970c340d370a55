package session

import "errors"

var (
	// ErrInvalidStage indicates a stage number outside [1,3].
	ErrInvalidStage = errors.New("stage must be between 1 and 3")
	// ErrInvalidDirection indicates a direction other than next/previous.
	ErrInvalidDirection = errors.New(`direction must be "next" or "previous"`)
	// ErrInvalidTransition indicates a move past a stage boundary.
	ErrInvalidTransition = errors.New("no stage in that direction")
)
