package storage

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a unique-key conflict on insert.
	ErrAlreadyExists = errors.New("record already exists")
)
