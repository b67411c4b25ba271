package history

import "errors"

var (
	// ErrNotFound indicates no record exists with the requested id.
	ErrNotFound = errors.New("history: record not found")
	// ErrWrongKind indicates a record exists but holds a different kind of payload.
	ErrWrongKind = errors.New("history: record has a different kind")
	// ErrEmptyKind indicates a save without a record kind.
	ErrEmptyKind = errors.New("history: record kind cannot be empty")
)
