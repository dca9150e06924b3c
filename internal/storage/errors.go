package storage

import "errors"

// Shared store errors. Simulation records are immutable once written, so
// every backend treats a key collision as a caller bug rather than an update.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key already
	// exists. Records are append-only; there is no update path.
	ErrDuplicateKey = errors.New("duplicate key: records are append-only")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
