package storage

import "errors"

// Storage errors shared by every implementation.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key already
	// exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrScenarioCapacity is returned when a portfolio already holds the
	// maximum number of scenarios. The insert is refused; nothing is
	// evicted.
	ErrScenarioCapacity = errors.New("scenario capacity reached")
)
