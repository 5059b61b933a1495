package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrSnapshotNotFound indicates a named snapshot was not found.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
