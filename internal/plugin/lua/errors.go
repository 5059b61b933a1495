package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrCallLimit is returned when a script makes more host calls than allowed.
	ErrCallLimit = errors.New("lua host call limit exceeded")
)
