package rope

import "errors"

// Errors returned by rope operations.
var (
	// ErrIndexOutOfRange indicates an index or range outside the text.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMidRune indicates a read that starts inside a surrogate pair or
	// lands on an unpaired surrogate.
	ErrMidRune = errors.New("position is not at the start of a rune")
)
