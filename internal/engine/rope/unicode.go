package rope

import (
	"fmt"
	"unicode/utf16"
)

const (
	surrHighStart = 0xD800
	surrLowStart  = 0xDC00
	surrEnd       = 0xE000
)

func isHighSurrogate(u uint16) bool {
	return u >= surrHighStart && u < surrLowStart
}

func isLowSurrogate(u uint16) bool {
	return u >= surrLowStart && u < surrEnd
}

// RuneAt decodes the rune starting at code unit offset i and returns it
// with its length in code units (1 or 2).
//
// It returns ErrMidRune if i points at a low surrogate, or at a high
// surrogate that is not followed by a low surrogate.
func RuneAt(n Node, i int64) (rune, int, error) {
	u, err := Index(n, i)
	if err != nil {
		return 0, 0, err
	}

	switch {
	case !utf16.IsSurrogate(rune(u)):
		return rune(u), 1, nil
	case isLowSurrogate(u):
		return 0, 0, fmt.Errorf("%w: low surrogate at %d", ErrMidRune, i)
	}

	low, err := Index(n, i+1)
	if err != nil || !isLowSurrogate(low) {
		return 0, 0, fmt.Errorf("%w: unpaired high surrogate at %d", ErrMidRune, i)
	}
	return utf16.DecodeRune(rune(u), rune(low)), 2, nil
}

// TryGetRuneAt returns the rune starting at i. It reports false if i is out
// of range or does not start a complete rune.
func TryGetRuneAt(n Node, i int64) (rune, bool) {
	r, _, err := RuneAt(n, i)
	if err != nil {
		return 0, false
	}
	return r, true
}

// IsRuneBoundary reports whether splitting at i would keep every surrogate
// pair intact. The ends of the text are always boundaries.
func IsRuneBoundary(n Node, i int64) (bool, error) {
	total := CalcTotalLength(n)
	if i < 0 || i > total {
		return false, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, total)
	}
	if i == 0 || i == total {
		return true, nil
	}

	u, err := Index(n, i)
	if err != nil {
		return false, err
	}
	if !isLowSurrogate(u) {
		return true, nil
	}
	prev, err := Index(n, i-1)
	if err != nil {
		return false, err
	}
	return !isHighSurrogate(prev), nil
}

// RuneShiftLeft moves a code unit offset one rune to the left, stepping over
// both halves of a surrogate pair.
func RuneShiftLeft(n Node, i int64) (int64, error) {
	i--
	u, err := Index(n, i)
	if err != nil {
		return 0, err
	}
	if isLowSurrogate(u) && i > 0 {
		prev, err := Index(n, i-1)
		if err != nil {
			return 0, err
		}
		if isHighSurrogate(prev) {
			i--
		}
	}
	return i, nil
}

// RuneShiftRight moves a code unit offset one rune to the right, stepping
// over both halves of a surrogate pair.
func RuneShiftRight(n Node, i int64) (int64, error) {
	u, err := Index(n, i)
	if err != nil {
		return 0, err
	}
	if isHighSurrogate(u) {
		if next, err := Index(n, i+1); err == nil && isLowSurrogate(next) {
			return i + 2, nil
		}
	}
	return i + 1, nil
}
