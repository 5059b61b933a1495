package buffer

import (
	"fmt"
	"log/slog"
	"strings"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLogger sets the logger edits are reported to at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Buffer) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLeafUnits sets the maximum leaf size, in code units, used when the
// buffer builds a rope from whole text (constructors and Load).
func WithLeafUnits(units int) Option {
	return func(b *Buffer) {
		if units > 0 {
			b.leafUnits = units
		}
	}
}

// WithLineEnding sets the buffer's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithLF configures the buffer to use Unix line endings (\n).
func WithLF() Option {
	return WithLineEnding(LineEndingLF)
}

// WithCRLF configures the buffer to use Windows line endings (\r\n).
func WithCRLF() Option {
	return WithLineEnding(LineEndingCRLF)
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingAsIs if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlfCount++
			i++
		case text[i] == '\r':
			crCount++
		case text[i] == '\n':
			lfCount++
		}
	}

	switch {
	case crlfCount == 0 && crCount == 0 && lfCount == 0:
		return LineEndingAsIs
	case crlfCount >= lfCount && crlfCount >= crCount:
		return LineEndingCRLF
	case crCount > lfCount:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// WithDetectedLineEnding sets the buffer's line ending style based on content.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}

// ParseLineEnding parses a line ending name: "as-is" (or empty), "lf",
// "crlf" or "cr".
func ParseLineEnding(name string) (LineEnding, error) {
	switch strings.ToLower(name) {
	case "", "as-is", "asis":
		return LineEndingAsIs, nil
	case "lf":
		return LineEndingLF, nil
	case "crlf":
		return LineEndingCRLF, nil
	case "cr":
		return LineEndingCR, nil
	default:
		return LineEndingAsIs, fmt.Errorf("unknown line ending %q", name)
	}
}
