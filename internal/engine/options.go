package engine

import (
	"log/slog"

	"github.com/dshills/textrope/internal/engine/buffer"
	"github.com/dshills/textrope/internal/engine/history"
	"github.com/dshills/textrope/internal/engine/rope"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = history.DefaultMaxEntries
	DefaultLeafUnits      = rope.DefaultLeafUnits
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithLineEnding sets the line ending style for the engine.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.maxUndoEntries = limit
		}
	}
}

// WithLeafUnits sets the leaf size used when whole texts are loaded.
func WithLeafUnits(units int) Option {
	return func(e *Engine) {
		if units > 0 {
			e.leafUnits = units
		}
	}
}

// WithLogger sets the logger shared with the buffer.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithReadOnly makes the engine reject all edits.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
