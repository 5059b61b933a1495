package buffer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dshills/textrope/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
	ErrSplitsRune       = errors.New("offset splits a surrogate pair")
)

// LineEnding specifies the line ending style applied to inserted text.
type LineEnding uint8

const (
	LineEndingAsIs LineEnding = iota // Keep whatever the text contains
	LineEndingLF                     // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "as-is"
	}
}

// Sequence returns the actual line ending characters.
// LineEndingAsIs has no sequence of its own and reports "\n".
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer wraps a rope root with editor functionality.
// It provides the primary interface for text manipulation.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	root       rope.Node
	revisionID RevisionID
	lineEnding LineEnding
	leafUnits  int
	logger     *slog.Logger
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		root:       rope.Empty,
		revisionID: NewRevisionID(),
		lineEnding: LineEndingAsIs,
		leafUnits:  rope.DefaultLeafUnits,
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.root = b.build(b.normalizeLineEndings(s))
	return b
}

// build splits s into leaves of the buffer's leaf size.
func (b *Buffer) build(s string) rope.Node {
	rb := rope.NewBuilder(b.leafUnits)
	_, _ = rb.WriteString(s)
	return rb.Build()
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	if b.lineEnding == LineEndingAsIs || !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding != LineEndingLF {
		s = strings.ReplaceAll(s, "\n", b.lineEnding.Sequence())
	}
	return s
}

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer TextRange or the rope iterators over Root.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return rope.Collapse(b.root)
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end Offset) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkRange(start, end, false); err != nil {
		return "", err
	}
	return rope.CollapseSubstring(b.root, start, end)
}

// Len returns the total length of the buffer in code units.
func (b *Buffer) Len() Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return rope.CalcTotalLength(b.root)
}

// RuneAt returns the rune starting at offset and its length in code units.
func (b *Buffer) RuneAt(offset Offset) (rune, int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return rope.RuneAt(b.root, offset)
}

// Root returns the current rope root. The node is immutable and stays valid
// after later edits.
func (b *Buffer) Root() rope.Node {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.root
}

// Stats describes the shape of the current rope.
func (b *Buffer) Stats() rope.Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return rope.Measure(b.root)
}

// Validation

// checkOffset verifies that offset lies in [0, Len] and, when boundary is
// set, that it does not fall between the halves of a surrogate pair.
func (b *Buffer) checkOffset(offset Offset, boundary bool) error {
	total := rope.CalcTotalLength(b.root)
	if offset < 0 || offset > total {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, offset, total)
	}
	if !boundary {
		return nil
	}
	ok, err := rope.IsRuneBoundary(b.root, offset)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: at %d", ErrSplitsRune, offset)
	}
	return nil
}

// checkRange verifies that [start, end) is a valid range of the buffer.
func (b *Buffer) checkRange(start, end Offset, boundary bool) error {
	total := rope.CalcTotalLength(b.root)
	if start < 0 || start > end || end > total {
		return fmt.Errorf("%w: [%d:%d) in buffer of length %d", ErrRangeInvalid, start, end, total)
	}
	if err := b.checkOffset(start, boundary); err != nil {
		return err
	}
	return b.checkOffset(end, boundary)
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset Offset, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOffset(offset, true); err != nil {
		return 0, err
	}

	text = b.normalizeLineEndings(text)
	root, err := rope.Insert(b.root, offset, text)
	if err != nil {
		return 0, err
	}
	b.commit(root, "insert", offset, offset)

	return offset + TextLen(text), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end Offset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(start, end, true); err != nil {
		return err
	}

	root, err := rope.Delete(b.root, start, end-start)
	if err != nil {
		return err
	}
	b.commit(root, "delete", start, end)

	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end Offset, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(start, end, true); err != nil {
		return 0, err
	}

	text = b.normalizeLineEndings(text)
	root, err := rope.ReplaceSubstring(b.root, start, end-start, text)
	if err != nil {
		return 0, err
	}
	b.commit(root, "replace", start, end)

	return start + TextLen(text), nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(edit.Range.Start, edit.Range.End, true); err != nil {
		return EditResult{}, err
	}

	oldText, err := rope.CollapseSubstring(b.root, edit.Range.Start, edit.Range.End)
	if err != nil {
		return EditResult{}, err
	}
	text := b.normalizeLineEndings(edit.NewText)
	root, err := rope.ReplaceSubstring(b.root, edit.Range.Start, edit.Range.Len(), text)
	if err != nil {
		return EditResult{}, err
	}
	b.commit(root, "edit", edit.Range.Start, edit.Range.End)

	newEnd := edit.Range.Start + TextLen(text)
	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  oldText,
		Delta:    TextLen(text) - edit.Range.Len(),
	}, nil
}

// ApplyEdits applies multiple edits atomically.
// Edits must be in reverse order (highest offset first) so that applying one
// never moves the range of the next.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}

	for _, edit := range edits {
		if err := b.checkRange(edit.Range.Start, edit.Range.End, true); err != nil {
			return err
		}
	}

	root := b.root
	for _, edit := range edits {
		var err error
		text := b.normalizeLineEndings(edit.NewText)
		root, err = rope.ReplaceSubstring(root, edit.Range.Start, edit.Range.Len(), text)
		if err != nil {
			return err
		}
	}
	b.commit(root, "edits", edits[len(edits)-1].Range.Start, edits[0].Range.End)

	return nil
}

// Rebalance rebalances the current root. Edits already keep the root
// balanced; this exists for roots installed through Restore.
func (b *Buffer) Rebalance() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.root = rope.Rebalance(b.root)
}

// commit installs a new root. Callers hold the write lock.
func (b *Buffer) commit(root rope.Node, op string, start, end Offset) {
	b.root = rope.Rebalance(root)
	b.revisionID = NewRevisionID()
	b.logger.Debug("buffer edit",
		"op", op,
		"start", start,
		"end", end,
		"len", rope.CalcTotalLength(b.root),
		"depth", b.root.Depth(),
	)
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return rope.IsEmpty(b.root)
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding sets the buffer's line ending style.
// This does not convert existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}
