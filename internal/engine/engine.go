package engine

import (
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dshills/textrope/internal/engine/buffer"
	"github.com/dshills/textrope/internal/engine/history"
	"github.com/dshills/textrope/internal/engine/rope"
)

// Re-export commonly used types for convenience.
type (
	// Offset is a position in UTF-16 code units.
	Offset = buffer.Offset

	// Range is a range of code units.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// EditResult contains information about a completed edit.
	EditResult = buffer.EditResult

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID
)

// Engine is the main facade for the text engine.
// It combines a buffer with undo/redo and named snapshots.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	buf       *buffer.Buffer
	history   *history.History
	snapshots map[string]*buffer.Snapshot
	logger    *slog.Logger

	// Configuration
	lineEnding     buffer.LineEnding
	maxUndoEntries int
	leafUnits      int
	readOnly       bool

	initContent string
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		snapshots:      make(map[string]*buffer.Snapshot),
		logger:         slog.New(slog.DiscardHandler),
		maxUndoEntries: DefaultMaxUndoEntries,
		leafUnits:      DefaultLeafUnits,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = history.NewHistory(e.maxUndoEntries)
	return e
}

func (e *Engine) bufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithLineEnding(e.lineEnding),
		buffer.WithLeafUnits(e.leafUnits),
		buffer.WithLogger(e.logger),
	}
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, e.bufferOptions()...)
	return e
}

// NewFromReader creates an Engine from text read from r.
func NewFromReader(r io.Reader, enc buffer.Encoding, opts ...Option) (*Engine, error) {
	e := newEngine(opts)

	var err error
	e.buf, err = buffer.NewBufferFromReader(r, enc, e.bufferOptions()...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Read Operations

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// TextRange returns the text in [start, end).
func (e *Engine) TextRange(start, end Offset) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TextRange(start, end)
}

// Len returns the total length of the buffer in code units.
func (e *Engine) Len() Offset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// RuneAt returns the rune starting at offset and its length in code units.
func (e *Engine) RuneAt(offset Offset) (rune, int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RuneAt(offset)
}

// IsEmpty returns true if the buffer is empty.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsEmpty()
}

// Stats describes the shape of the current rope.
func (e *Engine) Stats() rope.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Stats()
}

// Root returns the current rope root (immutable).
func (e *Engine) Root() rope.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Root()
}

// Motion

// NextRune returns the offset one rune after offset.
func (e *Engine) NextRune(offset Offset) (Offset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.NextRune(offset)
}

// PrevRune returns the offset one rune before offset.
func (e *Engine) PrevRune(offset Offset) (Offset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.PrevRune(offset)
}

// NextGrapheme returns the offset just past the grapheme cluster at offset.
func (e *Engine) NextGrapheme(offset Offset) (Offset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.NextGrapheme(offset)
}

// PrevGrapheme returns the start of the grapheme cluster ending at offset.
func (e *Engine) PrevGrapheme(offset Offset) (Offset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.PrevGrapheme(offset)
}

// Buffer returns the underlying buffer.
func (e *Engine) Buffer() *buffer.Buffer {
	return e.buf
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (e *Engine) Insert(offset Offset, text string) (Offset, error) {
	var end Offset
	err := e.record("insert", func() error {
		var err error
		end, err = e.buf.Insert(offset, text)
		return err
	})
	return end, err
}

// Delete removes text in the given range.
func (e *Engine) Delete(start, end Offset) error {
	return e.record("delete", func() error {
		return e.buf.Delete(start, end)
	})
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (e *Engine) Replace(start, end Offset, text string) (Offset, error) {
	var newEnd Offset
	err := e.record("replace", func() error {
		var err error
		newEnd, err = e.buf.Replace(start, end, text)
		return err
	})
	return newEnd, err
}

// ApplyEdit applies a single edit as one undo unit.
func (e *Engine) ApplyEdit(edit Edit) (EditResult, error) {
	var result EditResult
	err := e.record(edit.String(), func() error {
		var err error
		result, err = e.buf.ApplyEdit(edit)
		return err
	})
	return result, err
}

// ApplyEdits applies multiple edits, highest offset first, as one undo unit.
func (e *Engine) ApplyEdits(edits []Edit) error {
	return e.record("multi-edit", func() error {
		return e.buf.ApplyEdits(edits)
	})
}

// record runs fn under the write lock and adds it to undo history.
func (e *Engine) record(label string, fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Record(e.buf, label, fn)
}

// Rebalance rebalances the rope root. The text does not change and no undo
// entry is recorded.
func (e *Engine) Rebalance() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.Rebalance()
}

// Undo/Redo Operations

// Undo undoes the last operation.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Undo(e.buf)
}

// Redo redoes the last undone operation.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Redo(e.buf)
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo operations.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// BeginUndoGroup starts a new undo group.
// All operations until EndUndoGroup will be undone as a single unit.
func (e *Engine) BeginUndoGroup(name string) {
	e.history.BeginGroup(name)
}

// EndUndoGroup ends the current undo group.
func (e *Engine) EndUndoGroup() {
	e.history.EndGroup()
}

// CancelUndoGroup cancels the current undo group without recording.
func (e *Engine) CancelUndoGroup() {
	e.history.CancelGroup()
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

// Named Snapshots

// CreateSnapshot stores the current content under name, replacing any
// snapshot already stored there.
func (e *Engine) CreateSnapshot(name string) *buffer.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.buf.Snapshot()
	e.snapshots[name] = snap
	return snap
}

// GetSnapshot returns the snapshot stored under name.
func (e *Engine) GetSnapshot(name string) (*buffer.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap, ok := e.snapshots[name]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// RestoreSnapshot makes the snapshot stored under name the current content.
// The restore itself can be undone.
func (e *Engine) RestoreSnapshot(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	snap, ok := e.snapshots[name]
	if !ok {
		return ErrSnapshotNotFound
	}

	before := e.buf.Snapshot()
	e.buf.Restore(snap)
	e.history.Push(history.Entry{Snapshot: before, Label: "restore " + name, Time: time.Now()})
	return nil
}

// DeleteSnapshot removes the snapshot stored under name.
func (e *Engine) DeleteSnapshot(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.snapshots, name)
}

// ListSnapshots returns the names of all stored snapshots in sorted order.
func (e *Engine) ListSnapshots() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.snapshots))
	for name := range e.snapshots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Buffer State

// RevisionID returns the current revision ID.
func (e *Engine) RevisionID() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RevisionID()
}

// LineEnding returns the line ending style.
func (e *Engine) LineEnding() LineEnding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEnding()
}

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// Snapshot returns a read-only snapshot of the current buffer state.
func (e *Engine) Snapshot() *buffer.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// Save writes the content to w in the given encoding.
func (e *Engine) Save(w io.Writer, enc buffer.Encoding) error {
	return e.Snapshot().Save(w, enc)
}

// Clear and Reset

// SetContent replaces all content and resets history.
func (e *Engine) SetContent(content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}

	if _, err := e.buf.Replace(0, e.buf.Len(), content); err != nil {
		return err
	}
	e.history.Clear()
	return nil
}

// Clear removes all content from the buffer and resets history.
func (e *Engine) Clear() error {
	return e.SetContent("")
}
