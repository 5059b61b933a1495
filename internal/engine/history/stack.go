package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/textrope/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when NewHistory is given a non-positive limit.
const DefaultMaxEntries = 1000

// Entry is one undo unit: the buffer content to return to and what the edit
// was called.
type Entry struct {
	Snapshot *buffer.Snapshot
	Label    string
	Time     time.Time
}

// History manages undo/redo state for a buffer.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	// Grouping state
	grouping    bool
	groupName   string
	groupBefore *buffer.Snapshot

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Record snapshots buf, runs fn and, if fn changed the buffer, pushes the
// snapshot so the change can be undone. If fn fails the buffer is put back
// the way it was and the error returned.
func (h *History) Record(buf *buffer.Buffer, label string, fn func() error) error {
	before := buf.Snapshot()
	if err := fn(); err != nil {
		buf.Restore(before)
		return err
	}
	if buf.RevisionID() == before.RevisionID() {
		return nil
	}

	h.Push(Entry{Snapshot: before, Label: label, Time: time.Now()})
	return nil
}

// Push adds an entry to the undo stack and clears the redo stack.
// While a group is open only the first entry's snapshot is kept.
func (h *History) Push(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		if h.groupBefore == nil {
			h.groupBefore = e.Snapshot
		}
		return
	}

	h.pushLocked(e)
}

// pushLocked adds an entry without acquiring the lock.
func (h *History) pushLocked(e Entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo restores the content buf had before the last recorded edit.
func (h *History) Undo(buf *buffer.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}

	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	h.redoStack = append(h.redoStack, Entry{Snapshot: buf.Snapshot(), Label: e.Label, Time: e.Time})
	buf.Restore(e.Snapshot)
	return nil
}

// Redo reapplies the last undone edit.
func (h *History) Redo(buf *buffer.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}

	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	h.undoStack = append(h.undoStack, Entry{Snapshot: buf.Snapshot(), Label: e.Label, Time: e.Time})
	buf.Restore(e.Snapshot)
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup starts an edit group.
// Edits recorded while grouping are combined into a single undo unit.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		// Already grouping, ignore nested calls
		return
	}

	h.grouping = true
	h.groupName = name
	h.groupBefore = nil
}

// EndGroup finishes an edit group, pushing one entry that undoes every edit
// recorded since BeginGroup.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}

	h.grouping = false
	if h.groupBefore != nil {
		h.pushLocked(Entry{Snapshot: h.groupBefore, Label: h.groupName, Time: time.Now()})
	}
	h.groupBefore = nil
}

// CancelGroup closes a group without adding to history.
// Edits already made still affect the buffer.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupBefore = nil
}

// IsGrouping returns true if currently in an edit group.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupBefore = nil
}

// PeekUndo returns the next undo entry without removing it.
func (h *History) PeekUndo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Entry{}, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// PeekRedo returns the next redo entry without removing it.
func (h *History) PeekRedo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Entry{}, false
	}
	return h.redoStack[len(h.redoStack)-1], true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(limit int) {
	if limit <= 0 {
		limit = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = limit
	if len(h.undoStack) > limit {
		h.undoStack = h.undoStack[len(h.undoStack)-limit:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
