package history

import "github.com/dshills/textrope/internal/engine/buffer"

// GroupScope provides a convenient way to group edits using defer.
// Usage:
//
//	func indentBlock(h *History, buf *buffer.Buffer) {
//	    defer h.GroupScope("Indent").End()
//	    // ... multiple recorded edits ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group. A scope opened
// inside another group joins it, and its End and Cancel do nothing.
func (h *History) GroupScope(name string) *GroupScope {
	opened := !h.IsGrouping()
	if opened {
		h.BeginGroup(name)
	}
	return &GroupScope{
		history: h,
		active:  opened,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Cancel cancels the group scope without creating an undo entry.
func (g *GroupScope) Cancel() {
	if g.active {
		g.history.CancelGroup()
		g.active = false
	}
}

// Transaction runs fn as one undo unit. If fn fails, buf is restored to its
// content before the transaction and nothing is recorded.
//
// Inside an already open group the transaction joins that group: the outer
// group stays open, and a failure only rolls back the buffer.
func (h *History) Transaction(buf *buffer.Buffer, name string, fn func() error) error {
	before := buf.Snapshot()
	opened := !h.IsGrouping()
	if opened {
		h.BeginGroup(name)
	}

	if err := fn(); err != nil {
		if opened {
			h.CancelGroup()
		}
		buf.Restore(before)
		return err
	}

	if opened {
		h.EndGroup()
	}
	return nil
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes all edits since the checkpoint.
func (h *History) UndoToCheckpoint(cp Checkpoint, buf *buffer.Buffer) error {
	for h.UndoCount() > cp.undoDepth {
		if err := h.Undo(buf); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes edits until the undo depth reaches the checkpoint
// or there is nothing left to redo.
func (h *History) RedoToCheckpoint(cp Checkpoint, buf *buffer.Buffer) error {
	for h.UndoCount() < cp.undoDepth && h.CanRedo() {
		if err := h.Redo(buf); err != nil {
			return err
		}
	}
	return nil
}
