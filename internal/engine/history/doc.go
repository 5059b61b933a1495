// Package history provides undo/redo for a buffer by keeping rope snapshots.
//
// Rope nodes are never mutated and every edit shares the untouched parts of
// the tree with the previous version, so keeping the text as it was before
// an edit costs a pointer, and undoing is a pointer swap. There is no
// inverse-operation bookkeeping.
//
// # History Stack
//
// The History type manages the undo and redo stacks:
//
//	h := history.NewHistory(1000) // Max 1000 undo entries
//
//	err := h.Record(buf, "insert greeting", func() error {
//	    _, err := buf.Insert(0, "hello")
//	    return err
//	})
//
//	h.Undo(buf) // buf is back to its previous text
//	h.Redo(buf) // and forward again
//
// # Grouping
//
// Several recorded edits can be combined into one undo unit:
//
//	h.BeginGroup("indent block")
//	// ... several Record calls ...
//	h.EndGroup()
//
// or, with defer:
//
//	defer h.GroupScope("indent block").End()
//
// Recording any new edit clears the redo stack.
package history
