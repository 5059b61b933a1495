package buffer

import (
	"fmt"

	"github.com/dshills/textrope/internal/engine/rope"
)

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It shares the buffer's rope root, so taking one costs a pointer copy and it
// never changes when the buffer is edited later.
type Snapshot struct {
	root       rope.Node
	revisionID RevisionID
}

// Snapshot returns a read-only view of the current content.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{root: b.root, revisionID: b.revisionID}
}

// Restore makes s the current content of the buffer, including its
// revision ID.
func (b *Buffer) Restore(s *Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.root = s.root
	b.revisionID = s.revisionID
	b.logger.Debug("buffer restore", "revision", s.revisionID.String())
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return rope.Collapse(s.root)
}

// TextRange returns the text in [start, end).
func (s *Snapshot) TextRange(start, end Offset) (string, error) {
	text, err := rope.CollapseSubstring(s.root, start, end)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRangeInvalid, err)
	}
	return text, nil
}

// Len returns the total length of the snapshot in code units.
func (s *Snapshot) Len() Offset {
	return rope.CalcTotalLength(s.root)
}

// RuneAt returns the rune starting at offset and its length in code units.
func (s *Snapshot) RuneAt(offset Offset) (rune, int, error) {
	return rope.RuneAt(s.root, offset)
}

// Root returns the rope root captured by the snapshot.
func (s *Snapshot) Root() rope.Node {
	return s.root
}

// RevisionID returns the revision the snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}
