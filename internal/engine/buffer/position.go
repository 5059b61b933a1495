package buffer

import (
	"fmt"
	"unicode/utf16"

	"github.com/google/uuid"
)

// Offset is a position in the buffer measured in UTF-16 code units.
type Offset = int64

// Range represents a range of code units in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start Offset // Inclusive start position
	End   Offset // Exclusive end position
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end Offset) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in code units.
func (r Range) Len() Offset {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is valid (Start <= End).
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset Offset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if this range overlaps with another range.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Shift returns a new range shifted by the given delta.
func (r Range) Shift(delta Offset) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision; restoring a
// snapshot brings its revision back.
type RevisionID uuid.UUID

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(uuid.New())
}

// String returns the canonical UUID form of the revision.
func (id RevisionID) String() string {
	return uuid.UUID(id).String()
}

// TextLen returns the length of s in UTF-16 code units, which is the amount
// an insertion of s advances an offset.
func TextLen(s string) Offset {
	var n Offset
	for _, r := range s {
		n += Offset(utf16.RuneLen(r))
	}
	return n
}
