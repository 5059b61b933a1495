package rope

import (
	"io"
	"strings"
	"unicode/utf16"
)

// DefaultLeafUnits is the leaf size used by FromString and a zero Builder.
const DefaultLeafUnits = 512

// MinLeafUnits is the smallest leaf size. It keeps leaves large enough that
// a surrogate pair always fits.
const MinLeafUnits = 2

// Builder accumulates text and builds a balanced rope from it.
// The zero value is ready to use.
type Builder struct {
	leafUnits int
	buf       []uint16
	leaves    []*Leaf
	total     int64
}

// NewBuilder creates a builder that cuts leaves of at most leafUnits code
// units. Values below 2 fall back to DefaultLeafUnits.
func NewBuilder(leafUnits int) *Builder {
	b := &Builder{}
	b.SetLeafUnits(leafUnits)
	return b
}

// SetLeafUnits changes the leaf size used for text written from now on.
func (b *Builder) SetLeafUnits(leafUnits int) {
	if leafUnits < MinLeafUnits {
		leafUnits = DefaultLeafUnits
	}
	b.leafUnits = leafUnits
}

func (b *Builder) limit() int {
	if b.leafUnits == 0 {
		return DefaultLeafUnits
	}
	return b.leafUnits
}

// WriteString appends s.
func (b *Builder) WriteString(s string) (int, error) {
	for _, r := range s {
		b.WriteRune(r)
	}
	return len(s), nil
}

// Write implements io.Writer. p is interpreted as UTF-8.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// WriteRune appends a single rune and returns its length in code units.
func (b *Builder) WriteRune(r rune) (int, error) {
	n := 1
	if r >= 0x10000 && r <= 0x10FFFF {
		n = 2
	}
	if len(b.buf)+n > b.limit() {
		b.flush()
	}
	b.buf = utf16.AppendRune(b.buf, r)
	b.total += int64(n)
	return n, nil
}

// ReadFrom implements io.ReaderFrom for UTF-8 input.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	var sb strings.Builder
	n, err := io.Copy(&sb, r)
	if err != nil {
		return n, err
	}
	b.WriteString(sb.String())
	return n, nil
}

// Len returns the number of code units written.
func (b *Builder) Len() int64 {
	return b.total
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.buf = nil
	b.leaves = nil
	b.total = 0
}

// Build returns the rope for everything written so far and resets the builder.
func (b *Builder) Build() Node {
	b.flush()
	leaves := b.leaves
	b.Reset()

	if len(leaves) == 0 {
		return Empty
	}
	return merge(leaves)
}

func (b *Builder) flush() {
	if len(b.buf) == 0 {
		return
	}
	b.leaves = append(b.leaves, leafOf(b.buf))
	b.buf = make([]uint16, 0, b.limit())
}

// FromString builds a balanced rope from s using DefaultLeafUnits.
func FromString(s string) Node {
	var b Builder
	b.WriteString(s)
	return b.Build()
}

// FromReader builds a balanced rope from UTF-8 text read from r.
func FromReader(r io.Reader) (Node, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// Join concatenates ropes with sep between them and rebalances the result.
func Join(ropes []Node, sep string) Node {
	if len(ropes) == 0 {
		return Empty
	}

	result := orEmpty(ropes[0])
	for _, r := range ropes[1:] {
		if sep != "" {
			result = ConcatString(result, sep)
		}
		result = Concat(result, orEmpty(r))
	}
	return Rebalance(result)
}
