package rope

import (
	"iter"
	"unicode/utf16"
	"unicode/utf8"
)

// LeafIterator walks the leaves of a rope in order, forward or in reverse.
// It keeps an explicit stack of branches instead of recursing, so its stack
// use is bounded by tree depth on the heap rather than the call stack.
type LeafIterator struct {
	stack   []*Branch
	pending Node // subtree to descend into on the next call
	reverse bool

	leaf   *Leaf
	offset int64 // code unit offset of the current leaf
	end    int64 // reverse: offset just past the current leaf
}

// NewLeafIterator returns an iterator over the leaves of n from left to right.
func NewLeafIterator(n Node) *LeafIterator {
	return &LeafIterator{
		stack:   make([]*Branch, 0, 16),
		pending: n,
	}
}

// NewReverseLeafIterator returns an iterator over the leaves of n from right
// to left.
func NewReverseLeafIterator(n Node) *LeafIterator {
	return &LeafIterator{
		stack:   make([]*Branch, 0, 16),
		pending: n,
		reverse: true,
		end:     CalcTotalLength(n),
	}
}

// Next advances to the next leaf.
// Returns true if there is a leaf, false if iteration is complete.
func (it *LeafIterator) Next() bool {
	if it.leaf != nil {
		if it.reverse {
			it.end = it.offset
		} else {
			it.offset += int64(it.leaf.Len())
		}
		it.leaf = nil
	}

	for {
		if it.pending != nil {
			n := it.pending
			it.pending = nil
			if leaf := it.descend(n); leaf != nil {
				it.leaf = leaf
				if it.reverse {
					it.offset = it.end - int64(leaf.Len())
				}
				return true
			}
			continue
		}

		if len(it.stack) == 0 {
			return false
		}
		b := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if it.reverse {
			it.pending = b.left
		} else {
			it.pending = b.right
		}
	}
}

// descend pushes branches on the way down to the first leaf in iteration
// order. In reverse mode a branch without a right child yields no leaf; its
// left child is reached when the branch is popped.
func (it *LeafIterator) descend(n Node) *Leaf {
	for n != nil {
		switch cur := n.(type) {
		case *Branch:
			it.stack = append(it.stack, cur)
			if it.reverse {
				n = cur.right
			} else {
				n = cur.left
			}
		case *Leaf:
			return cur
		default:
			invalidNode(n)
		}
	}
	return nil
}

// Leaf returns the current leaf.
func (it *LeafIterator) Leaf() *Leaf {
	return it.leaf
}

// Offset returns the code unit offset of the start of the current leaf.
func (it *LeafIterator) Offset() int64 {
	return it.offset
}

// Leaves returns a sequence over the leaves of n from left to right.
func Leaves(n Node) iter.Seq[*Leaf] {
	return func(yield func(*Leaf) bool) {
		it := NewLeafIterator(n)
		for it.Next() {
			if !yield(it.Leaf()) {
				return
			}
		}
	}
}

// LeavesReverse returns a sequence over the leaves of n from right to left.
func LeavesReverse(n Node) iter.Seq[*Leaf] {
	return func(yield func(*Leaf) bool) {
		it := NewReverseLeafIterator(n)
		for it.Next() {
			if !yield(it.Leaf()) {
				return
			}
		}
	}
}

// Runes returns a sequence over the runes of n from left to right.
// Unpaired surrogates are reported as utf8.RuneError. A surrogate pair that
// spans two leaves decodes as one rune.
func Runes(n Node) iter.Seq[rune] {
	return RunesFrom(n, 0)
}

// RunesFrom is like Runes but skips runes that start before code unit
// offset start. Leaves entirely before start are skipped without decoding,
// but finding them is still a linear walk from the left edge.
func RunesFrom(n Node, start int64) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		emit := func(r rune, at, _ int64) bool {
			if at < start {
				return true
			}
			return yield(r)
		}

		var dec forwardDecoder
		it := NewLeafIterator(n)
		for it.Next() {
			leaf, off := it.Leaf(), it.Offset()
			end := off + int64(leaf.Len())
			if end < start && !dec.pending && !endsWithHigh(leaf) {
				continue
			}
			for i, u := range leaf.units {
				if !dec.feed(u, off+int64(i), emit) {
					return
				}
			}
		}
		dec.flush(emit)
	}
}

// RunesReverse returns a sequence over the runes of n from right to left.
func RunesReverse(n Node) iter.Seq[rune] {
	return RunesReverseFrom(n, CalcTotalLength(n))
}

// RunesReverseFrom yields, from right to left, the runes that end at or
// before code unit offset end. Like RunesFrom it reaches the starting point
// by a linear walk.
func RunesReverseFrom(n Node, end int64) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		emit := func(r rune, _, stop int64) bool {
			if stop > end {
				return true
			}
			return yield(r)
		}

		var dec reverseDecoder
		it := NewReverseLeafIterator(n)
		for it.Next() {
			leaf, off := it.Leaf(), it.Offset()
			if off > end && !dec.pending && !startsWithLow(leaf) {
				continue
			}
			for i := len(leaf.units) - 1; i >= 0; i-- {
				if !dec.feed(leaf.units[i], off+int64(i), emit) {
					return
				}
			}
		}
		dec.flush(emit)
	}
}

// emitFunc receives a decoded rune and the code unit range [start, end) it
// occupies. Returning false stops decoding.
type emitFunc func(r rune, start, end int64) bool

// forwardDecoder turns a left-to-right stream of code units into runes,
// holding back a high surrogate until its partner arrives.
type forwardDecoder struct {
	pending bool
	high    uint16
	highAt  int64
}

func (d *forwardDecoder) feed(u uint16, at int64, emit emitFunc) bool {
	if d.pending {
		d.pending = false
		if isLowSurrogate(u) {
			return emit(utf16.DecodeRune(rune(d.high), rune(u)), d.highAt, at+1)
		}
		if !emit(utf8.RuneError, d.highAt, d.highAt+1) {
			return false
		}
	}

	switch {
	case isHighSurrogate(u):
		d.pending, d.high, d.highAt = true, u, at
		return true
	case isLowSurrogate(u):
		return emit(utf8.RuneError, at, at+1)
	default:
		return emit(rune(u), at, at+1)
	}
}

func (d *forwardDecoder) flush(emit emitFunc) bool {
	if !d.pending {
		return true
	}
	d.pending = false
	return emit(utf8.RuneError, d.highAt, d.highAt+1)
}

// reverseDecoder is the right-to-left counterpart of forwardDecoder: it
// holds back a low surrogate until the preceding unit is seen.
type reverseDecoder struct {
	pending bool
	low     uint16
	lowAt   int64
}

func (d *reverseDecoder) feed(u uint16, at int64, emit emitFunc) bool {
	if d.pending {
		d.pending = false
		if isHighSurrogate(u) {
			return emit(utf16.DecodeRune(rune(u), rune(d.low)), at, d.lowAt+1)
		}
		if !emit(utf8.RuneError, d.lowAt, d.lowAt+1) {
			return false
		}
	}

	switch {
	case isLowSurrogate(u):
		d.pending, d.low, d.lowAt = true, u, at
		return true
	case isHighSurrogate(u):
		return emit(utf8.RuneError, at, at+1)
	default:
		return emit(rune(u), at, at+1)
	}
}

func (d *reverseDecoder) flush(emit emitFunc) bool {
	if !d.pending {
		return true
	}
	d.pending = false
	return emit(utf8.RuneError, d.lowAt, d.lowAt+1)
}

func endsWithHigh(l *Leaf) bool {
	return len(l.units) > 0 && isHighSurrogate(l.units[len(l.units)-1])
}

func startsWithLow(l *Leaf) bool {
	return len(l.units) > 0 && isLowSurrogate(l.units[0])
}
