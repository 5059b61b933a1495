package buffer

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/textrope/internal/engine/rope"
)

// graphemeWindow is the initial number of code units examined around a
// cursor when looking for a grapheme cluster boundary. The window doubles
// until the cluster fits inside it.
const graphemeWindow = 64

// NextRune returns the offset one rune after offset. A surrogate pair counts
// as one rune. At the end of the buffer the offset is returned unchanged.
func (b *Buffer) NextRune(offset Offset) (Offset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkOffset(offset, false); err != nil {
		return 0, err
	}
	if offset == rope.CalcTotalLength(b.root) {
		return offset, nil
	}
	return rope.RuneShiftRight(b.root, offset)
}

// PrevRune returns the offset one rune before offset. At the start of the
// buffer the offset is returned unchanged.
func (b *Buffer) PrevRune(offset Offset) (Offset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkOffset(offset, false); err != nil {
		return 0, err
	}
	if offset == 0 {
		return 0, nil
	}
	return rope.RuneShiftLeft(b.root, offset)
}

// NextGrapheme returns the offset just past the grapheme cluster that starts
// at offset, so that "e" followed by a combining accent or a flag emoji is
// crossed in one step.
func (b *Buffer) NextGrapheme(offset Offset) (Offset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkOffset(offset, true); err != nil {
		return 0, err
	}

	total := rope.CalcTotalLength(b.root)
	for window := Offset(graphemeWindow); ; window *= 2 {
		if offset == total {
			return offset, nil
		}
		end := min(total, offset+window)
		end = b.boundaryAfter(end)

		text, err := rope.CollapseSubstring(b.root, offset, end)
		if err != nil {
			return 0, err
		}
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(text, -1)
		next := offset + TextLen(cluster)
		if next < end || end == total {
			return next, nil
		}
	}
}

// PrevGrapheme returns the offset where the grapheme cluster ending at
// offset begins.
func (b *Buffer) PrevGrapheme(offset Offset) (Offset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkOffset(offset, true); err != nil {
		return 0, err
	}

	for window := Offset(graphemeWindow); ; window *= 2 {
		if offset == 0 {
			return 0, nil
		}
		start := b.boundaryBefore(max(0, offset-window))

		text, err := rope.CollapseSubstring(b.root, start, offset)
		if err != nil {
			return 0, err
		}

		last := start
		pos := start
		state := -1
		for text != "" {
			var cluster string
			cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
			last = pos
			pos += TextLen(cluster)
		}
		if last > start || start == 0 {
			return last, nil
		}
	}
}

// DisplayWidth returns the number of monospace cells the text in
// [start, end) occupies.
func (b *Buffer) DisplayWidth(start, end Offset) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkRange(start, end, false); err != nil {
		return 0, err
	}
	text, err := rope.CollapseSubstring(b.root, start, end)
	if err != nil {
		return 0, err
	}
	return uniseg.StringWidth(text), nil
}

// boundaryAfter moves offset forward off the middle of a surrogate pair.
func (b *Buffer) boundaryAfter(offset Offset) Offset {
	if ok, err := rope.IsRuneBoundary(b.root, offset); err == nil && !ok {
		return offset + 1
	}
	return offset
}

// boundaryBefore moves offset back off the middle of a surrogate pair.
func (b *Buffer) boundaryBefore(offset Offset) Offset {
	if ok, err := rope.IsRuneBoundary(b.root, offset); err == nil && !ok {
		return offset - 1
	}
	return offset
}
