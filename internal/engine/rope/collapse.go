package rope

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// CollapseUnits copies the whole rope into a single slice of code units.
// The slice is allocated once at the final length.
func CollapseUnits(n Node) []uint16 {
	out := make([]uint16, 0, CalcTotalLength(n))
	it := NewLeafIterator(n)
	for it.Next() {
		out = append(out, it.Leaf().units...)
	}
	return out
}

// Collapse returns the text of the rope as a string.
// Surrogate pairs split across leaves are joined; unpaired surrogates become
// U+FFFD. The runes are walked twice so the result is allocated once at its
// UTF-8 size.
func Collapse(n Node) string {
	size := 0
	for r := range Runes(n) {
		size += utf8.RuneLen(r)
	}

	var sb strings.Builder
	sb.Grow(size)
	for r := range Runes(n) {
		sb.WriteRune(r)
	}
	return sb.String()
}

// CollapseSubstring returns the text in the code unit range [start, end).
// Only the leaves overlapping the range are visited.
func CollapseSubstring(n Node, start, end int64) (string, error) {
	n = orEmpty(n)
	total := CalcTotalLength(n)
	if start < 0 || end < start || end > total {
		return "", fmt.Errorf("%w: range [%d, %d), length %d", ErrIndexOutOfRange, start, end, total)
	}

	units := make([]uint16, 0, end-start)
	units = appendRange(units, n, start, end)
	return decodeString(units), nil
}

// appendRange appends the code units of n in [start, end), both relative to n.
func appendRange(dst []uint16, n Node, start, end int64) []uint16 {
	if start >= end {
		return dst
	}

	switch cur := n.(type) {
	case *Leaf:
		return append(dst, cur.units[start:end]...)
	case *Branch:
		if start < cur.weight {
			dst = appendRange(dst, cur.left, start, min(end, cur.weight))
		}
		if end > cur.weight && cur.right != nil {
			dst = appendRange(dst, cur.right, max(start-cur.weight, 0), end-cur.weight)
		}
		return dst
	default:
		invalidNode(n)
		return dst
	}
}

func decodeString(units []uint16) string {
	var sb strings.Builder
	sb.Grow(len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case isHighSurrogate(u) && i+1 < len(units) && isLowSurrogate(units[i+1]):
			sb.WriteRune(utf16.DecodeRune(rune(u), rune(units[i+1])))
			i++
		case utf16.IsSurrogate(rune(u)):
			sb.WriteRune(utf8.RuneError)
		default:
			sb.WriteRune(rune(u))
		}
	}
	return sb.String()
}
