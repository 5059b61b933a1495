package rope

import "fmt"

// CalcTotalLength returns the number of code units in the rope.
// A nil node has length 0. For a balanced tree this is O(log n).
func CalcTotalLength(n Node) int64 {
	var total int64
	for n != nil {
		switch cur := n.(type) {
		case *Branch:
			total += cur.weight
			n = cur.right
		case *Leaf:
			return total + int64(len(cur.units))
		default:
			invalidNode(n)
		}
	}
	return total
}

// IsEmpty reports whether the rope is nil or has length 0.
func IsEmpty(n Node) bool {
	return n == nil || CalcTotalLength(n) == 0
}

// Index returns the code unit at index i.
// The result is a single UTF-16 code unit, which may be half of a surrogate
// pair; use RuneAt for whole runes.
func Index(n Node, i int64) (uint16, error) {
	if i < 0 {
		return 0, outOfRange(i)
	}

	pos := i
	for {
		switch cur := n.(type) {
		case *Branch:
			if pos < cur.weight {
				n = cur.left
				continue
			}
			if cur.right == nil {
				return 0, outOfRange(i)
			}
			pos -= cur.weight
			n = cur.right
		case *Leaf:
			if pos >= int64(len(cur.units)) {
				return 0, outOfRange(i)
			}
			return cur.units[pos], nil
		case nil:
			return 0, outOfRange(i)
		default:
			invalidNode(n)
		}
	}
}

// Split returns the text before index and the text from index onward.
// Both halves are rebalanced. Splitting at 0 or at the total length yields an
// empty leaf on one side.
//
// Split works on code units and does not check that index falls on a rune
// boundary; a split inside a surrogate pair leaves half of the pair in each
// result.
func Split(n Node, index int64) (Node, Node, error) {
	n = orEmpty(n)
	if total := CalcTotalLength(n); index < 0 || index > total {
		return nil, nil, fmt.Errorf("%w: split at %d, length %d", ErrIndexOutOfRange, index, total)
	}

	left, right := split(n, index)
	return left, right, nil
}

// split assumes 0 <= index <= CalcTotalLength(n).
func split(n Node, index int64) (Node, Node) {
	switch cur := n.(type) {
	case *Branch:
		switch {
		case cur.weight > index:
			left, right := split(cur.left, index)
			return Rebalance(left), Rebalance(NewBranch(right, cur.right))
		case cur.weight < index:
			left, right := split(orEmpty(cur.right), index-cur.weight)
			return Rebalance(NewBranch(cur.left, left)), Rebalance(right)
		default:
			return cur.left, orEmpty(cur.right)
		}
	case *Leaf:
		switch index {
		case 0:
			return Empty, cur
		case int64(len(cur.units)):
			return cur, Empty
		}
		return leafOf(cur.units[:index:index]), leafOf(cur.units[index:])
	default:
		invalidNode(n)
		return nil, nil
	}
}

// Concat joins two ropes under a new branch. It never rebalances; callers
// building long chains of concatenations should call Rebalance.
func Concat(left, right Node) Node {
	return NewBranch(left, right)
}

// ConcatString appends s to the rope.
func ConcatString(left Node, s string) Node {
	return Concat(left, NewLeaf(s))
}

// Insert returns a rope with value spliced in at index.
func Insert(n Node, index int64, value string) (Node, error) {
	left, right, err := Split(n, index)
	if err != nil {
		return nil, err
	}
	return Concat(left, Concat(NewLeaf(value), right)), nil
}

// Delete returns a rope with length code units removed starting at start.
func Delete(n Node, start, length int64) (Node, error) {
	if err := checkRange(n, start, length); err != nil {
		return nil, err
	}

	// Both splits run against the original tree; nothing is mutated in between.
	left, _, err := Split(n, start)
	if err != nil {
		return nil, err
	}
	_, right, err := Split(n, start+length)
	if err != nil {
		return nil, err
	}

	return Concat(left, right), nil
}

// ReplaceSubstring returns a rope with length code units starting at start
// replaced by text.
func ReplaceSubstring(n Node, start, length int64, text string) (Node, error) {
	if err := checkRange(n, start, length); err != nil {
		return nil, err
	}

	left, mid, err := Split(n, start)
	if err != nil {
		return nil, err
	}
	_, right, err := Split(mid, length)
	if err != nil {
		return nil, err
	}

	return Concat(left, Concat(NewLeaf(text), right)), nil
}

func checkRange(n Node, start, length int64) error {
	total := CalcTotalLength(n)
	if start < 0 || length < 0 || start > total || length > total-start {
		return fmt.Errorf("%w: range [%d, %d+%d), length %d", ErrIndexOutOfRange, start, start, length, total)
	}
	return nil
}

func outOfRange(i int64) error {
	return fmt.Errorf("%w: index %d", ErrIndexOutOfRange, i)
}

func orEmpty(n Node) Node {
	if n == nil {
		return Empty
	}
	return n
}
