package rope

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf16"
)

// Node is a node in a rope: either a *Leaf or a *Branch.
// The set of implementations is closed.
type Node interface {
	// Weight is the code unit count of a leaf, or of the left subtree of a branch.
	Weight() int64

	// Depth is 0 for a leaf and one more than the deepest child for a branch.
	Depth() uint8

	node()
}

// Leaf holds an immutable run of UTF-16 code units.
type Leaf struct {
	units []uint16
}

// Empty is the shared empty leaf.
var Empty = &Leaf{}

// NewLeaf creates a leaf holding the UTF-16 encoding of s.
func NewLeaf(s string) *Leaf {
	if len(s) == 0 {
		return Empty
	}
	return &Leaf{units: utf16.Encode([]rune(s))}
}

// NewLeafUnits creates a leaf from raw code units. The slice is copied.
func NewLeafUnits(units []uint16) *Leaf {
	if len(units) == 0 {
		return Empty
	}
	return &Leaf{units: slices.Clone(units)}
}

// leafOf wraps units without copying. Callers must not retain units.
func leafOf(units []uint16) *Leaf {
	if len(units) == 0 {
		return Empty
	}
	return &Leaf{units: units}
}

func (l *Leaf) Weight() int64 { return int64(len(l.units)) }
func (l *Leaf) Depth() uint8  { return 0 }
func (l *Leaf) node()         {}

// Len returns the number of code units in the leaf.
func (l *Leaf) Len() int {
	return len(l.units)
}

// Text decodes the leaf into a string. Unpaired surrogates decode to U+FFFD.
func (l *Leaf) Text() string {
	return decodeString(l.units)
}

// Units returns a copy of the leaf's code units.
func (l *Leaf) Units() []uint16 {
	return slices.Clone(l.units)
}

// Branch joins a left subtree and an optional right subtree.
type Branch struct {
	left   Node
	right  Node // may be nil
	weight int64
	depth  uint8
}

// NewBranch creates a branch over left and right. Right may be nil.
// Weight and depth are computed once here; depth saturates at math.MaxUint8.
func NewBranch(left, right Node) *Branch {
	if left == nil {
		left = Empty
	}

	d := left.Depth()
	if right != nil && right.Depth() > d {
		d = right.Depth()
	}
	if d < math.MaxUint8 {
		d++
	}

	return &Branch{
		left:   left,
		right:  right,
		weight: CalcTotalLength(left),
		depth:  d,
	}
}

func (b *Branch) Weight() int64 { return b.weight }
func (b *Branch) Depth() uint8  { return b.depth }
func (b *Branch) node()         {}

// Left returns the left subtree. It is never nil.
func (b *Branch) Left() Node {
	return b.left
}

// Right returns the right subtree, or nil if the branch has none.
func (b *Branch) Right() Node {
	return b.right
}

// invalidNode reports a Node implementation outside the closed set.
func invalidNode(n Node) {
	panic(fmt.Sprintf("rope: invalid node type %T", n))
}
