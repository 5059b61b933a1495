package rope

// maxFibIndex bounds the Fibonacci table. F(46) is the largest value that
// fits a signed 32-bit weight.
const maxFibIndex = 46

// fibonacci[i] is F(i), with F(0) = 0 and F(1) = 1.
var fibonacci [maxFibIndex + 1]int64

func init() {
	fibonacci[1] = 1
	for i := 2; i < len(fibonacci); i++ {
		fibonacci[i] = fibonacci[i-1] + fibonacci[i-2]
	}
}

// MaxBalancedDepth is the deepest tree IsBalanced can accept.
const MaxBalancedDepth = maxFibIndex - 2

// IsBalanced reports whether F(depth+2) <= weight. Trees deeper than
// MaxBalancedDepth are never balanced.
func IsBalanced(n Node) bool {
	depth := int(n.Depth())
	if depth > MaxBalancedDepth {
		return false
	}
	return fibonacci[depth+2] <= n.Weight()
}

// Rebalance returns n unchanged if it is already balanced. Otherwise it
// collects the non-empty leaves in order and rebuilds them into a tree of
// depth ceil(log2(leaves)). The text is unchanged.
func Rebalance(n Node) Node {
	if n == nil {
		return Empty
	}
	if IsBalanced(n) {
		return n
	}

	var leaves []*Leaf
	it := NewLeafIterator(n)
	for it.Next() {
		if leaf := it.Leaf(); leaf.Len() > 0 {
			leaves = append(leaves, leaf)
		}
	}
	if len(leaves) == 0 {
		return Empty
	}

	return merge(leaves)
}

// merge builds a perfectly balanced tree over leaves by midpoint splitting.
func merge(leaves []*Leaf) Node {
	switch len(leaves) {
	case 1:
		return leaves[0]
	case 2:
		return NewBranch(leaves[0], leaves[1])
	}

	mid := len(leaves) / 2
	return NewBranch(merge(leaves[:mid]), merge(leaves[mid:]))
}
