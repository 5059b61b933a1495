package rope

// Stats describes the shape of a rope. It is meant for debugging and
// visualization; nothing in it should drive edits.
type Stats struct {
	// Length is the total code unit count.
	Length int64

	// Leaves is the number of leaves, including empty ones.
	Leaves int

	// EmptyLeaves is the number of leaves holding no text.
	EmptyLeaves int

	// Branches is the number of branch nodes.
	Branches int

	// Depth is the depth of the root.
	Depth uint8

	// Balanced is IsBalanced for the root.
	Balanced bool
}

// Measure walks n and returns its Stats.
func Measure(n Node) Stats {
	n = orEmpty(n)
	s := Stats{
		Length:   CalcTotalLength(n),
		Depth:    n.Depth(),
		Balanced: IsBalanced(n),
	}

	stack := []Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch cur := cur.(type) {
		case *Leaf:
			s.Leaves++
			if cur.Len() == 0 {
				s.EmptyLeaves++
			}
		case *Branch:
			s.Branches++
			stack = append(stack, cur.left)
			if cur.right != nil {
				stack = append(stack, cur.right)
			}
		default:
			invalidNode(cur)
		}
	}
	return s
}
