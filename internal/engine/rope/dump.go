package rope

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"
)

// dumpTextLimit caps how much of each leaf Dump prints.
const dumpTextLimit = 24

// Dump writes an indented picture of the tree to w, one line per node.
// Intended for debugging only.
func Dump(n Node, w io.Writer) error {
	_, err := io.WriteString(w, DumpString(n))
	return err
}

// DumpString is Dump into a string.
func DumpString(n Node) string {
	tree := treeprint.NewWithRoot(describe(orEmpty(n)))
	if b, ok := n.(*Branch); ok {
		dumpBranch(tree, b)
	}
	return tree.String()
}

// dumpBranch recurses by depth, which Rebalance keeps logarithmic; dumping a
// degenerate tree of thousands of levels is not supported.
func dumpBranch(tree treeprint.Tree, b *Branch) {
	for _, child := range []Node{b.left, b.right} {
		switch c := child.(type) {
		case nil:
			tree.AddNode("<nil>")
		case *Leaf:
			tree.AddNode(describe(c))
		case *Branch:
			dumpBranch(tree.AddBranch(describe(c)), c)
		default:
			invalidNode(child)
		}
	}
}

func describe(n Node) string {
	switch n := n.(type) {
	case *Leaf:
		text := n.Text()
		if runes := []rune(text); len(runes) > dumpTextLimit {
			text = string(runes[:dumpTextLimit]) + "…"
		}
		return fmt.Sprintf("leaf w=%d %q", n.Weight(), text)
	case *Branch:
		return fmt.Sprintf("branch w=%d d=%d", n.Weight(), n.Depth())
	default:
		invalidNode(n)
		return ""
	}
}
