// Package rope provides an immutable binary rope for efficient storage and
// editing of large text.
//
// A rope is a binary tree whose leaves hold contiguous segments of UTF-16 code
// units and whose branches cache the length of their left subtree (the
// weight). Indexing and splitting descend by weight, so on a balanced tree
// they cost O(log n).
//
// Key features:
//   - Nodes are never modified after construction; every edit returns a new
//     root that shares all unaffected subtrees with the previous version
//   - Fibonacci balance criterion with on-demand rebalancing
//   - UTF-16 indexing with surrogate-pair aware rune access and iteration
//   - Leaf traversal uses an explicit stack, so degenerate trees cannot
//     exhaust the call stack before they are rebalanced
//
// Basic usage:
//
//	r := rope.FromString("helloworld")
//	r, _ = rope.Insert(r, 5, " ")   // "hello world"
//	r, _ = rope.Delete(r, 0, 6)     // "world"
//	text := rope.Collapse(r)        // "world"
//
// All positions are UTF-16 code unit offsets. Splitting inside a surrogate
// pair is not rejected at this level; callers that care use IsRuneBoundary
// before editing.
package rope
