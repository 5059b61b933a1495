// Package buffer provides a thread-safe text buffer built on top of the rope
// package. It is the editor-facing owner of a rope root: every edit builds a
// new root from the old one and swaps it in under a write lock.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Offsets measured in UTF-16 code units, matching the rope
//   - Rejection of edits that would separate the halves of a surrogate pair
//   - Rune and grapheme cluster cursor movement
//   - Read-only snapshots that share the rope root
//   - Loading and saving UTF-8 and UTF-16 text
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	// Insert text
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//
//	// Delete text
//	buf.Delete(0, 7)  // "Beautiful World!"
//
//	// Take a snapshot; it never changes
//	snap := buf.Snapshot()
//	go func() {
//	    text := snap.Text()
//	    // Process text...
//	}()
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Because rope nodes are never mutated,
// a Snapshot is a single pointer copy and can be read from any goroutine
// while the buffer keeps changing.
package buffer
