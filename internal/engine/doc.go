// Package engine provides the text engine facade used by the CLI and the
// Lua bridge.
//
// The engine combines a buffer and its undo history into one thread-safe
// API. It is built on several sub-packages:
//
//   - rope: immutable UTF-16 binary rope (O(log n) edits, structural sharing)
//   - buffer: editor-facing owner of a rope root, cursor motion and encodings
//   - history: snapshot-based undo/redo
//
// # Basic Usage
//
//	e := engine.New()
//
//	e.Insert(0, "Hello, World!")
//	e.Replace(7, 12, "Go") // "Hello, Go!"
//	e.Undo()               // "Hello, World!"
//
// Offsets everywhere are UTF-16 code units.
//
// # Loading Files
//
//	f, _ := os.Open("file.txt")
//	defer f.Close()
//	e, _ := engine.NewFromReader(f, buffer.EncodingUTF8)
//
// # Named Snapshots
//
// CreateSnapshot keeps the current text under a name; RestoreSnapshot puts
// it back as an undoable edit. Both are O(1) because rope versions share
// structure.
package engine
