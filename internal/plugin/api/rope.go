package api

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textrope/internal/engine"
	"github.com/dshills/textrope/internal/engine/history"
	"github.com/dshills/textrope/internal/engine/rope"
	plua "github.com/dshills/textrope/internal/plugin/lua"
)

// Editor is the part of the engine the rope module drives.
// *engine.Engine satisfies it.
type Editor interface {
	Text() string
	TextRange(start, end engine.Offset) (string, error)
	Len() engine.Offset
	RuneAt(offset engine.Offset) (rune, int, error)

	Insert(offset engine.Offset, text string) (engine.Offset, error)
	Delete(start, end engine.Offset) error
	Replace(start, end engine.Offset, text string) (engine.Offset, error)
	Undo() error
	Redo() error

	NextRune(offset engine.Offset) (engine.Offset, error)
	PrevRune(offset engine.Offset) (engine.Offset, error)
	NextGrapheme(offset engine.Offset) (engine.Offset, error)
	PrevGrapheme(offset engine.Offset) (engine.Offset, error)

	Stats() rope.Stats
	Rebalance()
}

var _ Editor = (*engine.Engine)(nil)

// RopeModule implements the rope API module.
type RopeModule struct {
	ed Editor
}

// NewRopeModule creates a new rope module over ed.
func NewRopeModule(ed Editor) *RopeModule {
	return &RopeModule{ed: ed}
}

// Name returns the module name.
func (m *RopeModule) Name() string {
	return "rope"
}

// Functions returns the module functions keyed by their Lua name.
func (m *RopeModule) Functions() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"text":          m.text,
		"sub":           m.sub,
		"len":           m.ropeLen,
		"char_at":       m.charAt,
		"insert":        m.insert,
		"delete":        m.delete,
		"replace":       m.replace,
		"undo":          m.undo,
		"redo":          m.redo,
		"next_rune":     m.motion("next_rune", m.ed.NextRune),
		"prev_rune":     m.motion("prev_rune", m.ed.PrevRune),
		"next_grapheme": m.motion("next_grapheme", m.ed.NextGrapheme),
		"prev_grapheme": m.motion("prev_grapheme", m.ed.PrevGrapheme),
		"depth":         m.depth,
		"balanced":      m.balanced,
		"stats":         m.stats,
		"rebalance":     m.rebalance,
	}
}

// Register installs the module into state, available as a global and
// through require.
func (m *RopeModule) Register(state *plua.State) {
	state.RegisterModule(m.Name(), m.Functions())
}

// checkOffset reads a non-negative offset argument.
func checkOffset(L *lua.LState, n int, what string) engine.Offset {
	v := L.CheckInt64(n)
	if v < 0 {
		L.ArgError(n, what+" must be non-negative")
	}
	return v
}

// checkRange reads a start/end argument pair.
func checkRange(L *lua.LState) (engine.Offset, engine.Offset) {
	start := checkOffset(L, 1, "start")
	end := L.CheckInt64(2)
	if end < start {
		L.ArgError(2, "end must be >= start")
	}
	return start, end
}

// text() -> string
// Returns the full text.
func (m *RopeModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.ed.Text()))
	return 1
}

// sub(start, end) -> string
// Returns the text in the code unit range [start, end).
func (m *RopeModule) sub(L *lua.LState) int {
	start, end := checkRange(L)

	text, err := m.ed.TextRange(start, end)
	if err != nil {
		L.RaiseError("sub: %v", err)
		return 0
	}

	L.Push(lua.LString(text))
	return 1
}

// len() -> number
// Returns the length in UTF-16 code units.
func (m *RopeModule) ropeLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.ed.Len()))
	return 1
}

// char_at(offset) -> string, number
// Returns the character starting at offset and its width in code units.
func (m *RopeModule) charAt(L *lua.LState) int {
	offset := checkOffset(L, 1, "offset")

	r, size, err := m.ed.RuneAt(offset)
	if err != nil {
		L.RaiseError("char_at: %v", err)
		return 0
	}

	L.Push(lua.LString(string(r)))
	L.Push(lua.LNumber(size))
	return 2
}

// insert(offset, text) -> end_offset
// Inserts text at the given offset.
func (m *RopeModule) insert(L *lua.LState) int {
	offset := checkOffset(L, 1, "offset")
	text := L.CheckString(2)

	end, err := m.ed.Insert(offset, text)
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}

	L.Push(lua.LNumber(end))
	return 1
}

// delete(start, end) -> nil
// Deletes the text in [start, end).
func (m *RopeModule) delete(L *lua.LState) int {
	start, end := checkRange(L)

	if err := m.ed.Delete(start, end); err != nil {
		L.RaiseError("delete: %v", err)
	}
	return 0
}

// replace(start, end, text) -> end_offset
// Replaces the text in [start, end).
func (m *RopeModule) replace(L *lua.LState) int {
	start, end := checkRange(L)
	text := L.CheckString(3)

	newEnd, err := m.ed.Replace(start, end, text)
	if err != nil {
		L.RaiseError("replace: %v", err)
		return 0
	}

	L.Push(lua.LNumber(newEnd))
	return 1
}

// undo() -> bool
// Undoes the last edit. Returns false when there is nothing to undo.
func (m *RopeModule) undo(L *lua.LState) int {
	err := m.ed.Undo()
	if errors.Is(err, history.ErrNothingToUndo) {
		L.Push(lua.LFalse)
		return 1
	}
	if err != nil {
		L.RaiseError("undo: %v", err)
		return 0
	}
	L.Push(lua.LTrue)
	return 1
}

// redo() -> bool
// Redoes the last undone edit. Returns false when there is nothing to redo.
func (m *RopeModule) redo(L *lua.LState) int {
	err := m.ed.Redo()
	if errors.Is(err, history.ErrNothingToRedo) {
		L.Push(lua.LFalse)
		return 1
	}
	if err != nil {
		L.RaiseError("redo: %v", err)
		return 0
	}
	L.Push(lua.LTrue)
	return 1
}

// motion builds next_rune, prev_rune, next_grapheme and prev_grapheme.
// Each takes an offset and returns the new offset.
func (m *RopeModule) motion(name string, move func(engine.Offset) (engine.Offset, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		offset := checkOffset(L, 1, "offset")

		next, err := move(offset)
		if err != nil {
			L.RaiseError("%s: %v", name, err)
			return 0
		}

		L.Push(lua.LNumber(next))
		return 1
	}
}

// depth() -> number
func (m *RopeModule) depth(L *lua.LState) int {
	L.Push(lua.LNumber(m.ed.Stats().Depth))
	return 1
}

// balanced() -> bool
func (m *RopeModule) balanced(L *lua.LState) int {
	L.Push(lua.LBool(m.ed.Stats().Balanced))
	return 1
}

// stats() -> table
// Returns {length, leaves, empty_leaves, branches, depth, balanced}.
func (m *RopeModule) stats(L *lua.LState) int {
	s := m.ed.Stats()
	bridge := plua.NewBridge(L)
	L.Push(bridge.ToLuaValue(map[string]any{
		"length":       s.Length,
		"leaves":       s.Leaves,
		"empty_leaves": s.EmptyLeaves,
		"branches":     s.Branches,
		"depth":        s.Depth,
		"balanced":     s.Balanced,
	}))
	return 1
}

// rebalance() -> nil
// Rebuilds the tree without changing the text.
func (m *RopeModule) rebalance(L *lua.LState) int {
	m.ed.Rebalance()
	return 0
}
