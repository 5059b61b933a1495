// Package api provides the Lua modules exposed to edit scripts.
//
// The rope module drives an Editor, normally an *engine.Engine, from Lua.
// Offsets are UTF-16 code units, the same unit the engine uses:
//
//	local r = require("rope")
//	local e = r.insert(r.len(), "!")
//	r.replace(0, 1, "H")
//	if not r.balanced() then r.rebalance() end
//
// Functions raise a Lua error when the engine rejects an edit, except undo
// and redo which return false when history is exhausted. Every call counts
// against the call limit of the plua.State the module is registered in.
package api
