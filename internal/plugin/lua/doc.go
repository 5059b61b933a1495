// Package lua provides the sandboxed Lua runtime used to script rope edits.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management (base, table, string and math only)
//   - Go-Lua type conversion bridge
//   - Execution timeouts and host call limits
//
// # State
//
// The State type manages a Lua runtime with sandboxing:
//
//	state, err := lua.NewState(
//	    lua.WithExecutionTimeout(5 * time.Second),
//	    lua.WithCallLimit(100_000),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "edit.lua"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Sandbox
//
// The Sandbox restricts Lua code execution by:
//   - Removing functions that load code (dofile, loadfile, load, loadstring)
//   - Replacing require with one that only returns registered modules
//   - Counting calls into Go functions registered with RegisterModule
//
// gopher-lua has no per-instruction hook. Runaway pure-Lua loops are stopped
// by the execution timeout, which is enforced through the state's context.
//
// # Bridge
//
// The Bridge provides bidirectional type conversion:
//
//	bridge := lua.NewBridge(state.LuaState())
//
//	luaVal := bridge.ToLuaValue(map[string]any{"depth": 3})
//	goVal := bridge.ToGoValue(luaVal)
package lua
