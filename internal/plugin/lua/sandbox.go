package lua

import (
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	callLimit int64
	callCount int64

	modules map[string]lua.LValue
}

// NewSandbox creates a new sandbox for the Lua state.
// A callLimit of zero or less disables call counting.
func NewSandbox(L *lua.LState, callLimit int64) *Sandbox {
	return &Sandbox{
		L:         L,
		callLimit: callLimit,
		modules:   make(map[string]lua.LValue),
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Remove functions that could load code from outside the script.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installSafeRequire()
}

// installSafeRequire replaces require with a version that only returns the
// safe built-in libraries and modules registered through Provide.
func (s *Sandbox) installSafeRequire() {
	builtins := map[string]bool{"string": true, "table": true, "math": true}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)

		if mod, ok := s.modules[name]; ok {
			L.Push(mod)
			return 1
		}
		if builtins[name] {
			L.Push(L.GetGlobal(name))
			return 1
		}

		L.RaiseError("module %q is not available", name)
		return 0
	}))
}

// Provide makes mod available to require under name.
func (s *Sandbox) Provide(name string, mod lua.LValue) {
	s.modules[name] = mod
}

// Guard wraps fn so that each call is counted against the call limit.
func (s *Sandbox) Guard(fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		if s.IncrementCalls(1) {
			L.RaiseError("%s (%d)", ErrCallLimit, s.callLimit)
			return 0
		}
		return fn(L)
	}
}

// ResetCallCount resets the call counter.
func (s *Sandbox) ResetCallCount() {
	atomic.StoreInt64(&s.callCount, 0)
}

// CallCount returns the current call count.
func (s *Sandbox) CallCount() int64 {
	return atomic.LoadInt64(&s.callCount)
}

// IncrementCalls adds to the call count and returns true if the limit is exceeded.
func (s *Sandbox) IncrementCalls(n int64) bool {
	count := atomic.AddInt64(&s.callCount, n)
	if s.callLimit <= 0 {
		return false
	}
	return count > s.callLimit
}
