package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for Lua state.
const (
	DefaultExecutionTimeout = 5 * time.Second // Timeout for one DoString, DoFile or Call
	DefaultCallLimit        = 1_000_000       // Maximum host calls per execution
)

// State wraps gopher-lua with sandboxing and execution limits.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls made
// through State; code holding the raw LState must synchronize on its own.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	callLimit        int64
	output           io.Writer
	logger           *slog.Logger

	sandbox *Sandbox

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for Lua calls.
// Zero disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithCallLimit sets the maximum number of host calls per execution.
// Zero disables the limit.
func WithCallLimit(limit int64) StateOption {
	return func(s *State) {
		s.callLimit = limit
	}
}

// WithOutput sets where print writes. The default is os.Stdout.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.output = w
		}
	}
}

// WithLogger sets the logger script runs are reported to.
func WithLogger(logger *slog.Logger) StateOption {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		callLimit:        DefaultCallLimit,
		output:           os.Stdout,
		logger:           slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	state.L = L

	openSafeLibraries(L)
	state.installPrint()

	state.sandbox = NewSandbox(L, state.callLimit)
	state.sandbox.Install()

	return state, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Open base library (print, type, pairs, ipairs, etc.)
	lua.OpenBase(L)

	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Note: These are intentionally NOT opened:
	// - io (file system access)
	// - os (system calls, execute)
	// - debug (can bypass sandbox)
	// - package (can load arbitrary modules)
	// - channel and coroutine (not needed for edit scripts)
}

// installPrint replaces print so that script output goes to the
// configured writer.
func (s *State) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(s.output, strings.Join(parts, "\t"))
		return 0
	}))
}

// DoFile executes a Lua file.
// Execution is synchronous - the call blocks until completion or error.
func (s *State) DoFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run(ctx, path, func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua string.
// Execution is synchronous - the call blocks until completion or error.
func (s *State) DoString(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run(ctx, "<string>", func() error {
		return s.L.DoString(code)
	})
}

// run executes fn with the call counter reset and the execution timeout
// applied. Callers hold s.mu.
func (s *State) run(ctx context.Context, name string, fn func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}

	s.sandbox.ResetCallCount()

	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		err = s.classify(ctx, err)
		s.logger.Debug("lua run",
			"chunk", name,
			"calls", s.sandbox.CallCount(),
			"elapsed", time.Since(start),
			"error", err,
		)
	}()

	return fn()
}

// classify maps errors raised inside the VM back to the package errors.
func (s *State) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	case s.callLimit > 0 && s.sandbox.CallCount() > s.callLimit:
		return fmt.Errorf("%w: %v", ErrCallLimit, err)
	}
	return err
}

// Call calls a global Lua function with the given arguments.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) Call(ctx context.Context, fn string, args ...lua.LValue) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []lua.LValue
	err := s.run(ctx, fn, func() error {
		fnVal := s.L.GetGlobal(fn)
		if fnVal.Type() != lua.LTFunction {
			return fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
		}

		stackTop := s.L.GetTop()
		s.L.Push(fnVal)
		for _, arg := range args {
			s.L.Push(arg)
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		// Collect only the values added by the call
		nRet := s.L.GetTop() - stackTop
		results = make([]lua.LValue, 0, max(nRet, 0))
		for i := 0; i < nRet; i++ {
			results = append(results, s.L.Get(stackTop+i+1))
		}
		if nRet > 0 {
			s.L.Pop(nRet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// RegisterModule registers a module with the given functions. The module is
// available both as a global and through require. Every function call is
// counted against the call limit.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	mod := s.L.NewTable()
	for fname, fn := range funcs {
		s.L.SetField(mod, fname, s.L.NewFunction(s.sandbox.Guard(fn)))
	}
	s.L.SetGlobal(name, mod)
	s.sandbox.Provide(name, mod)
}

// LuaState returns the underlying gopher-lua state.
//
// WARNING: Direct access to LState bypasses the mutex and the execution
// limits. The caller is responsible for thread-safety.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// Sandbox returns the sandbox shared with the State.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, executions return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
