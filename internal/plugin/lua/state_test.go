package lua

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

func newTestState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	state, err := NewState(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = state.Close() })
	return state
}

func TestNewState(t *testing.T) {
	state := newTestState(t)

	assert.False(t, state.IsClosed())
	assert.NotNil(t, state.LuaState())
	assert.NotNil(t, state.Sandbox())
}

func TestStateDoString(t *testing.T) {
	state := newTestState(t)

	require.NoError(t, state.DoString(context.Background(), `x = 1 + 1`))
	assert.Equal(t, glua.LNumber(2), state.GetGlobal("x"))
}

func TestStateDoStringSyntaxError(t *testing.T) {
	state := newTestState(t)

	err := state.DoString(context.Background(), `this is not lua`)
	assert.Error(t, err)
}

func TestStateDoFile(t *testing.T) {
	state := newTestState(t)

	path := filepath.Join(t.TempDir(), "script.lua")
	require.NoError(t, os.WriteFile(path, []byte(`greeting = "hi"`), 0o600))

	require.NoError(t, state.DoFile(context.Background(), path))
	assert.Equal(t, glua.LString("hi"), state.GetGlobal("greeting"))
}

func TestStatePrintUsesOutput(t *testing.T) {
	var out bytes.Buffer
	state := newTestState(t, WithOutput(&out))

	require.NoError(t, state.DoString(context.Background(), `print("a", 1, true)`))
	assert.Equal(t, "a\t1\ttrue\n", out.String())
}

func TestStateCall(t *testing.T) {
	state := newTestState(t)
	ctx := context.Background()

	require.NoError(t, state.DoString(ctx, `function add(a, b) return a + b, "done" end`))

	results, err := state.Call(ctx, "add", glua.LNumber(2), glua.LNumber(3))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, glua.LNumber(5), results[0])
	assert.Equal(t, glua.LString("done"), results[1])

	_, err = state.Call(ctx, "missing")
	assert.Error(t, err)
}

func TestStateCallNoResults(t *testing.T) {
	state := newTestState(t)
	ctx := context.Background()

	require.NoError(t, state.DoString(ctx, `function noop() end`))
	results, err := state.Call(ctx, "noop")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestStateExecutionTimeout(t *testing.T) {
	state := newTestState(t, WithExecutionTimeout(50*time.Millisecond))

	err := state.DoString(context.Background(), `while true do end`)
	assert.ErrorIs(t, err, ErrExecutionTimeout)

	// The state stays usable after a timeout.
	require.NoError(t, state.DoString(context.Background(), `y = 1`))
}

func TestStateCallLimit(t *testing.T) {
	state := newTestState(t, WithCallLimit(10))
	calls := 0
	state.RegisterModule("host", map[string]glua.LGFunction{
		"tick": func(L *glua.LState) int {
			calls++
			return 0
		},
	})

	err := state.DoString(context.Background(), `for i = 1, 100 do host.tick() end`)
	assert.ErrorIs(t, err, ErrCallLimit)
	assert.Equal(t, 10, calls)

	// The counter resets for each execution.
	require.NoError(t, state.DoString(context.Background(), `host.tick()`))
}

func TestStateClosed(t *testing.T) {
	state, err := NewState()
	require.NoError(t, err)

	require.NoError(t, state.Close())
	require.NoError(t, state.Close())
	assert.True(t, state.IsClosed())

	assert.ErrorIs(t, state.DoString(context.Background(), `x = 1`), ErrStateClosed)
	_, err = state.Call(context.Background(), "f")
	assert.ErrorIs(t, err, ErrStateClosed)
	assert.Equal(t, glua.LNil, state.GetGlobal("x"))
}
