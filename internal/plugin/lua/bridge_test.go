package lua

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

func TestBridgeRoundTrip(t *testing.T) {
	state := newTestState(t)
	bridge := NewBridge(state.LuaState())

	in := map[string]any{
		"name":     "rope",
		"depth":    int64(3),
		"balanced": true,
		"ratio":    0.5,
		"leaves":   []any{"a", "b"},
	}

	lv := bridge.ToLuaValue(in)
	require.IsType(t, &glua.LTable{}, lv)

	out := bridge.ToGoValue(lv)
	assert.Equal(t, in, out)
}

func TestBridgeScalars(t *testing.T) {
	state := newTestState(t)
	bridge := NewBridge(state.LuaState())

	assert.Equal(t, glua.LNil, bridge.ToLuaValue(nil))
	assert.Equal(t, glua.LNumber(7), bridge.ToLuaValue(7))
	assert.Equal(t, glua.LNumber(255), bridge.ToLuaValue(uint8(255)))
	assert.Equal(t, glua.LString("x"), bridge.ToLuaValue("x"))

	assert.Nil(t, bridge.ToGoValue(glua.LNil))
	assert.Equal(t, int64(4), bridge.ToGoValue(glua.LNumber(4)))
	assert.Equal(t, 1.25, bridge.ToGoValue(glua.LNumber(1.25)))
}

func TestBridgeStringSlice(t *testing.T) {
	state := newTestState(t)
	bridge := NewBridge(state.LuaState())

	out := bridge.ToGoValue(bridge.ToLuaValue([]string{"x", "y"}))
	assert.Equal(t, []any{"x", "y"}, out)
}

func TestBridgeUserData(t *testing.T) {
	state := newTestState(t)
	bridge := NewBridge(state.LuaState())

	type opaque struct{ n int }
	lv := bridge.ToLuaValue(opaque{n: 1})
	assert.Equal(t, opaque{n: 1}, bridge.ToGoValue(lv))
}
