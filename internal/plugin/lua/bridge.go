package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Bridge provides utilities for Go-Lua interoperability.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value to a Go value.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGoValueWithVisited(lv, make(map[*lua.LTable]bool))
}

// toGoValueWithVisited converts a Lua value to a Go value, tracking visited tables.
func (b *Bridge) toGoValueWithVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		// Integral numbers come back as int64
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil // Break circular reference
		}
		visited[v] = true
		return b.tableToGoWithVisited(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

// tableToGoWithVisited converts a Lua table to a []any when its keys are
// exactly 1..n, and to a map[string]any otherwise.
func (b *Bridge) tableToGoWithVisited(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) {
		count++
	})

	if n > 0 && count == n {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGoValueWithVisited(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = b.toGoValueWithVisited(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value. Unsupported types become
// userdata.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint8:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := b.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, b.ToLuaValue(item))
		}
		return t
	case []string:
		t := b.L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, lua.LString(item))
		}
		return t
	case map[string]any:
		t := b.L.NewTable()
		for k, item := range val {
			t.RawSetString(k, b.ToLuaValue(item))
		}
		return t
	case lua.LValue:
		return val
	default:
		ud := b.L.NewUserData()
		ud.Value = v
		return ud
	}
}
