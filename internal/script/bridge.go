package script

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"
)

// bridge converts values between Go and Lua.
type bridge struct {
	L *lua.LState
}

// toGo converts a Lua value to a Go value. Integral numbers become int64,
// sequences become []any and other tables become map[string]any. Userdata
// yields the Go value it carries. A table that contains itself converts the
// inner reference to nil; a table shared by two fields is converted twice.
func (b bridge) toGo(lv lua.LValue) any {
	return b.toGoVisited(lv, make(map[*lua.LTable]bool))
}

func (b bridge) toGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case nil:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		out := b.tableToGo(v, visited)
		delete(visited, v)
		return out
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func (b bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGoVisited(t.RawGetInt(i), visited)
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
			key = fmt.Sprint(b.toGoVisited(kv, visited))
		default:
			key = k.String()
		}
		m[key] = b.toGoVisited(v, visited)
	})
	return m
}

// container identifies a Go map or slice by its backing storage.
type container struct {
	ptr uintptr
	n   int
}

// toLua converts a Go value to a Lua value. Plain data (scalars, slices and
// string-keyed maps, named types included) becomes Lua data. Pointers,
// structs and anything else travel as userdata so they come back unchanged.
// tostring on userdata holding a fmt.Stringer calls its String method. A map
// or slice that contains itself converts the inner reference to nil.
func (b bridge) toLua(v any) lua.LValue {
	return b.toLuaVisited(v, make(map[container]bool))
}

func (b bridge) toLuaVisited(v any, visited map[container]bool) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	}
	return b.reflectToLua(v, visited)
}

func (b bridge) reflectToLua(v any, visited map[container]bool) lua.LValue {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Len() > 0 {
			key := container{ptr: rv.Pointer(), n: rv.Len()}
			if visited[key] {
				return lua.LNil
			}
			visited[key] = true
			defer delete(visited, key)
		}
		t := b.L.CreateTable(rv.Len(), 0)
		for i := 0; i < rv.Len(); i++ {
			t.RawSetInt(i+1, b.toLuaVisited(rv.Index(i).Interface(), visited))
		}
		return t
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if !rv.IsNil() {
			key := container{ptr: rv.Pointer(), n: -1}
			if visited[key] {
				return lua.LNil
			}
			visited[key] = true
			defer delete(visited, key)
		}
		t := b.L.CreateTable(0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			t.RawSetString(iter.Key().String(), b.toLuaVisited(iter.Value().Interface(), visited))
		}
		return t
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.String:
		return lua.LString(rv.String())
	}
	ud := b.L.NewUserData()
	ud.Value = v
	if s, ok := v.(fmt.Stringer); ok {
		mt := b.L.NewTable()
		mt.RawSetString("__tostring", b.L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LString(s.String()))
			return 1
		}))
		b.L.SetMetatable(ud, mt)
	}
	return ud
}
