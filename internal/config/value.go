package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which member of the Value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single node of the configuration tree. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	list []Value
	m    Map
	obj  any
}

// Map is a configuration section: string keys mapped to Values. Maps are
// reference types, so nested sections are shared, which is what lets Merge
// fill defaults in place.
type Map map[string]Value

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64. All numeric configuration values are float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List wraps an ordered sequence of values.
func List(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindList, list: vs}
}

// Numbers is a convenience for a list of numbers.
func Numbers(fs ...float64) Value {
	vs := make([]Value, len(fs))
	for i, f := range fs {
		vs[i] = Number(f)
	}
	return List(vs...)
}

// Section wraps a nested map. A nil map is replaced with an empty one so the
// section can be filled later.
func Section(m Map) Value {
	if m == nil {
		m = Map{}
	}
	return Value{kind: KindMap, m: m}
}

// Object wraps an arbitrary Go value that is not part of the textual
// configuration, for example an already-built grid.
func Object(v any) Value { return Value{kind: KindObject, obj: v} }

// Kind reports which member of the union is set.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v holds one.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether v holds one.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string and whether v holds one.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsList returns the list elements and whether v holds a list.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMap returns the nested section and whether v holds one.
func (v Value) AsMap() (Map, bool) { return v.m, v.kind == KindMap }

// AsObject returns the wrapped Go value and whether v holds one.
func (v Value) AsObject() (any, bool) { return v.obj, v.kind == KindObject }

// Clone returns a deep copy of v. Objects are copied by reference.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		out := make([]Value, len(v.list))
		for i, e := range v.list {
			out[i] = e.Clone()
		}
		return Value{kind: KindList, list: out}
	case KindMap:
		return Value{kind: KindMap, m: v.m.Clone()}
	default:
		return v
	}
}

// Interface converts v back into plain Go values: nil, bool, float64, string,
// []any, map[string]any, or the wrapped object.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindMap:
		return v.m.Interface()
	case KindObject:
		return v.obj
	default:
		return nil
	}
}

// GoString renders v in a compact, deterministic form for logs and errors.
func (v Value) GoString() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.str))
	case KindList:
		sb.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, k := range v.m.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(" = ")
			v.m[k].write(sb)
		}
		sb.WriteByte('}')
	case KindObject:
		fmt.Fprintf(sb, "<%T>", v.obj)
	}
}

// Clone returns a deep copy of the section.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// Keys returns the section keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts the section into a map[string]any tree.
func (m Map) Interface() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}
