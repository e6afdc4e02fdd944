package config

import (
	"fmt"
	"sort"
	"time"
)

// FromGo converts a decoded document (as produced by encoding/json or a TOML
// decoder) into a Value. Supported inputs are nil, bools, all integer and
// float types, strings, time.Time (rendered as RFC 3339), slices and
// string-keyed maps of those, and Values themselves.
func FromGo(in any) (Value, error) {
	switch v := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case Map:
		return Section(v), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case float64:
		return Number(v), nil
	case float32:
		return Number(float64(v)), nil
	case int:
		return Number(float64(v)), nil
	case int8:
		return Number(float64(v)), nil
	case int16:
		return Number(float64(v)), nil
	case int32:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case uint:
		return Number(float64(v)), nil
	case uint8:
		return Number(float64(v)), nil
	case uint16:
		return Number(float64(v)), nil
	case uint32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	case time.Time:
		return String(v.Format(time.RFC3339)), nil
	case []any:
		items := make([]Value, len(v))
		for i, e := range v {
			item, err := FromGo(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = item
		}
		return List(items...), nil
	case []map[string]any:
		items := make([]Value, len(v))
		for i, e := range v {
			item, err := FromGo(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = item
		}
		return List(items...), nil
	case map[string]any:
		m, err := MapFromGo(v)
		if err != nil {
			return Value{}, err
		}
		return Section(m), nil
	default:
		return Value{}, fmt.Errorf("unsupported configuration value of type %T", in)
	}
}

// MapFromGo converts a string-keyed document into a Map.
func MapFromGo(in map[string]any) (Map, error) {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	// Sorted so that the first failing key is reported deterministically.
	sort.Strings(keys)

	out := make(Map, len(in))
	for _, k := range keys {
		v, err := FromGo(in[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
