package config

import (
	"fmt"
	"math"
	"strings"
)

// Has reports whether a value exists at path.
func (m Map) Has(path ...string) bool {
	_, err := m.Lookup(path...)
	return err == nil
}

// Lookup walks path through nested sections and returns the value found.
func (m Map) Lookup(path ...string) (Value, error) {
	if len(path) == 0 {
		return Section(m), nil
	}
	cur := m
	for i, key := range path {
		v, ok := cur[key]
		if !ok {
			return Value{}, &Error{Path: joinPath(path[:i+1]), Err: ErrMissingKey}
		}
		if i == len(path)-1 {
			return v, nil
		}
		next, ok := v.AsMap()
		if !ok {
			return Value{}, &Error{
				Path:   joinPath(path[:i+1]),
				Err:    ErrWrongKind,
				Detail: fmt.Sprintf("expected map, got %s", v.Kind()),
			}
		}
		cur = next
	}
	return Value{}, &Error{Path: joinPath(path), Err: ErrMissingKey}
}

// Section returns the nested map at path.
func (m Map) Section(path ...string) (Map, error) {
	v, err := m.Lookup(path...)
	if err != nil {
		return nil, err
	}
	sec, ok := v.AsMap()
	if !ok {
		return nil, wrongKind(path, KindMap, v)
	}
	return sec, nil
}

// Number returns the number at path.
func (m Map) Number(path ...string) (float64, error) {
	v, err := m.Lookup(path...)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsNumber()
	if !ok {
		return 0, wrongKind(path, KindNumber, v)
	}
	return f, nil
}

// Int returns the number at path, which must be integral.
func (m Map) Int(path ...string) (int, error) {
	f, err := m.Number(path...)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, &Error{Path: joinPath(path), Err: ErrWrongKind, Detail: fmt.Sprintf("expected integer, got %g", f)}
	}
	return int(f), nil
}

// Bool returns the boolean at path.
func (m Map) Bool(path ...string) (bool, error) {
	v, err := m.Lookup(path...)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, wrongKind(path, KindBool, v)
	}
	return b, nil
}

// Text returns the string at path.
func (m Map) Text(path ...string) (string, error) {
	v, err := m.Lookup(path...)
	if err != nil {
		return "", err
	}
	s, ok := v.AsString()
	if !ok {
		return "", wrongKind(path, KindString, v)
	}
	return s, nil
}

// NumberList returns the numbers at path. A single number is returned as a
// one-element list, so keys documented as "float or list" accept both.
func (m Map) NumberList(path ...string) ([]float64, error) {
	v, err := m.Lookup(path...)
	if err != nil {
		return nil, err
	}
	return ToNumbers(v, joinPath(path))
}

// ToNumbers converts a number or list of numbers to a slice. where names the
// value in any returned error.
func ToNumbers(v Value, where string) ([]float64, error) {
	if f, ok := v.AsNumber(); ok {
		return []float64{f}, nil
	}
	items, ok := v.AsList()
	if !ok {
		return nil, &Error{Path: where, Err: ErrWrongKind, Detail: fmt.Sprintf("expected number or list, got %s", v.Kind())}
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := item.AsNumber()
		if !ok {
			return nil, &Error{Path: fmt.Sprintf("%s[%d]", where, i), Err: ErrWrongKind, Detail: fmt.Sprintf("expected number, got %s", item.Kind())}
		}
		out[i] = f
	}
	return out, nil
}

func wrongKind(path []string, want Kind, got Value) error {
	return &Error{
		Path:   joinPath(path),
		Err:    ErrWrongKind,
		Detail: fmt.Sprintf("expected %s, got %s", want, got.Kind()),
	}
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
