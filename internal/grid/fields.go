package grid

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidArgument reports a malformed argument: an unknown grid source, a
// value that is not a grid, a field with a conflicting dtype, and similar.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrFieldExists is returned when adding a field that already exists without
// clobbering.
var ErrFieldExists = errors.New("field already exists")

// ErrFieldMissing is returned when a required field is absent.
var ErrFieldMissing = errors.New("field does not exist")

// DType is the element type of a field.
type DType string

const (
	Float64 DType = "float64"
	Int64   DType = "int64"
)

// ParseDType accepts "float64"/"float" and "int64"/"int".
func ParseDType(s string) (DType, error) {
	switch s {
	case "float64", "float":
		return Float64, nil
	case "int64", "int":
		return Int64, nil
	default:
		return "", fmt.Errorf("%w: unsupported dtype %q", ErrInvalidArgument, s)
	}
}

// Field is one named quantity sampled at every node. Exactly one of the
// backing slices is non-nil, according to the dtype.
type Field struct {
	name  string
	dtype DType
	f64   []float64
	i64   []int64
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// DType returns the element type.
func (f *Field) DType() DType { return f.dtype }

// Len returns the number of elements.
func (f *Field) Len() int {
	if f.dtype == Int64 {
		return len(f.i64)
	}
	return len(f.f64)
}

// Float64s returns the backing storage of a float64 field, or nil.
func (f *Field) Float64s() []float64 { return f.f64 }

// Int64s returns the backing storage of an int64 field, or nil.
func (f *Field) Int64s() []int64 { return f.i64 }

// Fields holds the named fields attached at one grid location.
type Fields struct {
	size   int
	byName map[string]*Field
}

func newFields(size int) *Fields {
	return &Fields{size: size, byName: make(map[string]*Field)}
}

// Size returns the required length of every field.
func (fs *Fields) Size() int { return fs.size }

// Has reports whether a field named name exists.
func (fs *Fields) Has(name string) bool {
	_, ok := fs.byName[name]
	return ok
}

// Get returns the field named name.
func (fs *Fields) Get(name string) (*Field, bool) {
	f, ok := fs.byName[name]
	return f, ok
}

// Names returns the field names in sorted order.
func (fs *Fields) Names() []string {
	names := make([]string, 0, len(fs.byName))
	for name := range fs.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddZeros attaches a zero-filled field. Without clobber an existing field of
// the same name is an error.
func (fs *Fields) AddZeros(name string, dtype DType, clobber bool) (*Field, error) {
	f := &Field{name: name, dtype: dtype}
	switch dtype {
	case Float64:
		f.f64 = make([]float64, fs.size)
	case Int64:
		f.i64 = make([]int64, fs.size)
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrInvalidArgument, dtype)
	}
	return f, fs.attach(f, clobber)
}

// AddFloat64 attaches values as a float64 field. The slice is used as the
// backing storage, not copied.
func (fs *Fields) AddFloat64(name string, values []float64, clobber bool) (*Field, error) {
	if len(values) != fs.size {
		return nil, fmt.Errorf("%w: field %q has %d values, want %d", ErrInvalidArgument, name, len(values), fs.size)
	}
	f := &Field{name: name, dtype: Float64, f64: values}
	return f, fs.attach(f, clobber)
}

// AddInt64 attaches values as an int64 field. The slice is used as the
// backing storage, not copied.
func (fs *Fields) AddInt64(name string, values []int64, clobber bool) (*Field, error) {
	if len(values) != fs.size {
		return nil, fmt.Errorf("%w: field %q has %d values, want %d", ErrInvalidArgument, name, len(values), fs.size)
	}
	f := &Field{name: name, dtype: Int64, i64: values}
	return f, fs.attach(f, clobber)
}

func (fs *Fields) attach(f *Field, clobber bool) error {
	if _, exists := fs.byName[f.name]; exists && !clobber {
		return fmt.Errorf("%w: %q", ErrFieldExists, f.name)
	}
	fs.byName[f.name] = f
	return nil
}

// Float64 returns the storage of an existing float64 field.
func (fs *Fields) Float64(name string) ([]float64, error) {
	f, ok := fs.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldMissing, name)
	}
	if f.dtype != Float64 {
		return nil, fmt.Errorf("%w: field %q is %s, not float64", ErrInvalidArgument, name, f.dtype)
	}
	return f.f64, nil
}

// Int64 returns the storage of an existing int64 field.
func (fs *Fields) Int64(name string) ([]int64, error) {
	f, ok := fs.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldMissing, name)
	}
	if f.dtype != Int64 {
		return nil, fmt.Errorf("%w: field %q is %s, not int64", ErrInvalidArgument, name, f.dtype)
	}
	return f.i64, nil
}

// GetOrCreateNodeField returns the node field called name, attaching a
// zero-filled one of the given dtype if it does not exist yet. Repeated calls
// return the same storage and never reset existing values. An existing field
// of a different dtype is an error.
func GetOrCreateNodeField(g Grid, name string, dtype DType) (*Field, error) {
	fields := g.AtNode()
	if f, ok := fields.Get(name); ok {
		if f.DType() != dtype {
			return nil, fmt.Errorf("%w: field %q exists as %s, requested %s", ErrInvalidArgument, name, f.DType(), dtype)
		}
		return f, nil
	}
	return fields.AddZeros(name, dtype, true)
}

// GetOrCreateFloat64NodeField is GetOrCreateNodeField for the common float64
// case, returning the backing slice directly.
func GetOrCreateFloat64NodeField(g Grid, name string) ([]float64, error) {
	f, err := GetOrCreateNodeField(g, name, Float64)
	if err != nil {
		return nil, err
	}
	return f.Float64s(), nil
}
