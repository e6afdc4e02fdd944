package registry

import (
	"fmt"

	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/grid"
)

// Args are the construction arguments of a grid class.
type Args struct {
	Positional []config.Value
	Keywords   config.Map
}

// ArgsFromValue interprets the value given for a class in a create_grid
// section. A map is taken as keyword arguments. In a list, every map element
// contributes keyword arguments and every other element is positional, so
// [[31, 31], {xy_spacing = 1000}] is one positional shape plus one keyword.
// Null means no arguments.
func ArgsFromValue(v config.Value) (Args, error) {
	args := Args{Keywords: config.Map{}}
	switch v.Kind() {
	case config.KindNull:
		return args, nil
	case config.KindMap:
		m, _ := v.AsMap()
		for k, kv := range m {
			args.Keywords[k] = kv
		}
		return args, nil
	case config.KindList:
		items, _ := v.AsList()
		for _, item := range items {
			m, isMap := item.AsMap()
			if !isMap {
				args.Positional = append(args.Positional, item)
				continue
			}
			for k, kv := range m {
				if _, dup := args.Keywords[k]; dup {
					return Args{}, fmt.Errorf("%w: keyword %q given twice", grid.ErrInvalidArgument, k)
				}
				args.Keywords[k] = kv
			}
		}
		return args, nil
	default:
		return Args{}, fmt.Errorf("%w: grid arguments must be a list or map, got %s", grid.ErrInvalidArgument, v.Kind())
	}
}

// Keyword returns the first of names present in the keyword arguments.
func (a Args) Keyword(names ...string) (config.Value, bool) {
	for _, name := range names {
		if v, ok := a.Keywords[name]; ok {
			return v, true
		}
	}
	return config.Value{}, false
}
