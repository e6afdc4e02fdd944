package hcl

import (
	"errors"
	"fmt"

	"github.com/vk/bigantr/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// fromCty converts a fully known cty value into a config.Value. Numbers become
// float64, lists, sets and tuples become lists, maps and objects become
// sections.
func fromCty(val cty.Value) (config.Value, error) {
	val, _ = val.Unmark()
	if val.IsNull() {
		return config.Null(), nil
	}
	if !val.IsWhollyKnown() {
		return config.Value{}, errors.New("value is not known at load time")
	}

	ty := val.Type()
	switch {
	case ty.Equals(cty.Bool):
		return config.Bool(val.True()), nil
	case ty.Equals(cty.Number):
		f, _ := val.AsBigFloat().Float64()
		return config.Number(f), nil
	case ty.Equals(cty.String):
		return config.String(val.AsString()), nil
	case ty.IsListType(), ty.IsSetType(), ty.IsTupleType():
		var items []config.Value
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			item, err := fromCty(elem)
			if err != nil {
				return config.Value{}, fmt.Errorf("index %d: %w", len(items), err)
			}
			items = append(items, item)
		}
		return config.List(items...), nil
	case ty.IsMapType(), ty.IsObjectType():
		m := config.Map{}
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			item, err := fromCty(elem)
			if err != nil {
				return config.Value{}, fmt.Errorf("key %q: %w", key.AsString(), err)
			}
			m[key.AsString()] = item
		}
		return config.Section(m), nil
	default:
		return config.Value{}, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
