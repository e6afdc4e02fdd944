// Package provision builds the model grid from the "grid" section of the run
// parameters. The section's "source" selects one of three strategies:
//
//	create       build a new grid from create_grid = { <Class> = <args> }
//	file         load a saved grid from grid_file_name
//	grid_object  use the grid.Grid passed in grid_object as-is
//
// An optional "fields" section maps node field names to constant initial
// values; fields the grid already carries are left untouched.
package provision

import (
	"context"
	"fmt"

	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/ctxlog"
	"github.com/vk/bigantr/internal/grid"
	"github.com/vk/bigantr/internal/gridio"
	"github.com/vk/bigantr/internal/registry"
)

// Grid sources.
const (
	SourceCreate     = "create"
	SourceFile       = "file"
	SourceGridObject = "grid_object"
)

// Grid provisions a grid according to spec, resolving class names through reg.
func Grid(ctx context.Context, spec config.Map, reg *registry.Registry) (grid.Grid, error) {
	logger := ctxlog.FromContext(ctx)

	srcVal, _ := spec.Lookup("source")
	source, _ := srcVal.AsString()

	var (
		g   grid.Grid
		err error
	)
	switch source {
	case SourceCreate:
		g, err = create(spec, reg)
	case SourceFile:
		g, err = fromFile(spec)
	case SourceGridObject:
		g, err = fromObject(spec)
	default:
		return nil, fmt.Errorf("%w: grid source must be %q, %q or %q, got %#v",
			grid.ErrInvalidArgument, SourceCreate, SourceFile, SourceGridObject, srcVal)
	}
	if err != nil {
		return nil, err
	}

	if err := initFields(g, spec); err != nil {
		return nil, err
	}
	logger.Debug("Provisioned grid.", "source", source, "kind", g.Kind(), "nodes", g.NumberOfNodes())
	return g, nil
}

func create(spec config.Map, reg *registry.Registry) (grid.Grid, error) {
	classes, err := spec.Section("create_grid")
	if err != nil {
		return nil, err
	}
	if len(classes) != 1 {
		return nil, fmt.Errorf("%w: create_grid must name exactly one grid class, got %v", grid.ErrInvalidArgument, classes.Keys())
	}
	name := classes.Keys()[0]
	args, err := registry.ArgsFromValue(classes[name])
	if err != nil {
		return nil, fmt.Errorf("create_grid.%s: %w", name, err)
	}
	return reg.NewGrid(name, args)
}

func fromFile(spec config.Map) (grid.Grid, error) {
	path, err := spec.Text("grid_file_name")
	if err != nil {
		return nil, err
	}
	cp, err := gridio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load grid file: %w", err)
	}
	return cp.Grid, nil
}

func fromObject(spec config.Map) (grid.Grid, error) {
	v, _ := spec.Lookup("grid_object")
	obj, _ := v.AsObject()
	g, ok := obj.(grid.Grid)
	if !ok || g == nil {
		return nil, fmt.Errorf("%w: grid_object must be a grid, got %#v", grid.ErrInvalidArgument, v)
	}
	return g, nil
}

func initFields(g grid.Grid, spec config.Map) error {
	if !spec.Has("fields") {
		return nil
	}
	v, _ := spec.Lookup("fields")
	if v.IsNull() {
		return nil
	}
	fields, err := spec.Section("fields")
	if err != nil {
		return err
	}
	for _, name := range fields.Keys() {
		if g.AtNode().Has(name) {
			continue
		}
		value, err := fields.Number(name)
		if err != nil {
			return fmt.Errorf("grid.fields: %w", err)
		}
		data, err := grid.GetOrCreateFloat64NodeField(g, name)
		if err != nil {
			return err
		}
		for i := range data {
			data[i] = value
		}
	}
	return nil
}
