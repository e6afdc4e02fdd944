// Package raster registers the RasterModelGrid class.
package raster

import (
	"fmt"

	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/grid"
	"github.com/vk/bigantr/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the RasterModelGrid constructor.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGrid(grid.RasterKind, NewRasterModelGrid)
}

var knownKeywords = map[string]bool{
	"shape":             true,
	"xy_spacing":        true,
	"spacing":           true,
	"xy_of_lower_left":  true,
	"closed_boundaries": true,
}

// NewRasterModelGrid builds a raster from configuration arguments. The shape
// is the first positional argument or the "shape" keyword; spacing is the
// optional second positional argument or "xy_spacing" (alias "spacing").
func NewRasterModelGrid(args registry.Args) (grid.Grid, error) {
	for k := range args.Keywords {
		if !knownKeywords[k] {
			return nil, fmt.Errorf("%w: unexpected keyword %q", grid.ErrInvalidArgument, k)
		}
	}
	if len(args.Positional) > 2 {
		return nil, fmt.Errorf("%w: expected at most 2 positional arguments, got %d", grid.ErrInvalidArgument, len(args.Positional))
	}

	shapeVal, err := pick(args, 0, "shape")
	if err != nil {
		return nil, err
	}
	shape, err := config.ToNumbers(shapeVal, "shape")
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 || shape[0] != float64(int(shape[0])) || shape[1] != float64(int(shape[1])) {
		return nil, fmt.Errorf("%w: shape must be two integers, got %v", grid.ErrInvalidArgument, shape)
	}

	spacing := 1.0
	if _, hasKw := args.Keyword("xy_spacing", "spacing"); hasKw || len(args.Positional) > 1 {
		v, err := pick(args, 1, "xy_spacing", "spacing")
		if err != nil {
			return nil, err
		}
		if spacing, err = parseSpacing(v); err != nil {
			return nil, err
		}
	}

	var opts []grid.RasterOption
	if v, ok := args.Keyword("xy_of_lower_left"); ok {
		xy, err := config.ToNumbers(v, "xy_of_lower_left")
		if err != nil {
			return nil, err
		}
		if len(xy) != 2 {
			return nil, fmt.Errorf("%w: xy_of_lower_left must have 2 values, got %d", grid.ErrInvalidArgument, len(xy))
		}
		opts = append(opts, grid.WithOrigin(xy[0], xy[1]))
	}

	g, err := grid.NewRaster(int(shape[0]), int(shape[1]), spacing, opts...)
	if err != nil {
		return nil, err
	}

	if v, ok := args.Keyword("closed_boundaries"); ok {
		edges, err := parseEdges(v)
		if err != nil {
			return nil, err
		}
		g.SetClosedBoundariesAtGridEdges(edges[0], edges[1], edges[2], edges[3])
	}
	return g, nil
}

// pick returns positional argument i, or else the first keyword present.
// Giving the same argument both ways is an error.
func pick(args registry.Args, i int, names ...string) (config.Value, error) {
	kw, hasKw := args.Keyword(names...)
	hasPos := len(args.Positional) > i
	switch {
	case hasPos && hasKw:
		return config.Value{}, fmt.Errorf("%w: %s given both positionally and by keyword", grid.ErrInvalidArgument, names[0])
	case hasPos:
		return args.Positional[i], nil
	case hasKw:
		return kw, nil
	default:
		return config.Value{}, fmt.Errorf("%w: missing argument %s", grid.ErrInvalidArgument, names[0])
	}
}

// parseSpacing accepts a single spacing or an (dx, dy) pair. Only square
// cells are supported, so the pair must be equal.
func parseSpacing(v config.Value) (float64, error) {
	s, err := config.ToNumbers(v, "xy_spacing")
	if err != nil {
		return 0, err
	}
	switch {
	case len(s) == 1:
		return s[0], nil
	case len(s) == 2 && s[0] == s[1]:
		return s[0], nil
	default:
		return 0, fmt.Errorf("%w: raster spacing must be a single value or an equal pair, got %v", grid.ErrInvalidArgument, s)
	}
}

// parseEdges reads closed_boundaries as four booleans: right, top, left, bottom.
func parseEdges(v config.Value) ([4]bool, error) {
	var edges [4]bool
	items, ok := v.AsList()
	if !ok || len(items) != 4 {
		return edges, fmt.Errorf("%w: closed_boundaries must be a list of 4 booleans", grid.ErrInvalidArgument)
	}
	for i, item := range items {
		b, ok := item.AsBool()
		if !ok {
			return edges, fmt.Errorf("%w: closed_boundaries[%d] must be a boolean, got %s", grid.ErrInvalidArgument, i, item.Kind())
		}
		edges[i] = b
	}
	return edges, nil
}
