// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file renders a node field of a raster grid as a PNG image.
package model

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/vk/bigantr/internal/grid"
	"gonum.org/v1/gonum/floats"
)

// terrainRamp maps a normalised value in [0, 1] to a colour, low to high:
// deep green, pale green, tan, brown, white.
var terrainRamp = []struct {
	at  float64
	rgb [3]float64
}{
	{0.00, [3]float64{0x1a, 0x66, 0x33}},
	{0.25, [3]float64{0x7f, 0xbf, 0x6a}},
	{0.50, [3]float64{0xd9, 0xc8, 0x8c}},
	{0.75, [3]float64{0x8c, 0x5a, 0x3c}},
	{1.00, [3]float64{0xff, 0xff, 0xff}},
}

// rampColor interpolates terrainRamp at t.
func rampColor(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	for i := 1; i < len(terrainRamp); i++ {
		lo, hi := terrainRamp[i-1], terrainRamp[i]
		if t > hi.at {
			continue
		}
		f := (t - lo.at) / (hi.at - lo.at)
		var c [3]uint8
		for k := range c {
			c[k] = uint8(math.Round(lo.rgb[k] + f*(hi.rgb[k]-lo.rgb[k])))
		}
		return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
	}
	last := terrainRamp[len(terrainRamp)-1].rgb
	return color.RGBA{R: uint8(last[0]), G: uint8(last[1]), B: uint8(last[2]), A: 0xff}
}

// renderField draws one pixel per node with the first row at the bottom of
// the image. Closed nodes are black.
func renderField(r *grid.Raster, values []float64) *image.RGBA {
	rows, cols := r.Shape()
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))

	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	status := r.NodeStatus()
	for node, v := range values {
		row, col := node/cols, node%cols
		y := rows - 1 - row
		if status[node] == grid.StatusClosed {
			img.SetRGBA(col, y, color.RGBA{A: 0xff})
			continue
		}
		t := 0.5
		if span > 0 {
			t = (v - lo) / span
		}
		img.SetRGBA(col, y, rampColor(t))
	}
	return img
}

func writeFieldPNG(g grid.Grid, field, path string) error {
	r, ok := g.(*grid.Raster)
	if !ok {
		return fmt.Errorf("%w: cannot plot grid of kind %q", grid.ErrInvalidArgument, g.Kind())
	}
	values, err := g.AtNode().Float64(field)
	if err != nil {
		return fmt.Errorf("failed to plot: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	if err := png.Encode(f, renderField(r, values)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	return f.Close()
}
