// Package hcl provides the HCL implementation of config.Loader. It reads both
// the native HCL syntax and the HCL JSON syntax, and translates the resulting
// cty values into the format-agnostic config tree.
//
// In native syntax a section may be written either as an object attribute
// (clock = { stop = 100 }) or as a block (clock { stop = 100 }). Block labels
// add nesting levels, so
//
//	grid {
//	  source = "create"
//	  create_grid "RasterModelGrid" {
//	    shape      = [31, 31]
//	    xy_spacing = 1000
//	  }
//	}
//
// yields grid.create_grid.RasterModelGrid = {shape = [31, 31], xy_spacing = 1000}.
// Expressions are evaluated without variables or functions.
package hcl
