// Package grid provides the spatial mesh the models evolve: a raster of nodes
// with boundary status, neighbour geometry and named per-node fields.
//
// Fields are dense arrays indexed by node. They are created once, then shared
// by reference between the model and every process component that reads or
// writes them; GetOrCreateNodeField is the one way components obtain a field
// without caring whether someone else attached it first.
package grid
