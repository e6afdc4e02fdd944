package grid

import (
	"fmt"
	"math"
)

// NodeStatus is the boundary condition of a node.
type NodeStatus uint8

const (
	// StatusCore nodes are interior nodes whose values evolve.
	StatusCore NodeStatus = 0
	// StatusFixedValue nodes are open boundaries held at a fixed value; flow
	// leaves the domain through them.
	StatusFixedValue NodeStatus = 1
	// StatusFixedGradient nodes are open boundaries with a fixed gradient.
	StatusFixedGradient NodeStatus = 2
	// StatusLooped nodes wrap around to the opposite edge.
	StatusLooped NodeStatus = 3
	// StatusClosed nodes take no part in flow or transport.
	StatusClosed NodeStatus = 4
)

// IsOpenBoundary reports whether flow can exit the domain through the node.
func (s NodeStatus) IsOpenBoundary() bool {
	return s == StatusFixedValue || s == StatusFixedGradient
}

// RasterKind is the class name of Raster in configuration and checkpoints.
const RasterKind = "RasterModelGrid"

// Neighbor is an adjacent node and its centre-to-centre distance.
type Neighbor struct {
	Node     int
	Distance float64
}

// Grid is a mesh of nodes carrying named fields.
type Grid interface {
	// Kind is the grid class name, e.g. "RasterModelGrid".
	Kind() string
	NumberOfNodes() int
	// CoreNodes returns the interior node ids in ascending order.
	CoreNodes() []int
	// NodeStatus returns the status of every node. Callers must not modify it.
	NodeStatus() []NodeStatus
	// Neighbors appends the neighbours of node to buf and returns it. With
	// diagonals the eight-connected neighbourhood is returned, otherwise the
	// four orthogonal neighbours.
	Neighbors(node int, diagonals bool, buf []Neighbor) []Neighbor
	// CellArea is the area of the cell around node; zero for perimeter nodes.
	CellArea(node int) float64
	NodeXY(node int) (x, y float64)
	AtNode() *Fields
}

// Raster is a regular rectangular grid of rows x cols nodes with equal
// spacing in x and y. Nodes are numbered row by row from the lower-left
// corner.
type Raster struct {
	rows, cols int
	dx         float64
	x0, y0     float64
	status     []NodeStatus
	core       []int
	atNode     *Fields
}

// RasterOption customises NewRaster.
type RasterOption func(*Raster)

// WithOrigin places the lower-left node at (x, y).
func WithOrigin(x, y float64) RasterOption {
	return func(r *Raster) {
		r.x0, r.y0 = x, y
	}
}

// NewRaster builds a raster whose perimeter nodes are open fixed-value
// boundaries and whose interior nodes are core nodes.
func NewRaster(rows, cols int, spacing float64, opts ...RasterOption) (*Raster, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: raster shape must be positive, got (%d, %d)", ErrInvalidArgument, rows, cols)
	}
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil, fmt.Errorf("%w: raster spacing must be positive and finite, got %g", ErrInvalidArgument, spacing)
	}

	r := &Raster{
		rows:   rows,
		cols:   cols,
		dx:     spacing,
		status: make([]NodeStatus, rows*cols),
		atNode: newFields(rows * cols),
	}
	for _, opt := range opts {
		opt(r)
	}
	for node := range r.status {
		if r.isPerimeter(node) {
			r.status[node] = StatusFixedValue
		} else {
			r.status[node] = StatusCore
		}
	}
	r.refreshCore()
	return r, nil
}

// Kind implements Grid.
func (r *Raster) Kind() string { return RasterKind }

// Shape returns the number of node rows and columns.
func (r *Raster) Shape() (rows, cols int) { return r.rows, r.cols }

// Spacing returns the node spacing.
func (r *Raster) Spacing() float64 { return r.dx }

// Origin returns the coordinates of the lower-left node.
func (r *Raster) Origin() (x, y float64) { return r.x0, r.y0 }

// NumberOfNodes implements Grid.
func (r *Raster) NumberOfNodes() int { return r.rows * r.cols }

// CoreNodes implements Grid.
func (r *Raster) CoreNodes() []int { return r.core }

// NodeStatus implements Grid.
func (r *Raster) NodeStatus() []NodeStatus { return r.status }

// AtNode implements Grid.
func (r *Raster) AtNode() *Fields { return r.atNode }

// NodeXY implements Grid.
func (r *Raster) NodeXY(node int) (x, y float64) {
	row, col := node/r.cols, node%r.cols
	return r.x0 + float64(col)*r.dx, r.y0 + float64(row)*r.dx
}

// CellArea implements Grid.
func (r *Raster) CellArea(node int) float64 {
	if r.isPerimeter(node) {
		return 0
	}
	return r.dx * r.dx
}

// Neighbors implements Grid. Order is E, N, W, S, then NE, NW, SW, SE.
func (r *Raster) Neighbors(node int, diagonals bool, buf []Neighbor) []Neighbor {
	row, col := node/r.cols, node%r.cols
	offsets := orthogonalOffsets[:]
	if diagonals {
		offsets = allOffsets[:]
	}
	for _, off := range offsets {
		nr, nc := row+off.dr, col+off.dc
		if nr < 0 || nr >= r.rows || nc < 0 || nc >= r.cols {
			continue
		}
		buf = append(buf, Neighbor{Node: nr*r.cols + nc, Distance: off.length * r.dx})
	}
	return buf
}

// SetStatus replaces the status of every node, e.g. when restoring a saved
// grid.
func (r *Raster) SetStatus(status []NodeStatus) error {
	if len(status) != len(r.status) {
		return fmt.Errorf("%w: got %d node statuses, want %d", ErrInvalidArgument, len(status), len(r.status))
	}
	copy(r.status, status)
	r.refreshCore()
	return nil
}

// SetClosedBoundariesAtGridEdges closes (true) or opens (false) the perimeter
// nodes of each edge. A corner is closed when either of its edges is.
func (r *Raster) SetClosedBoundariesAtGridEdges(right, top, left, bottom bool) {
	for node := range r.status {
		if !r.isPerimeter(node) {
			continue
		}
		row, col := node/r.cols, node%r.cols
		closed := (right && col == r.cols-1) ||
			(top && row == r.rows-1) ||
			(left && col == 0) ||
			(bottom && row == 0)
		switch {
		case closed:
			r.status[node] = StatusClosed
		case r.status[node] == StatusClosed:
			r.status[node] = StatusFixedValue
		}
	}
	r.refreshCore()
}

func (r *Raster) isPerimeter(node int) bool {
	row, col := node/r.cols, node%r.cols
	return row == 0 || col == 0 || row == r.rows-1 || col == r.cols-1
}

func (r *Raster) refreshCore() {
	core := make([]int, 0, len(r.status))
	for node, s := range r.status {
		if s == StatusCore {
			core = append(core, node)
		}
	}
	r.core = core
}

type offset struct {
	dr, dc int
	length float64
}

var orthogonalOffsets = [4]offset{
	{0, 1, 1}, {1, 0, 1}, {0, -1, 1}, {-1, 0, 1},
}

var allOffsets = [8]offset{
	{0, 1, 1}, {1, 0, 1}, {0, -1, 1}, {-1, 0, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2},
}
