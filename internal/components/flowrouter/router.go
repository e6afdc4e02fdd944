package flowrouter

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"github.com/vk/bigantr/internal/grid"
)

// Flow metrics.
const (
	MetricD8 = "D8"
	MetricD4 = "D4"
)

// HandlerFill is the only supported depression handler.
const HandlerFill = "fill"

// Field names.
const (
	FieldFilled        = "depression_free_elevation"
	FieldReceiver      = "flow__receiver_node"
	FieldOrder         = "flow__upstream_node_order"
	FieldLinkLength    = "flow__link_length"
	FieldSlope         = "topographic__steepest_slope"
	FieldDrainageArea  = "drainage_area"
	FieldDischarge     = "surface_water__discharge"
	FieldWaterInput    = "water__unit_flux_in"
	DefaultSurfaceName = "topographic__elevation"
)

// Params configures a PriorityFlood router.
type Params struct {
	// Surface names the float64 node field to route over.
	Surface string
	// FlowMetric is MetricD8 or MetricD4.
	FlowMetric string
	// UpdateFlowDepressions fills depressions before routing. When false,
	// nodes in pits become sinks.
	UpdateFlowDepressions bool
	DepressionHandler     string
	Epsilon               bool
	AccumulateFlow        bool
	// RunoffRate is the water input per unit area used when the grid has no
	// water__unit_flux_in field.
	RunoffRate float64
}

// DefaultParams returns the router defaults.
func DefaultParams() Params {
	return Params{
		Surface:               DefaultSurfaceName,
		FlowMetric:            MetricD8,
		UpdateFlowDepressions: true,
		DepressionHandler:     HandlerFill,
		Epsilon:               true,
		AccumulateFlow:        true,
		RunoffRate:            1,
	}
}

// PriorityFlood is a flow director and accumulator.
type PriorityFlood struct {
	g         grid.Grid
	p         Params
	diagonals bool

	surface   []float64
	filled    []float64
	receiver  []int64
	order     []int64
	length    []float64
	slope     []float64
	area      []float64
	discharge []float64

	// parent is the node each node was flooded from, or -1.
	parent []int
	queue  nodeQueue
	nbuf   []grid.Neighbor
}

// New validates p and attaches the output fields to g.
func New(g grid.Grid, p Params) (*PriorityFlood, error) {
	r := &PriorityFlood{g: g, p: p}
	switch p.FlowMetric {
	case MetricD8:
		r.diagonals = true
	case MetricD4:
	default:
		return nil, fmt.Errorf("%w: flow_metric must be %q or %q, got %q", grid.ErrInvalidArgument, MetricD8, MetricD4, p.FlowMetric)
	}
	if p.UpdateFlowDepressions && p.DepressionHandler != HandlerFill {
		return nil, fmt.Errorf("%w: depression_handler must be %q, got %q", grid.ErrInvalidArgument, HandlerFill, p.DepressionHandler)
	}
	if p.Surface == "" {
		r.p.Surface = DefaultSurfaceName
	}

	var err error
	if r.surface, err = grid.GetOrCreateFloat64NodeField(g, r.p.Surface); err != nil {
		return nil, err
	}
	if r.filled, err = grid.GetOrCreateFloat64NodeField(g, FieldFilled); err != nil {
		return nil, err
	}
	if r.length, err = grid.GetOrCreateFloat64NodeField(g, FieldLinkLength); err != nil {
		return nil, err
	}
	if r.slope, err = grid.GetOrCreateFloat64NodeField(g, FieldSlope); err != nil {
		return nil, err
	}
	recv, err := grid.GetOrCreateNodeField(g, FieldReceiver, grid.Int64)
	if err != nil {
		return nil, err
	}
	r.receiver = recv.Int64s()
	order, err := grid.GetOrCreateNodeField(g, FieldOrder, grid.Int64)
	if err != nil {
		return nil, err
	}
	r.order = order.Int64s()
	if p.AccumulateFlow {
		if r.area, err = grid.GetOrCreateFloat64NodeField(g, FieldDrainageArea); err != nil {
			return nil, err
		}
		if r.discharge, err = grid.GetOrCreateFloat64NodeField(g, FieldDischarge); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RunOneStep implements components.Component. Routing is instantaneous, so
// dt is ignored.
func (r *PriorityFlood) RunOneStep(float64) error {
	r.direct()
	if r.p.AccumulateFlow {
		r.accumulate()
	}
	return nil
}

// direct computes the filled surface, receivers, slopes and the upstream order.
func (r *PriorityFlood) direct() {
	status := r.g.NodeStatus()
	n := r.g.NumberOfNodes()

	flooded := r.p.UpdateFlowDepressions
	if flooded {
		r.flood(status)
	} else {
		copy(r.filled, r.surface)
	}

	for node := 0; node < n; node++ {
		r.receiver[node] = int64(node)
		r.length[node] = 0
		r.slope[node] = 0
		if status[node] != grid.StatusCore {
			continue
		}
		best := -1
		bestSlope := 0.0
		bestDist := 0.0
		r.nbuf = r.g.Neighbors(node, r.diagonals, r.nbuf[:0])
		for _, nb := range r.nbuf {
			if status[nb.Node] == grid.StatusClosed {
				continue
			}
			s := (r.filled[node] - r.filled[nb.Node]) / nb.Distance
			if s > bestSlope {
				best, bestSlope, bestDist = nb.Node, s, nb.Distance
			}
		}
		if best < 0 && flooded && r.parent[node] >= 0 {
			// Flat filled without epsilon: drain toward the node it was
			// flooded from.
			best = r.parent[node]
			bestDist = distanceTo(r.nbuf, best)
		}
		if best >= 0 {
			r.receiver[node] = int64(best)
			r.slope[node] = bestSlope
			r.length[node] = bestDist
		}
	}

	if !flooded {
		r.sortOrder()
	}
	// With flooding, order was filled in pop order by flood. Steepest-descent
	// receivers are strictly lower, and pops are non-decreasing, so every
	// receiver is already ahead of its donors. The same holds for the
	// elevation-sorted tail of unreachable nodes.
}

// flood fills depressions with a priority queue seeded by the open boundary
// nodes and records the pop order.
func (r *PriorityFlood) flood(status []grid.NodeStatus) {
	n := r.g.NumberOfNodes()
	visited := make([]bool, n)
	if r.parent == nil {
		r.parent = make([]int, n)
	}
	r.queue = r.queue[:0]
	for node := 0; node < n; node++ {
		r.parent[node] = -1
		r.filled[node] = r.surface[node]
		if status[node].IsOpenBoundary() {
			visited[node] = true
			heap.Push(&r.queue, queued{node: node, elev: r.surface[node]})
		}
	}

	k := 0
	for r.queue.Len() > 0 {
		c := heap.Pop(&r.queue).(queued)
		r.order[k] = int64(c.node)
		k++
		r.nbuf = r.g.Neighbors(c.node, r.diagonals, r.nbuf[:0])
		for _, nb := range r.nbuf {
			if visited[nb.Node] || status[nb.Node] == grid.StatusClosed {
				continue
			}
			visited[nb.Node] = true
			r.parent[nb.Node] = c.node
			floor := c.elev
			if r.p.Epsilon {
				floor = math.Nextafter(c.elev, math.Inf(1))
			}
			if r.filled[nb.Node] < floor {
				r.filled[nb.Node] = floor
			}
			heap.Push(&r.queue, queued{node: nb.Node, elev: r.filled[nb.Node]})
		}
	}
	// Nodes unreachable from an open boundary, closed nodes included, keep
	// their elevation. Their steepest-descent receivers lie among themselves
	// and strictly lower, so ordering them by elevation keeps receivers ahead
	// of donors.
	reached := k
	for node := 0; node < n; node++ {
		if !visited[node] {
			r.order[k] = int64(node)
			k++
		}
	}
	tail := r.order[reached:]
	sort.SliceStable(tail, func(i, j int) bool {
		return r.filled[tail[i]] < r.filled[tail[j]]
	})
}

func (r *PriorityFlood) sortOrder() {
	for i := range r.order {
		r.order[i] = int64(i)
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		return r.filled[r.order[i]] < r.filled[r.order[j]]
	})
}

// accumulate sums drainage area and discharge from upstream to downstream.
func (r *PriorityFlood) accumulate() {
	var runoff []float64
	if f, ok := r.g.AtNode().Get(FieldWaterInput); ok && f.DType() == grid.Float64 {
		runoff = f.Float64s()
	}
	for node := range r.area {
		a := r.g.CellArea(node)
		r.area[node] = a
		if runoff != nil {
			r.discharge[node] = a * runoff[node]
		} else {
			r.discharge[node] = a * r.p.RunoffRate
		}
	}
	for i := len(r.order) - 1; i >= 0; i-- {
		node := r.order[i]
		recv := r.receiver[node]
		if recv == node {
			continue
		}
		r.area[recv] += r.area[node]
		r.discharge[recv] += r.discharge[node]
	}
}

func distanceTo(nbs []grid.Neighbor, node int) float64 {
	for _, nb := range nbs {
		if nb.Node == node {
			return nb.Distance
		}
	}
	return 0
}

type queued struct {
	node int
	elev float64
}

// nodeQueue is a min-heap on elevation, ties broken by node id so that the
// fill is deterministic.
type nodeQueue []queued

func (q nodeQueue) Len() int { return len(q) }
func (q nodeQueue) Less(i, j int) bool {
	if q[i].elev != q[j].elev {
		return q[i].elev < q[j].elev
	}
	return q[i].node < q[j].node
}
func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)   { *q = append(*q, x.(queued)) }
func (q *nodeQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	*q = old[:len(old)-1]
	return last
}
