// Package gravel implements a gravel/bedrock river eroder: bedload transport
// of one or more gravel size classes over a bedrock channel bed that is
// lowered by plucking and by abrasion from the passing sediment.
//
// Per core node, with discharge Q, slope S toward the receiver, sediment
// thickness H and flow length L:
//
//	exposure   = exp(-H / depth_decay_scale)
//	Qs_out     = kQ * I * Q * S^(7/6) * (1 - exposure)
//	pluck      = kp * I * Q * S^(7/6) * exposure / L
//	dH_c/dt    = (Qs_in_c - Qs_out_c - abr_c + f_c * pluck * A) / (A * (1 - phi))
//	dR/dt      = -(pluck + rock abrasion)
//
// where abr_c = beta_c * (Qs_in_c + Qs_out_c)/2 * L is the volume of class c
// lost to abrasion and rock abrasion uses the coefficient of the class named
// by rock_abrasion_index. Outflux is split between classes in proportion to
// their share of H.
//
// topographic__elevation is authoritative: at the start of every step
// bedrock__elevation is re-derived as elevation minus soil depth, so forcing
// applied to the topography, such as uplift, carries into the bedrock.
package gravel

import (
	"fmt"
	"math"

	"github.com/vk/bigantr/internal/grid"
)

const sevenSixths = 7.0 / 6.0

// Field names.
const (
	FieldElevation  = "topographic__elevation"
	FieldSoilDepth  = "soil__depth"
	FieldBedrock    = "bedrock__elevation"
	FieldOutflux    = "bedload_sediment__volume_outflux"
	FieldExposure   = "bedrock__exposure_fraction"
	FieldPluckRate  = "bedrock__plucking_rate"
	FieldAbrasion   = "bedrock__abrasion_rate"
	FieldSedRate    = "sediment__rate_of_change"
	fieldReceiver   = "flow__receiver_node"
	fieldSlope      = "topographic__steepest_slope"
	fieldDischarge  = "surface_water__discharge"
	fieldFlowLength = "flow__link_length"
)

// Params configures an Eroder. Per-class slices must have
// NumberOfSedimentClasses entries.
type Params struct {
	IntermittencyFactor         float64
	TransportCoefficient        float64
	SedimentPorosity            float64
	DepthDecayScale             float64
	PluckingCoefficient         float64
	NumberOfSedimentClasses     int
	InitThicknessPerClass       []float64
	AbrasionCoefficients        []float64
	CoarseFractionsFromPlucking []float64
	RockAbrasionIndex           int
}

// DefaultParams returns a single-class configuration.
func DefaultParams() Params {
	return Params{
		IntermittencyFactor:         0.01,
		TransportCoefficient:        0.041,
		SedimentPorosity:            1.0 / 3.0,
		DepthDecayScale:             1,
		PluckingCoefficient:         1e-4,
		NumberOfSedimentClasses:     1,
		InitThicknessPerClass:       []float64{1},
		AbrasionCoefficients:        []float64{1e-4},
		CoarseFractionsFromPlucking: []float64{0.5},
		RockAbrasionIndex:           0,
	}
}

// Validate checks parameter ranges and per-class slice lengths.
func (p Params) Validate() error {
	n := p.NumberOfSedimentClasses
	if n < 1 {
		return fmt.Errorf("%w: number_of_sediment_classes must be at least 1, got %d", grid.ErrInvalidArgument, n)
	}
	for name, values := range map[string][]float64{
		"init_thickness_per_class":       p.InitThicknessPerClass,
		"abrasion_coefficients":          p.AbrasionCoefficients,
		"coarse_fractions_from_plucking": p.CoarseFractionsFromPlucking,
	} {
		if len(values) != n {
			return fmt.Errorf("%w: %s has %d entries, want %d", grid.ErrInvalidArgument, name, len(values), n)
		}
		for _, v := range values {
			if v < 0 {
				return fmt.Errorf("%w: %s must not be negative, got %g", grid.ErrInvalidArgument, name, v)
			}
		}
	}
	total := 0.0
	for _, v := range p.InitThicknessPerClass {
		total += v
	}
	if total == 0 {
		return fmt.Errorf("%w: init_thickness_per_class must not be all zero", grid.ErrInvalidArgument)
	}
	if p.RockAbrasionIndex < 0 || p.RockAbrasionIndex >= n {
		return fmt.Errorf("%w: rock_abrasion_index %d out of range [0, %d)", grid.ErrInvalidArgument, p.RockAbrasionIndex, n)
	}
	if p.SedimentPorosity < 0 || p.SedimentPorosity >= 1 {
		return fmt.Errorf("%w: sediment_porosity must be in [0, 1), got %g", grid.ErrInvalidArgument, p.SedimentPorosity)
	}
	if !(p.DepthDecayScale > 0) {
		return fmt.Errorf("%w: depth_decay_scale must be positive, got %g", grid.ErrInvalidArgument, p.DepthDecayScale)
	}
	return nil
}

// Eroder updates bed elevation, sediment thickness and bedrock elevation from
// the flow fields a router left on the grid.
type Eroder struct {
	g grid.Grid
	p Params

	elev, soil, bedrock                  []float64
	receiver                             []int64
	slope, discharge, flowLength         []float64
	outflux, exposure, pluck, rockAbrade []float64
	sedRate                              []float64

	// frac[c][node] is the share of soil__depth held by class c.
	frac [][]float64
	// scratch per class
	qsIn, qsOut, dH [][]float64
}

// New validates p and attaches the fields the eroder needs to g. The router
// fields must already exist. Missing bedrock__elevation is derived as
// elevation minus soil depth. The initial soil depth is split between classes
// in the proportions of InitThicknessPerClass.
func New(g grid.Grid, p Params) (*Eroder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Eroder{g: g, p: p}
	fields := g.AtNode()

	var err error
	for _, req := range []struct {
		name string
		dst  *[]float64
	}{
		{fieldSlope, &e.slope},
		{fieldDischarge, &e.discharge},
		{fieldFlowLength, &e.flowLength},
	} {
		if *req.dst, err = fields.Float64(req.name); err != nil {
			return nil, fmt.Errorf("eroder needs routed flow: %w", err)
		}
	}
	if e.receiver, err = fields.Int64(fieldReceiver); err != nil {
		return nil, fmt.Errorf("eroder needs routed flow: %w", err)
	}

	if e.elev, err = grid.GetOrCreateFloat64NodeField(g, FieldElevation); err != nil {
		return nil, err
	}
	if e.soil, err = grid.GetOrCreateFloat64NodeField(g, FieldSoilDepth); err != nil {
		return nil, err
	}
	hadBedrock := fields.Has(FieldBedrock)
	if e.bedrock, err = grid.GetOrCreateFloat64NodeField(g, FieldBedrock); err != nil {
		return nil, err
	}
	if !hadBedrock {
		for i := range e.bedrock {
			e.bedrock[i] = e.elev[i] - e.soil[i]
		}
	}
	for _, out := range []struct {
		name string
		dst  *[]float64
	}{
		{FieldOutflux, &e.outflux},
		{FieldExposure, &e.exposure},
		{FieldPluckRate, &e.pluck},
		{FieldAbrasion, &e.rockAbrade},
		{FieldSedRate, &e.sedRate},
	} {
		if *out.dst, err = grid.GetOrCreateFloat64NodeField(g, out.name); err != nil {
			return nil, err
		}
	}

	n := g.NumberOfNodes()
	total := 0.0
	for _, v := range p.InitThicknessPerClass {
		total += v
	}
	classes := p.NumberOfSedimentClasses
	e.frac = make([][]float64, classes)
	e.qsIn = make([][]float64, classes)
	e.qsOut = make([][]float64, classes)
	e.dH = make([][]float64, classes)
	for c := 0; c < classes; c++ {
		e.frac[c] = make([]float64, n)
		e.qsIn[c] = make([]float64, n)
		e.qsOut[c] = make([]float64, n)
		e.dH[c] = make([]float64, n)
		share := p.InitThicknessPerClass[c] / total
		for i := range e.frac[c] {
			e.frac[c][i] = share
		}
	}
	return e, nil
}

// ClassThickness returns the sediment thickness of class c at node.
func (e *Eroder) ClassThickness(c, node int) float64 {
	return e.soil[node] * e.frac[c][node]
}

// RunOneStep implements components.Component.
func (e *Eroder) RunOneStep(dt float64) error {
	if dt < 0 {
		return fmt.Errorf("%w: negative time step %g", grid.ErrInvalidArgument, dt)
	}
	status := e.g.NodeStatus()
	classes := e.p.NumberOfSedimentClasses
	rockBeta := e.p.AbrasionCoefficients[e.p.RockAbrasionIndex]

	for c := 0; c < classes; c++ {
		clear(e.qsIn[c])
		clear(e.qsOut[c])
		clear(e.dH[c])
	}
	clear(e.outflux)
	clear(e.pluck)
	clear(e.rockAbrade)
	clear(e.sedRate)
	for _, node := range e.g.CoreNodes() {
		e.bedrock[node] = e.elev[node] - e.soil[node]
	}

	// Transport capacity and plucking from the current state.
	for node, s := range status {
		h := e.soil[node]
		if h < 0 {
			h = 0
		}
		exposure := math.Exp(-h / e.p.DepthDecayScale)
		e.exposure[node] = exposure
		if s != grid.StatusCore || int64(node) == e.receiver[node] || e.slope[node] <= 0 {
			continue
		}
		power := e.p.IntermittencyFactor * e.discharge[node] * math.Pow(e.slope[node], sevenSixths)
		qs := e.p.TransportCoefficient * power * (1 - exposure)
		e.outflux[node] = qs
		for c := 0; c < classes; c++ {
			e.qsOut[c][node] = qs * e.frac[c][node]
		}
		if l := e.flowLength[node]; l > 0 {
			e.pluck[node] = e.p.PluckingCoefficient * power * exposure / l
		}
	}

	// Sediment arriving from donors.
	for node := range status {
		recv := e.receiver[node]
		if recv == int64(node) {
			continue
		}
		for c := 0; c < classes; c++ {
			e.qsIn[c][recv] += e.qsOut[c][node]
		}
	}

	for node, s := range status {
		area := e.g.CellArea(node)
		if s != grid.StatusCore || area <= 0 {
			continue
		}
		l := e.flowLength[node]
		denom := area * (1 - e.p.SedimentPorosity)
		totalIn, totalOut := 0.0, 0.0
		for c := 0; c < classes; c++ {
			in, out := e.qsIn[c][node], e.qsOut[c][node]
			totalIn += in
			totalOut += out
			abr := e.p.AbrasionCoefficients[c] * 0.5 * (in + out) * l
			e.dH[c][node] = (in - out - abr + e.p.CoarseFractionsFromPlucking[c]*e.pluck[node]*area) / denom
		}
		e.rockAbrade[node] = rockBeta * 0.5 * (totalIn + totalOut) * e.exposure[node] * l / area
	}

	// Apply the rates.
	for node, s := range status {
		if s != grid.StatusCore || e.g.CellArea(node) <= 0 {
			continue
		}
		total := 0.0
		for c := 0; c < classes; c++ {
			hc := e.soil[node]*e.frac[c][node] + e.dH[c][node]*dt
			if hc < 0 {
				hc = 0
			}
			e.dH[c][node] = hc
			total += hc
		}
		if total > 0 {
			for c := 0; c < classes; c++ {
				e.frac[c][node] = e.dH[c][node] / total
			}
		}
		if dt > 0 {
			e.sedRate[node] = (total - e.soil[node]) / dt
		}
		e.soil[node] = total
		e.bedrock[node] -= (e.pluck[node] + e.rockAbrade[node]) * dt
		e.elev[node] = e.bedrock[node] + e.soil[node]
	}
	return nil
}
