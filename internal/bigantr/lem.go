// Package bigantr is a landscape evolution model built on the theory of
// bedrock-incising, gravel-abrading, near-threshold rivers. Each step it
// uplifts the core nodes, routes flow with a priority-flood router and then
// erodes, transports and abrades with a gravel/bedrock eroder.
package bigantr

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/vk/bigantr/internal/components"
	"github.com/vk/bigantr/internal/components/flowrouter"
	"github.com/vk/bigantr/internal/components/gravel"
	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/ctxlog"
	"github.com/vk/bigantr/internal/grid"
	"github.com/vk/bigantr/internal/model"
	"github.com/vk/bigantr/internal/registry"
)

// LEM is the BIGANTR landscape evolution model.
type LEM struct {
	*model.Model

	UpliftRate float64
	Router     *flowrouter.PriorityFlood
	Eroder     *gravel.Eroder

	// processes run in order after uplift each step.
	processes []components.Component

	topo []float64
	sed  []float64
}

// New builds the model from params, completed in place with DefaultParams.
func New(ctx context.Context, params config.Map, reg *registry.Registry) (*LEM, error) {
	base, err := model.New(ctx, params, DefaultParams(), reg)
	if err != nil {
		return nil, err
	}
	params = base.Params
	lem := &LEM{Model: base}

	if err := lem.initialConditions(params); err != nil {
		return nil, fmt.Errorf("failed to set initial conditions: %w", err)
	}
	if lem.UpliftRate, err = params.Number("baselevel", "uplift_rate"); err != nil {
		return nil, err
	}

	rp, err := routerParams(params)
	if err != nil {
		return nil, err
	}
	if lem.Router, err = flowrouter.New(lem.Grid, rp); err != nil {
		return nil, fmt.Errorf("failed to create flow router: %w", err)
	}
	// The eroder reads the router's fields at construction.
	if err := lem.Router.RunOneStep(0); err != nil {
		return nil, err
	}

	ep, err := eroderParams(params)
	if err != nil {
		return nil, err
	}
	if lem.Eroder, err = gravel.New(lem.Grid, ep); err != nil {
		return nil, fmt.Errorf("failed to create eroder: %w", err)
	}

	lem.processes = []components.Component{lem.Router, lem.Eroder}
	lem.Process = lem
	ctxlog.FromContext(ctx).Debug("BIGANTR model ready.", "nodes", lem.Grid.NumberOfNodes(), "uplift_rate", lem.UpliftRate)
	return lem, nil
}

// initialConditions creates topography with random noise at core nodes and a
// uniform sediment cover, unless the grid already has those fields.
func (l *LEM) initialConditions(params config.Map) error {
	const sec = "initial_conditions"
	g := l.Grid

	if !g.AtNode().Has(gravel.FieldElevation) {
		amp, err := params.Number(sec, "random_topo_amp")
		if err != nil {
			return err
		}
		seed, err := params.Int(sec, "random_seed")
		if err != nil {
			return err
		}
		if seed == 0 {
			seed = DefaultSeed
		}
		topo, err := grid.GetOrCreateFloat64NodeField(g, gravel.FieldElevation)
		if err != nil {
			return err
		}
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		for _, node := range g.CoreNodes() {
			topo[node] += amp * rng.Float64()
		}
	}

	if !g.AtNode().Has(gravel.FieldSoilDepth) {
		thickness, err := params.Number(sec, "initial_sed_thickness")
		if err != nil {
			return err
		}
		sed, err := grid.GetOrCreateFloat64NodeField(g, gravel.FieldSoilDepth)
		if err != nil {
			return err
		}
		for i := range sed {
			sed[i] = thickness
		}
	}

	var err error
	if l.topo, err = g.AtNode().Float64(gravel.FieldElevation); err != nil {
		return err
	}
	if l.sed, err = g.AtNode().Float64(gravel.FieldSoilDepth); err != nil {
		return err
	}
	return nil
}

// Update implements executor.Stepper: uplift, route, erode.
func (l *LEM) Update(_ context.Context, dt float64) error {
	uplift := l.UpliftRate * dt
	for _, node := range l.Grid.CoreNodes() {
		l.topo[node] += uplift
	}
	for _, p := range l.processes {
		if err := p.RunOneStep(dt); err != nil {
			return fmt.Errorf("failed to run %T: %w", p, err)
		}
	}
	return nil
}
