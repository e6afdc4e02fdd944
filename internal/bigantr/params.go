package bigantr

import (
	"github.com/vk/bigantr/internal/components/flowrouter"
	"github.com/vk/bigantr/internal/components/gravel"
	"github.com/vk/bigantr/internal/config"
)

func routerParams(params config.Map) (flowrouter.Params, error) {
	const sec = "flow_routing"
	p := flowrouter.DefaultParams()
	var err error
	if p.FlowMetric, err = params.Text(sec, "flow_metric"); err != nil {
		return p, err
	}
	if p.DepressionHandler, err = params.Text(sec, "depression_handler"); err != nil {
		return p, err
	}
	for _, f := range []struct {
		key string
		dst *bool
	}{
		{"update_flow_depressions", &p.UpdateFlowDepressions},
		{"epsilon", &p.Epsilon},
		{"accumulate_flow", &p.AccumulateFlow},
	} {
		if *f.dst, err = params.Bool(sec, f.key); err != nil {
			return p, err
		}
	}
	if p.RunoffRate, err = params.Number(sec, "runoff_rate"); err != nil {
		return p, err
	}
	return p, nil
}

func eroderParams(params config.Map) (gravel.Params, error) {
	const sec = "fluvial"
	var (
		p   gravel.Params
		err error
	)
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"intermittency_factor", &p.IntermittencyFactor},
		{"transport_coefficient", &p.TransportCoefficient},
		{"sediment_porosity", &p.SedimentPorosity},
		{"depth_decay_scale", &p.DepthDecayScale},
		{"plucking_coefficient", &p.PluckingCoefficient},
	} {
		if *f.dst, err = params.Number(sec, f.key); err != nil {
			return p, err
		}
	}
	// A single number is accepted for a per-class list.
	for _, f := range []struct {
		key string
		dst *[]float64
	}{
		{"init_thickness_per_class", &p.InitThicknessPerClass},
		{"abrasion_coefficients", &p.AbrasionCoefficients},
		{"coarse_fractions_from_plucking", &p.CoarseFractionsFromPlucking},
	} {
		if *f.dst, err = params.NumberList(sec, f.key); err != nil {
			return p, err
		}
	}
	if p.NumberOfSedimentClasses, err = params.Int(sec, "number_of_sediment_classes"); err != nil {
		return p, err
	}
	if p.RockAbrasionIndex, err = params.Int(sec, "rock_abrasion_index"); err != nil {
		return p, err
	}
	return p, nil
}
