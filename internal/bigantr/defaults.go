package bigantr

import (
	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/model"
)

// DefaultSeed seeds the initial topographic noise when random_seed is 0.
const DefaultSeed = 0x5eed

// DefaultParams returns the defaults of a BIGANTR run: a 31x31 raster at
// 1000 m spacing run for 10 kyr in 10 yr steps.
func DefaultParams() config.Map {
	return config.Map{
		"grid": config.Section(config.Map{
			"source": config.String("create"),
			"create_grid": config.Section(config.Map{
				"RasterModelGrid": config.List(
					config.Numbers(31, 31),
					config.Section(config.Map{"xy_spacing": config.Number(1000)}),
				),
			}),
		}),
		"clock": config.Section(config.Map{
			"start": config.Number(0),
			"stop":  config.Number(10000),
			"step":  config.Number(10),
		}),
		"output": config.Section(model.OutputDefaults(config.Map{
			"plot_times":   config.Number(2000),
			"save_times":   config.Number(10000),
			"report_times": config.Number(1000),
			"save_path":    config.String("bigantr_run"),
			"clobber":      config.Bool(true),
			"plot_to_file": config.Bool(true),
		})),
		"initial_conditions": config.Section(config.Map{
			"initial_sed_thickness": config.Number(1),
			"random_topo_amp":       config.Number(10),
			"random_seed":           config.Number(0),
		}),
		"baselevel": config.Section(config.Map{
			"uplift_rate": config.Number(0.0001),
		}),
		"flow_routing": config.Section(config.Map{
			"flow_metric":             config.String("D8"),
			"update_flow_depressions": config.Bool(true),
			"depression_handler":      config.String("fill"),
			"epsilon":                 config.Bool(true),
			"accumulate_flow":         config.Bool(true),
			"runoff_rate":             config.Number(1),
		}),
		"fluvial": config.Section(config.Map{
			"intermittency_factor":           config.Number(0.01),
			"transport_coefficient":          config.Number(0.041),
			"sediment_porosity":              config.Number(1.0 / 3.0),
			"depth_decay_scale":              config.Number(1),
			"plucking_coefficient":           config.Number(1e-4),
			"number_of_sediment_classes":     config.Number(1),
			"init_thickness_per_class":       config.Numbers(1),
			"abrasion_coefficients":          config.Numbers(1e-4),
			"coarse_fractions_from_plucking": config.Numbers(0.5),
			"rock_abrasion_index":            config.Number(0),
		}),
	}
}
