// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the default parameters of the base model.
package model

import "github.com/vk/bigantr/internal/config"

// DefaultNDigits is the zero-padding width of frame and save numbers.
const DefaultNDigits = 4

// DefaultPlotField is the node field plotted when output.plot_field is unset.
const DefaultPlotField = "topographic__elevation"

// DefaultParams returns the base model defaults: a 5x5 raster with unit
// spacing, a clock from 0 to 2 with unit steps and outputs every 10 time
// units, which therefore never fire in a default run.
func DefaultParams() config.Map {
	return config.Map{
		"grid": config.Section(config.Map{
			"source": config.String("create"),
			"create_grid": config.Section(config.Map{
				"RasterModelGrid": config.List(
					config.Section(config.Map{"shape": config.Numbers(5, 5)}),
					config.Section(config.Map{"spacing": config.Number(1)}),
				),
			}),
		}),
		"clock": config.Section(config.Map{
			"start": config.Number(0),
			"stop":  config.Number(2),
			"step":  config.Number(1),
		}),
		"output": config.Section(OutputDefaults(config.Map{
			"report_times": config.Number(10),
			"plot_times":   config.Number(10),
			"save_times":   config.Number(10),
			"save_path":    config.String("model_output"),
			"clobber":      config.Bool(true),
			"plot_to_file": config.Bool(false),
		})),
	}
}

// OutputDefaults fills the output keys every model shares into section and
// returns it. Keys already present are kept.
func OutputDefaults(section config.Map) config.Map {
	config.Merge(section, config.Map{
		"ndigits":    config.Number(DefaultNDigits),
		"fields":     config.Null(),
		"plot_field": config.String(DefaultPlotField),
	})
	return section
}
