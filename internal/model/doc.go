// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the generic grid-based model that concrete landscape
// models build on.
//
// A Model is assembled from a parameter tree in a fixed order: the user's
// parameters are completed with defaults, the grid is provisioned, output
// settings and the output schedule are read, and run control (start time,
// run duration, step) is set up. The concrete model then creates its fields
// and process components and attaches its per-step update as the Process.
//
// # Parameters
//
//	grid    { source, create_grid | grid_file_name | grid_object, fields }
//	clock   { start, stop, step }
//	output  { report_times, plot_times, save_times, save_path, ndigits,
//	          clobber, fields, plot_to_file, plot_field }
//
// The *_times keys take a number (a period) or a list of times; null
// disables that output.
//
// # Outputs
//
// Reports go to the logger and are appended to <save_path>_report.txt. Plots
// are written as <save_path>_<frame>.png when plot_to_file is set. Saves
// write <save_path><num>.grid. Frame and save numbers are zero-padded to
// ndigits.
package model
