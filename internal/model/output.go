// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the output settings and the output writers.
package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/ctxlog"
	"github.com/vk/bigantr/internal/gridio"
	"github.com/vk/bigantr/internal/scheduler"
	"gonum.org/v1/gonum/floats"
)

// OutputSettings holds the non-schedule part of the output section.
type OutputSettings struct {
	SavePath   string
	NDigits    int
	Clobber    bool
	PlotToFile bool
	PlotField  string
	// Fields lists the node fields to save and report on; nil means all.
	Fields []string
}

func readOutput(section config.Map, start float64) (OutputSettings, *scheduler.Schedule, error) {
	var (
		out OutputSettings
		err error
	)
	if out.SavePath, err = section.Text("save_path"); err != nil {
		return out, nil, err
	}
	if out.NDigits, err = section.Int("ndigits"); err != nil {
		return out, nil, err
	}
	if out.Clobber, err = section.Bool("clobber"); err != nil {
		return out, nil, err
	}
	if out.PlotToFile, err = section.Bool("plot_to_file"); err != nil {
		return out, nil, err
	}
	if out.PlotField, err = section.Text("plot_field"); err != nil {
		return out, nil, err
	}
	if out.Fields, err = stringList(section, "fields"); err != nil {
		return out, nil, err
	}

	var triggers [3]scheduler.Trigger
	for i, key := range []string{"report_times", "plot_times", "save_times"} {
		v, err := section.Lookup(key)
		if err != nil {
			return out, nil, fmt.Errorf("output: %w", err)
		}
		if triggers[i], err = scheduler.FromValue(v, start, "output."+key); err != nil {
			return out, nil, err
		}
	}
	return out, scheduler.New(triggers[0], triggers[1], triggers[2]), nil
}

func stringList(section config.Map, key string) ([]string, error) {
	v, err := section.Lookup(key)
	if err != nil || v.IsNull() {
		return nil, nil
	}
	if s, ok := v.AsString(); ok {
		return []string{s}, nil
	}
	items, ok := v.AsList()
	if !ok {
		return nil, &config.Error{Path: "output." + key, Err: config.ErrWrongKind, Detail: fmt.Sprintf("expected list of names, got %s", v.Kind())}
	}
	names := make([]string, len(items))
	for i, item := range items {
		s, ok := item.AsString()
		if !ok {
			return nil, &config.Error{Path: fmt.Sprintf("output.%s[%d]", key, i), Err: config.ErrWrongKind, Detail: fmt.Sprintf("expected string, got %s", item.Kind())}
		}
		names[i] = s
	}
	return names, nil
}

// numbered returns <save_path><sep><n padded><ext>.
func (o OutputSettings) numbered(sep string, n int, ext string) string {
	return fmt.Sprintf("%s%s%0*d%s", o.SavePath, sep, o.NDigits, n, ext)
}

// SaveFileName returns the checkpoint path for save number num.
func (o OutputSettings) SaveFileName(num int) string { return o.numbered("", num, ".grid") }

// PlotFileName returns the image path for plot frame.
func (o OutputSettings) PlotFileName(frame int) string { return o.numbered("_", frame, ".png") }

// ReportFileName returns the path reports are appended to.
func (o OutputSettings) ReportFileName() string { return o.SavePath + "_report.txt" }

// LockFileName returns the path of the run lock.
func (o OutputSettings) LockFileName() string { return o.SavePath + ".lock" }

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Report implements executor.Outputs. It logs summary statistics of the
// reported fields and appends the same line to the report file. A field named
// in output.fields that is missing or not float64 is an error, as it is for
// Save.
func (m *Model) Report(ctx context.Context, now float64) error {
	attrs := []any{"time", now, "elapsed", time.Since(m.started).Round(time.Millisecond)}
	line := "time=" + strconv.FormatFloat(now, 'g', -1, 64)

	for _, name := range m.reportFields() {
		values, err := m.Grid.AtNode().Float64(name)
		if err != nil {
			if m.Output.Fields != nil {
				return fmt.Errorf("failed to report field: %w", err)
			}
			// The plot field is only summarised when the grid has it.
			continue
		}
		core := m.gather(values)
		if len(core) == 0 {
			continue
		}
		lo, hi := floats.Min(core), floats.Max(core)
		mean := floats.Sum(core) / float64(len(core))
		attrs = append(attrs, name+".min", lo, name+".max", hi, name+".mean", mean)
		line += fmt.Sprintf(" %s.min=%g %s.max=%g %s.mean=%g", name, lo, name, hi, name, mean)
	}
	ctxlog.FromContext(ctx).Info("Model report.", attrs...)

	path := m.Output.ReportFileName()
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open report file: %w", err)
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

// Plot implements executor.Outputs. Without plot_to_file there is no display
// to draw on, so the frame is only logged.
func (m *Model) Plot(ctx context.Context, frame int) error {
	logger := ctxlog.FromContext(ctx)
	if !m.Output.PlotToFile {
		logger.Debug("Plot skipped, plot_to_file is off.", "frame", frame)
		return nil
	}
	path := m.Output.PlotFileName(frame)
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := writeFieldPNG(m.Grid, m.Output.PlotField, path); err != nil {
		return err
	}
	logger.Debug("Plot written.", "frame", frame, "path", path)
	return nil
}

// Save implements executor.Outputs.
func (m *Model) Save(ctx context.Context, num int) error {
	path := m.Output.SaveFileName(num)
	err := gridio.Save(m.Grid, path, gridio.Options{
		Clobber: m.Output.Clobber,
		Fields:  m.Output.Fields,
		Attrs: map[string]string{
			"run_id":   m.RunID.String(),
			"time":     strconv.FormatFloat(m.CurrentTime(), 'g', -1, 64),
			"save_num": strconv.Itoa(num),
		},
	})
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Model state saved.", "save_num", num, "path", path)
	return nil
}

func (m *Model) reportFields() []string {
	if m.Output.Fields != nil {
		return m.Output.Fields
	}
	return []string{m.Output.PlotField}
}

// gather returns values at core nodes, or at all nodes if there are none.
func (m *Model) gather(values []float64) []float64 {
	core := m.Grid.CoreNodes()
	if len(core) == 0 {
		return values
	}
	out := make([]float64, len(core))
	for i, node := range core {
		out[i] = values[node]
	}
	return out
}
