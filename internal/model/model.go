// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Model and its run control.
package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/ctxlog"
	"github.com/vk/bigantr/internal/executor"
	"github.com/vk/bigantr/internal/grid"
	"github.com/vk/bigantr/internal/provision"
	"github.com/vk/bigantr/internal/registry"
)

// Clock is the (start, stop, step) triple of a run.
type Clock struct {
	Start float64
	Stop  float64
	Step  float64
}

// Model is a grid plus the machinery to advance it through time and write
// output along the way.
type Model struct {
	// Params is the merged parameter tree the model was built from.
	Params config.Map
	Grid   grid.Grid
	Clock  Clock
	Output OutputSettings
	RunID  uuid.UUID

	// Process performs the per-step state update. A nil Process leaves the
	// grid untouched and only time advances.
	Process executor.Stepper

	// RunDuration and DT are the defaults used by Run.
	RunDuration float64
	DT          float64

	exec    *executor.Executor
	started time.Time
}

// New completes params in place with defaults and builds the model: grid,
// output settings and schedule, then run control. Grid class names resolve
// through reg.
func New(ctx context.Context, params, defaults config.Map, reg *registry.Registry) (*Model, error) {
	if params == nil {
		params = config.Map{}
	}
	config.Merge(params, defaults)

	m := &Model{Params: params, RunID: uuid.New()}
	ctx = ctxlog.With(ctx, "run_id", m.RunID.String())
	logger := ctxlog.FromContext(ctx)

	gridSpec, err := params.Section("grid")
	if err != nil {
		return nil, err
	}
	if m.Grid, err = provision.Grid(ctx, gridSpec, reg); err != nil {
		return nil, fmt.Errorf("failed to set up grid: %w", err)
	}

	if m.Clock, err = readClock(params); err != nil {
		return nil, err
	}

	outSection, err := params.Section("output")
	if err != nil {
		return nil, err
	}
	output, schedule, err := readOutput(outSection, m.Clock.Start)
	if err != nil {
		return nil, err
	}
	m.Output = output

	m.RunDuration = m.Clock.Stop - m.Clock.Start
	m.DT = m.Clock.Step
	m.exec = executor.New(m.Clock.Start, m, schedule, m)

	logger.Debug("Model initialized.",
		"start", m.Clock.Start, "stop", m.Clock.Stop, "step", m.Clock.Step,
		"save_path", m.Output.SavePath)
	return m, nil
}

func readClock(params config.Map) (Clock, error) {
	var (
		c   Clock
		err error
	)
	if c.Start, err = params.Number("clock", "start"); err != nil {
		return c, err
	}
	if c.Stop, err = params.Number("clock", "stop"); err != nil {
		return c, err
	}
	if c.Step, err = params.Number("clock", "step"); err != nil {
		return c, err
	}
	return c, nil
}

// CurrentTime returns the model time.
func (m *Model) CurrentTime() float64 { return m.exec.Now() }

// FrameNumber returns the number the next plot will get.
func (m *Model) FrameNumber() int { return m.exec.FrameNumber() }

// SaveNumber returns the number of the last save.
func (m *Model) SaveNumber() int { return m.exec.SaveNumber() }

// Update implements executor.Stepper by delegating to Process.
func (m *Model) Update(ctx context.Context, dt float64) error {
	if m.Process == nil {
		return nil
	}
	return m.Process.Update(ctx, dt)
}

// UpdateUntil advances the model to t in steps of at most dt.
func (m *Model) UpdateUntil(ctx context.Context, t, dt float64) error {
	return m.exec.UpdateUntil(ctx, t, dt)
}

// Run runs the model for RunDuration with steps of DT.
func (m *Model) Run(ctx context.Context) error {
	return m.RunFor(ctx, m.RunDuration, m.DT)
}

// RunFor runs the model for duration with steps of at most dt, writing output
// on schedule. The save path is locked for the length of the run.
func (m *Model) RunFor(ctx context.Context, duration, dt float64) error {
	ctx = ctxlog.With(ctx, "run_id", m.RunID.String())

	unlock, err := lockRun(m.Output.LockFileName())
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			ctxlog.FromContext(ctx).Warn("Failed to release run lock.", "error", err)
		}
	}()

	if m.Output.Clobber && m.started.IsZero() {
		if err := os.Remove(m.Output.ReportFileName()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to reset report file: %w", err)
		}
	}
	if m.started.IsZero() {
		m.started = time.Now()
	}
	return m.exec.Run(ctx, duration, dt)
}
