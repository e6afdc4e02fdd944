// Package executor drives a model through time. It sub-steps the model up to
// each output boundary the scheduler names, never past it, and then fires the
// outputs that are due.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/vk/bigantr/internal/ctxlog"
	"github.com/vk/bigantr/internal/scheduler"
)

var (
	// ErrInvalidTimeStep is returned for a non-positive or non-finite dt.
	ErrInvalidTimeStep = errors.New("time step must be positive and finite")
	// ErrStalledClock is returned when dt is too small to move the clock at
	// its current magnitude.
	ErrStalledClock = errors.New("time step does not advance the clock")
)

// Stepper advances the model state by dt. It must not change the clock; the
// Executor owns current time.
type Stepper interface {
	Update(ctx context.Context, dt float64) error
}

// Outputs performs the side effects of fired triggers.
type Outputs interface {
	// Report is called with the current model time.
	Report(ctx context.Context, now float64) error
	// Plot is called with a frame number starting at 0.
	Plot(ctx context.Context, frame int) error
	// Save is called with a save number starting at 1.
	Save(ctx context.Context, num int) error
}

// Executor owns the model clock and the output counters.
type Executor struct {
	stepper  Stepper
	schedule scheduler.Scheduler
	outputs  Outputs

	now     float64
	frame   int
	saveNum int
}

// New returns an executor whose clock starts at start.
func New(start float64, stepper Stepper, schedule scheduler.Scheduler, outputs Outputs) *Executor {
	return &Executor{
		stepper:  stepper,
		schedule: schedule,
		outputs:  outputs,
		now:      start,
	}
}

// Now returns the current model time.
func (e *Executor) Now() float64 { return e.now }

// FrameNumber returns the number of the next plot frame.
func (e *Executor) FrameNumber() int { return e.frame }

// SaveNumber returns the number of the last save, 0 before the first.
func (e *Executor) SaveNumber() int { return e.saveNum }

// UpdateUntil advances the model to target in steps of at most dt. The last
// step is clamped so the clock lands exactly on target. A remainder within
// scheduler.Tolerance of target is snapped onto it without a step.
func (e *Executor) UpdateUntil(ctx context.Context, target, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidTimeStep, dt)
	}
	tol := scheduler.Tolerance(target)
	for {
		remaining := target - e.now
		if remaining <= tol {
			if remaining > 0 {
				e.now = target
			}
			return nil
		}
		step := math.Min(dt, remaining)
		next := e.now + step
		if step == remaining || next > target {
			next = target
		}
		if next <= e.now {
			return fmt.Errorf("%w: dt=%g at t=%g", ErrStalledClock, step, e.now)
		}
		if err := e.stepper.Update(ctx, step); err != nil {
			return fmt.Errorf("failed to update model at t=%g: %w", e.now, err)
		}
		e.now = next
	}
}

// Run advances the model by duration, pausing at every output boundary to
// fire due outputs in report, plot, save order. Cancellation of ctx is
// honoured between pauses.
func (e *Executor) Run(ctx context.Context, duration, dt float64) error {
	logger := ctxlog.FromContext(ctx)
	stop := e.now + duration
	logger.Info("▶️ Starting run.", "start", e.now, "stop", stop, "dt", dt)

	for e.now < stop {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run interrupted at t=%g: %w", e.now, err)
		}
		pause := math.Max(e.schedule.NextPause(stop), e.now)
		if err := e.UpdateUntil(ctx, pause, dt); err != nil {
			return err
		}
		if err := e.fire(ctx); err != nil {
			return err
		}
	}

	logger.Info("✅ Run finished.", "time", e.now, "frames", e.frame, "saves", e.saveNum)
	return nil
}

func (e *Executor) fire(ctx context.Context) error {
	for _, k := range e.schedule.Due(e.now) {
		ctxlog.FromContext(ctx).Debug("Output trigger fired.", "trigger", k, "time", e.now)
		var err error
		switch k {
		case scheduler.Report:
			err = e.outputs.Report(ctx, e.now)
		case scheduler.Plot:
			err = e.outputs.Plot(ctx, e.frame)
			e.frame++
		case scheduler.Save:
			e.saveNum++
			err = e.outputs.Save(ctx, e.saveNum)
		}
		if err != nil {
			return fmt.Errorf("failed to %s at t=%g: %w", k, e.now, err)
		}
		e.schedule.Advance(k, e.now)
	}
	return nil
}
