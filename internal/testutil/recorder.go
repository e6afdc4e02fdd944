package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrInjected is returned by a Recorder configured to fail.
var ErrInjected = errors.New("injected failure")

// OutputCall is one recorded output side effect.
type OutputCall struct {
	Kind string
	// Time is the model time the output fired at, as reported by Clock.
	Time float64
	// Number is the frame or save number; zero for reports.
	Number int
}

// Recorder implements the executor's Stepper and Outputs interfaces and
// records every call, for asserting on the order and timing of a run.
type Recorder struct {
	// Clock, when set, is used to stamp plot and save calls with model time.
	Clock func() float64
	// FailOnStep makes the n-th Update (1-based) fail with ErrInjected.
	FailOnStep int

	mu    sync.Mutex
	steps []float64
	calls []OutputCall
}

// Update records dt.
func (r *Recorder) Update(_ context.Context, dt float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, dt)
	if r.FailOnStep > 0 && len(r.steps) == r.FailOnStep {
		return ErrInjected
	}
	return nil
}

// Report records a report at now.
func (r *Recorder) Report(_ context.Context, now float64) error {
	r.record(OutputCall{Kind: "report", Time: now})
	return nil
}

// Plot records a plot of frame.
func (r *Recorder) Plot(_ context.Context, frame int) error {
	r.record(OutputCall{Kind: "plot", Time: r.now(), Number: frame})
	return nil
}

// Save records a save numbered num.
func (r *Recorder) Save(_ context.Context, num int) error {
	r.record(OutputCall{Kind: "save", Time: r.now(), Number: num})
	return nil
}

// Steps returns the recorded step sizes.
func (r *Recorder) Steps() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.steps...)
}

// Calls returns the recorded output calls, optionally only those of kind.
func (r *Recorder) Calls(kind ...string) []OutputCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []OutputCall
	for _, c := range r.calls {
		if len(kind) == 0 || c.Kind == kind[0] {
			out = append(out, c)
		}
	}
	return out
}

// Times returns the model times of the recorded calls of kind.
func (r *Recorder) Times(kind string) []float64 {
	var out []float64
	for _, c := range r.Calls(kind) {
		out = append(out, c.Time)
	}
	return out
}

func (r *Recorder) record(c OutputCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *Recorder) now() float64 {
	if r.Clock == nil {
		return 0
	}
	return r.Clock()
}
