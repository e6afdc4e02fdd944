package executor_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bigantr/internal/executor"
	"github.com/vk/bigantr/internal/scheduler"
	"github.com/vk/bigantr/internal/testutil"
)

func newExecutor(start float64, sched scheduler.Scheduler) (*executor.Executor, *testutil.Recorder) {
	rec := &testutil.Recorder{}
	e := executor.New(start, rec, sched, rec)
	rec.Clock = e.Now
	return e, rec
}

func TestRun_ReportsAtIntervalBoundaries(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	sched := scheduler.New(scheduler.Every(50, 0), scheduler.Never(), scheduler.Never())
	e, rec := newExecutor(0, sched)

	// --- Act ---
	err := e.Run(context.Background(), 100, 10)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 100}, rec.Times("report"))
	assert.Len(t, rec.Steps(), 10)
	assert.Equal(t, 100.0, e.Now())
}

func TestRun_ClampsStepsToOutputBoundaries(t *testing.T) {
	t.Parallel()

	sched := scheduler.New(scheduler.Every(50, 0), scheduler.Never(), scheduler.Never())
	e, rec := newExecutor(0, sched)

	err := e.Run(context.Background(), 100, 30)

	require.NoError(t, err)
	assert.Equal(t, []float64{30, 20, 30, 20}, rec.Steps())
	assert.Equal(t, []float64{50, 100}, rec.Times("report"))
}

func TestRun_StepLargerThanIntervalIsClamped(t *testing.T) {
	t.Parallel()

	sched := scheduler.New(scheduler.Every(5, 0), scheduler.Never(), scheduler.Never())
	e, rec := newExecutor(0, sched)

	require.NoError(t, e.Run(context.Background(), 20, 1000))

	for _, dt := range rec.Steps() {
		assert.Equal(t, 5.0, dt, "never the full configured dt")
	}
	assert.Equal(t, []float64{5, 10, 15, 20}, rec.Times("report"))
}

func TestRun_FiringsLandOnExactMultiples(t *testing.T) {
	t.Parallel()

	for _, dt := range []float64{0.05, 0.3, 1, 7, 1000} {
		for _, interval := range []float64{0.1, 0.25, 0.3, 0.7, 1, 2.5, 10} {
			for _, multiples := range []int{1, 3, 8} {
				name := fmt.Sprintf("dt=%g/I=%g/D=%dI", dt, interval, multiples)
				t.Run(name, func(t *testing.T) {
					t.Parallel()

					sched := scheduler.New(scheduler.Never(), scheduler.Never(), scheduler.Every(interval, 0))
					e, rec := newExecutor(0, sched)

					require.NoError(t, e.Run(context.Background(), float64(multiples)*interval, dt))

					saves := rec.Calls("save")
					require.Len(t, saves, multiples)
					for i, call := range saves {
						assert.Equal(t, i+1, call.Number)
						assert.Equal(t, float64(i+1)*interval, call.Time)
					}
					for _, step := range rec.Steps() {
						assert.LessOrEqual(t, step, dt)
					}
				})
			}
		}
	}
}

func TestRun_FiringCountMatchesDurationOverInterval(t *testing.T) {
	t.Parallel()

	// Intervals that are not exact in binary must not lose the firing that
	// coincides with the end of the run.
	for _, interval := range []float64{0.1, 0.3, 0.7, 1.1, 0.01, 3.3} {
		for _, dt := range []float64{0.05, 1, 1000} {
			for multiples := 1; multiples <= 200; multiples++ {
				sched := scheduler.New(scheduler.Every(interval, 0), scheduler.Never(), scheduler.Never())
				e, rec := newExecutor(0, sched)

				require.NoError(t, e.Run(context.Background(), float64(multiples)*interval, dt))

				reports := rec.Times("report")
				if !assert.Len(t, reports, multiples, "I=%g dt=%g D=%dI", interval, dt, multiples) {
					return
				}
				assert.Equal(t, float64(multiples)*interval, reports[len(reports)-1])
			}
		}
	}
}

func TestUpdateUntil_RejectsStepTooSmallForTheClock(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec := newExecutor(1e6, scheduler.New(scheduler.Never(), scheduler.Never(), scheduler.Never()))

	// --- Act ---
	err := e.UpdateUntil(context.Background(), 1e6+1, 1e-12)

	// --- Assert ---
	require.ErrorIs(t, err, executor.ErrStalledClock)
	assert.Empty(t, rec.Steps())
	assert.Equal(t, 1e6, e.Now())
}

func TestRun_FiringOrderAtSharedBoundary(t *testing.T) {
	t.Parallel()

	sched := scheduler.New(scheduler.Every(10, 0), scheduler.Every(10, 0), scheduler.Every(10, 0))
	e, rec := newExecutor(0, sched)

	require.NoError(t, e.Run(context.Background(), 20, 4))

	want := []testutil.OutputCall{
		{Kind: "report", Time: 10},
		{Kind: "plot", Time: 10, Number: 0},
		{Kind: "save", Time: 10, Number: 1},
		{Kind: "report", Time: 20},
		{Kind: "plot", Time: 20, Number: 1},
		{Kind: "save", Time: 20, Number: 2},
	}
	assert.Equal(t, want, rec.Calls())
	assert.Equal(t, 2, e.FrameNumber())
	assert.Equal(t, 2, e.SaveNumber())
}

func TestRun_StopsAtStopWithoutTriggers(t *testing.T) {
	t.Parallel()

	e, rec := newExecutor(5, scheduler.New(scheduler.Never(), scheduler.Never(), scheduler.Never()))

	require.NoError(t, e.Run(context.Background(), 10, 3))

	assert.Equal(t, []float64{3, 3, 3, 1}, rec.Steps())
	assert.Equal(t, 15.0, e.Now())
	assert.Empty(t, rec.Calls())
}

func TestRun_ZeroDurationDoesNothing(t *testing.T) {
	t.Parallel()

	e, rec := newExecutor(0, scheduler.New(scheduler.Every(1, 0), scheduler.Never(), scheduler.Never()))

	require.NoError(t, e.Run(context.Background(), 0, 1))

	assert.Empty(t, rec.Steps())
	assert.Empty(t, rec.Calls())
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e, rec := newExecutor(0, scheduler.New(scheduler.Every(1, 0), scheduler.Never(), scheduler.Never()))

	err := e.Run(ctx, 10, 1)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.Steps())
}

func TestRun_StepperErrorStopsTheRun(t *testing.T) {
	t.Parallel()

	e, rec := newExecutor(0, scheduler.New(scheduler.Every(10, 0), scheduler.Never(), scheduler.Never()))
	rec.FailOnStep = 3

	err := e.Run(context.Background(), 100, 1)

	require.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, 2.0, e.Now())
	assert.Empty(t, rec.Calls())
}

func TestUpdateUntil(t *testing.T) {
	t.Parallel()

	e, rec := newExecutor(0, scheduler.New(scheduler.Never(), scheduler.Never(), scheduler.Never()))

	require.ErrorIs(t, e.UpdateUntil(context.Background(), 10, 0), executor.ErrInvalidTimeStep)

	require.NoError(t, e.UpdateUntil(context.Background(), 2.5, 1))
	assert.Equal(t, []float64{1, 1, 0.5}, rec.Steps())
	assert.Equal(t, 2.5, e.Now())

	require.NoError(t, e.UpdateUntil(context.Background(), 1, 1), "target in the past is a no-op")
	assert.Equal(t, 2.5, e.Now())
	assert.Len(t, rec.Steps(), 3)
}
