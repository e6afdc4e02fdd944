package model

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/grid"
	"github.com/vk/bigantr/internal/gridio"
	"github.com/vk/bigantr/internal/registry"
	"github.com/vk/bigantr/modules/raster"
)

func newRegistry() *registry.Registry {
	return registry.New(&raster.Module{})
}

// runParams returns parameters for a short run writing under dir.
func runParams(dir string, output config.Map) config.Map {
	output["save_path"] = config.String(filepath.Join(dir, "out", "run"))
	return config.Map{
		"clock":  config.Section(config.Map{"start": config.Number(0), "stop": config.Number(100), "step": config.Number(10)}),
		"output": config.Section(output),
		"grid": config.Section(config.Map{
			"source":      config.String("create"),
			"create_grid": config.Section(config.Map{"RasterModelGrid": config.List(config.Numbers(4, 5))}),
			"fields":      config.Section(config.Map{"topographic__elevation": config.Number(3)}),
		}),
	}
}

func TestNew_DefaultsOnly(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	params := config.Map{"output": config.Section(config.Map{
		"save_path": config.String(filepath.Join(t.TempDir(), "model_output")),
	})}

	// --- Act ---
	m, err := New(context.Background(), params, DefaultParams(), newRegistry())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 25, m.Grid.NumberOfNodes())
	assert.Equal(t, Clock{Start: 0, Stop: 2, Step: 1}, m.Clock)
	assert.Equal(t, 2.0, m.RunDuration)
	assert.Equal(t, 1.0, m.DT)
	assert.Equal(t, 0.0, m.CurrentTime())
	assert.Equal(t, DefaultNDigits, m.Output.NDigits)
	assert.True(t, params.Has("clock", "step"), "params are completed in place")

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 2.0, m.CurrentTime())
	assert.Zero(t, m.SaveNumber())
}

func TestRun_ReportsEveryInterval(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	params := runParams(dir, config.Map{
		"report_times": config.Number(50),
		"plot_times":   config.Null(),
		"save_times":   config.Null(),
	})
	m, err := New(context.Background(), params, DefaultParams(), newRegistry())
	require.NoError(t, err)

	// --- Act ---
	err = m.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	data, err := os.ReadFile(m.Output.ReportFileName())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "time=50 "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "time=100 "), lines[1])
	assert.Contains(t, lines[1], "topographic__elevation.mean=3")
	assert.Equal(t, 100.0, m.CurrentTime())
}

func TestRun_ReportFailsOnUnknownOutputField(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	params := runParams(t.TempDir(), config.Map{
		"report_times": config.Number(50),
		"plot_times":   config.Null(),
		"save_times":   config.Null(),
		"fields":       config.List(config.String("no_such_field")),
	})
	m, err := New(context.Background(), params, DefaultParams(), newRegistry())
	require.NoError(t, err)

	// --- Act ---
	err = m.Run(context.Background())

	// --- Assert ---
	require.ErrorIs(t, err, grid.ErrFieldMissing)
	assert.Equal(t, 50.0, m.CurrentTime(), "the run stops at the failing report")
	assert.NoFileExists(t, m.Output.ReportFileName())
}

func TestRun_SavesNumberedCheckpoints(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	params := runParams(dir, config.Map{
		"report_times": config.Null(),
		"plot_times":   config.Null(),
		"save_times":   config.Numbers(40, 100),
		"ndigits":      config.Number(3),
	})
	m, err := New(context.Background(), params, DefaultParams(), newRegistry())
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, m.Run(context.Background()))

	// --- Assert ---
	assert.Equal(t, 2, m.SaveNumber())
	first, err := gridio.Load(filepath.Join(dir, "out", "run001.grid"))
	require.NoError(t, err)
	assert.Equal(t, "40", first.Attrs["time"])
	assert.Equal(t, m.RunID.String(), first.Attrs["run_id"])
	second, err := gridio.Load(filepath.Join(dir, "out", "run002.grid"))
	require.NoError(t, err)
	assert.Equal(t, "100", second.Attrs["time"])
	assert.True(t, second.Grid.AtNode().Has("topographic__elevation"))
}

func TestRun_PlotsToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	params := runParams(dir, config.Map{
		"report_times": config.Null(),
		"plot_times":   config.Number(100),
		"save_times":   config.Null(),
		"plot_to_file": config.Bool(true),
	})
	m, err := New(context.Background(), params, DefaultParams(), newRegistry())
	require.NoError(t, err)

	require.NoError(t, m.Run(context.Background()))

	f, err := os.Open(filepath.Join(dir, "out", "run_0000.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	assert.Equal(t, 1, m.FrameNumber())
}

func TestNew_GridObjectMustBeAGrid(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	params := config.Map{"grid": config.Section(config.Map{
		"source":      config.String("grid_object"),
		"grid_object": config.String("spam"),
	})}

	// --- Act ---
	m, err := New(context.Background(), params, DefaultParams(), newRegistry())

	// --- Assert ---
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
	assert.Nil(t, m)
}

func TestNew_AcceptsSuppliedGrid(t *testing.T) {
	t.Parallel()

	supplied, err := grid.NewRaster(3, 3, 1)
	require.NoError(t, err)
	params := config.Map{"grid": config.Section(config.Map{
		"source":      config.String("grid_object"),
		"grid_object": config.Object(supplied),
	})}

	m, err := New(context.Background(), params, DefaultParams(), newRegistry())

	require.NoError(t, err)
	assert.Same(t, supplied, m.Grid)
}

func TestNew_WrongClockKind(t *testing.T) {
	t.Parallel()

	params := config.Map{"clock": config.Section(config.Map{"stop": config.String("forever")})}

	_, err := New(context.Background(), params, DefaultParams(), newRegistry())

	require.ErrorIs(t, err, config.ErrWrongKind)
	assert.Contains(t, err.Error(), "clock.stop")
}

func TestRunFor_RefusesLockedSavePath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	m, err := New(context.Background(), runParams(dir, config.Map{}), DefaultParams(), newRegistry())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(m.Output.LockFileName()), 0o755))
	other := flock.New(m.Output.LockFileName())
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = other.Unlock() })

	// --- Act ---
	err = m.Run(context.Background())

	// --- Assert ---
	require.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, 0.0, m.CurrentTime())
}

func TestRun_RemovesLockFileWhenDone(t *testing.T) {
	t.Parallel()

	m, err := New(context.Background(), runParams(t.TempDir(), config.Map{}), DefaultParams(), newRegistry())
	require.NoError(t, err)

	require.NoError(t, m.Run(context.Background()))

	assert.NoFileExists(t, m.Output.LockFileName())
	assert.DirExists(t, filepath.Dir(m.Output.LockFileName()))
}

func TestOutputSettings_FileNames(t *testing.T) {
	t.Parallel()

	o := OutputSettings{SavePath: "runs/bigantr", NDigits: 4}

	assert.Equal(t, "runs/bigantr0007.grid", o.SaveFileName(7))
	assert.Equal(t, "runs/bigantr_0012.png", o.PlotFileName(12))
	assert.Equal(t, "runs/bigantr_report.txt", o.ReportFileName())
	assert.Equal(t, "runs/bigantr.lock", o.LockFileName())
}
