package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMap(t *testing.T, in map[string]any) Map {
	t.Helper()
	m, err := MapFromGo(in)
	require.NoError(t, err)
	return m
}

func TestMerge_FillsMissingKeysAndRecurses(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	user := mustMap(t, map[string]any{
		"a":    1,
		"d":    map[string]any{"da": 4},
		"e":    5,
		"grid": map[string]any{"RasterModelGrid": []any{}},
	})
	defaults := mustMap(t, map[string]any{
		"a":    2,
		"b":    3,
		"d":    map[string]any{"db": 6},
		"grid": map[string]any{"HexModelGrid": []any{}},
	})

	// --- Act ---
	Merge(user, defaults)

	// --- Assert ---
	want := map[string]any{
		"a":    1.0,
		"b":    3.0,
		"d":    map[string]any{"da": 4.0, "db": 6.0},
		"e":    5.0,
		"grid": map[string]any{"RasterModelGrid": []any{}},
	}
	if diff := cmp.Diff(want, user.Interface()); diff != "" {
		t.Errorf("merged config mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_IsIdempotentOnPopulatedConfig(t *testing.T) {
	t.Parallel()

	defaults := mustMap(t, map[string]any{
		"clock":  map[string]any{"start": 0, "stop": 10, "step": 1},
		"output": map[string]any{"report_times": 5, "save_path": "run"},
	})
	user := mustMap(t, map[string]any{
		"clock": map[string]any{"stop": 100},
	})

	Merge(user, defaults)
	once := user.Clone()
	Merge(user, defaults)

	if diff := cmp.Diff(once.Interface(), user.Interface()); diff != "" {
		t.Errorf("second merge changed the config (-first +second):\n%s", diff)
	}
}

func TestMerge_NeverOverwritesUserLeaves(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	defaults := mustMap(t, map[string]any{
		"fluvial": map[string]any{"transport_coefficient": 0.041, "sediment_porosity": 0.3},
		"output":  map[string]any{"plot_times": 2000},
	})
	user := mustMap(t, map[string]any{
		"fluvial": map[string]any{"transport_coefficient": 0.5},
		// A scalar where the default is a section is kept as an override.
		"output": "disabled",
	})
	before := user.Clone()

	// --- Act ---
	Merge(user, defaults)

	// --- Assert ---
	got, err := user.Number("fluvial", "transport_coefficient")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	out, err := user.Text("output")
	require.NoError(t, err)
	assert.Equal(t, "disabled", out)

	porosity, err := user.Number("fluvial", "sediment_porosity")
	require.NoError(t, err)
	assert.Equal(t, 0.3, porosity)

	assert.Equal(t, before["output"].Interface(), user["output"].Interface())
}

func TestMerge_GridSectionIsAtomic(t *testing.T) {
	t.Parallel()

	userGrid := map[string]any{
		"source":         "file",
		"grid_file_name": "saved.grid",
	}
	user := mustMap(t, map[string]any{"grid": userGrid})
	defaults := mustMap(t, map[string]any{
		"grid": map[string]any{
			"source": "create",
			"create_grid": map[string]any{
				"RasterModelGrid": []any{[]any{31, 31}, map[string]any{"xy_spacing": 1000.0}},
			},
		},
	})

	Merge(user, defaults)

	want := mustMap(t, map[string]any{"grid": userGrid})
	if diff := cmp.Diff(want.Interface(), user.Interface()); diff != "" {
		t.Errorf("grid section was merged (-want +got):\n%s", diff)
	}
	assert.True(t, IsAtomicSection("grid"))
	assert.False(t, IsAtomicSection("clock"))
}

func TestMerge_InsertedDefaultsAreCopies(t *testing.T) {
	t.Parallel()

	defaults := mustMap(t, map[string]any{
		"fluvial": map[string]any{"abrasion_coefficients": []any{1e-4}},
	})
	user := Map{}

	Merge(user, defaults)
	sec, err := user.Section("fluvial")
	require.NoError(t, err)
	sec["abrasion_coefficients"] = Numbers(9)

	coeffs, err := defaults.NumberList("fluvial", "abrasion_coefficients")
	require.NoError(t, err)
	assert.Equal(t, []float64{1e-4}, coeffs, "defaults must not alias the merged user tree")
}

func TestMerge_NilUserIsNoop(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		Merge(nil, Map{"a": Number(1)})
	})
}
