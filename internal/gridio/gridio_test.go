package gridio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bigantr/internal/grid"
)

func TestSaveLoad_RoundTripsGridAndFields(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g, err := grid.NewRaster(4, 5, 2.0, grid.WithOrigin(10, 20))
	require.NoError(t, err)
	g.SetClosedBoundariesAtGridEdges(false, true, false, false)
	topo, err := grid.GetOrCreateFloat64NodeField(g, "topographic__elevation")
	require.NoError(t, err)
	for i := range topo {
		topo[i] = float64(i) * 0.5
	}
	recv, err := grid.GetOrCreateNodeField(g, "flow__receiver_node", grid.Int64)
	require.NoError(t, err)
	recv.Int64s()[7] = 2

	path := filepath.Join(t.TempDir(), "test.grid")

	// --- Act ---
	err = Save(g, path, Options{Attrs: map[string]string{"time": "100"}})
	require.NoError(t, err)
	cp, err := Load(path)

	// --- Assert ---
	require.NoError(t, err)
	rows, cols := cp.Grid.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 5, cols)
	assert.Equal(t, 2.0, cp.Grid.Spacing())
	x0, y0 := cp.Grid.Origin()
	assert.Equal(t, 10.0, x0)
	assert.Equal(t, 20.0, y0)
	assert.Equal(t, g.NodeStatus(), cp.Grid.NodeStatus())
	assert.Equal(t, g.CoreNodes(), cp.Grid.CoreNodes())
	assert.Equal(t, []string{"flow__receiver_node", "topographic__elevation"}, cp.Grid.AtNode().Names())

	loadedTopo, err := cp.Grid.AtNode().Float64("topographic__elevation")
	require.NoError(t, err)
	assert.Equal(t, topo, loadedTopo)

	loadedRecv, err := cp.Grid.AtNode().Int64("flow__receiver_node")
	require.NoError(t, err)
	assert.Equal(t, int64(2), loadedRecv[7])

	assert.Equal(t, "100", cp.Attrs["time"])
}

func TestSave_RespectsClobber(t *testing.T) {
	t.Parallel()

	g, err := grid.NewRaster(3, 3, 1)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "state.grid")

	require.NoError(t, Save(g, path, Options{}))
	err = Save(g, path, Options{})
	require.ErrorIs(t, err, ErrExists)

	require.NoError(t, Save(g, path, Options{Clobber: true}))
}

func TestSave_SelectedFieldsOnly(t *testing.T) {
	t.Parallel()

	g, err := grid.NewRaster(3, 3, 1)
	require.NoError(t, err)
	_, err = grid.GetOrCreateNodeField(g, "topographic__elevation", grid.Float64)
	require.NoError(t, err)
	_, err = grid.GetOrCreateNodeField(g, "soil__depth", grid.Float64)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "subset.grid")

	require.NoError(t, Save(g, path, Options{Fields: []string{"soil__depth"}}))
	cp, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"soil__depth"}, cp.Grid.AtNode().Names())

	err = Save(g, path, Options{Clobber: true, Fields: []string{"absent"}})
	require.ErrorIs(t, err, grid.ErrFieldMissing)
}

func TestLoad_RejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage.grid")
	require.NoError(t, os.WriteFile(path, []byte("not a grid"), 0o600))

	_, err := Load(path)

	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.grid"))

	require.ErrorIs(t, err, os.ErrNotExist)
}
