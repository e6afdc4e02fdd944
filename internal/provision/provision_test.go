package provision

import (
	"context"
	"path/filepath"
	"testing"

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

func TestGrid_Create(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	spec := config.Map{
		"source": config.String("create"),
		"create_grid": config.Section(config.Map{
			"RasterModelGrid": config.List(
				config.Numbers(4, 5),
				config.Section(config.Map{"xy_spacing": config.Number(2)}),
			),
		}),
		"fields": config.Section(config.Map{"soil__depth": config.Number(0.5)}),
	}

	// --- Act ---
	g, err := Grid(context.Background(), spec, newRegistry())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 20, g.NumberOfNodes())
	depth, err := g.AtNode().Float64("soil__depth")
	require.NoError(t, err)
	for _, d := range depth {
		assert.Equal(t, 0.5, d)
	}
}

func TestGrid_CreateRequiresExactlyOneClass(t *testing.T) {
	t.Parallel()

	spec := config.Map{
		"source": config.String("create"),
		"create_grid": config.Section(config.Map{
			"RasterModelGrid": config.List(config.Numbers(3, 3)),
			"HexModelGrid":    config.List(config.Numbers(3, 3)),
		}),
	}

	_, err := Grid(context.Background(), spec, newRegistry())

	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestGrid_CreateUnknownClass(t *testing.T) {
	t.Parallel()

	spec := config.Map{
		"source":      config.String("create"),
		"create_grid": config.Section(config.Map{"HexModelGrid": config.List(config.Numbers(3, 3))}),
	}

	_, err := Grid(context.Background(), spec, newRegistry())

	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestGrid_FromFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	saved, err := grid.NewRaster(3, 4, 10)
	require.NoError(t, err)
	z, err := grid.GetOrCreateFloat64NodeField(saved, "topographic__elevation")
	require.NoError(t, err)
	z[5] = 42
	path := filepath.Join(t.TempDir(), "initial.grid")
	require.NoError(t, gridio.Save(saved, path, gridio.Options{}))

	spec := config.Map{
		"source":         config.String("file"),
		"grid_file_name": config.String(path),
		"fields":         config.Section(config.Map{"topographic__elevation": config.Number(-1)}),
	}

	// --- Act ---
	g, err := Grid(context.Background(), spec, newRegistry())

	// --- Assert ---
	require.NoError(t, err)
	loaded, err := g.AtNode().Float64("topographic__elevation")
	require.NoError(t, err)
	assert.Equal(t, 42.0, loaded[5], "fields already in the file keep their values")
}

func TestGrid_FromObject(t *testing.T) {
	t.Parallel()

	supplied, err := grid.NewRaster(3, 3, 1)
	require.NoError(t, err)
	spec := config.Map{
		"source":      config.String("grid_object"),
		"grid_object": config.Object(supplied),
	}

	g, err := Grid(context.Background(), spec, newRegistry())

	require.NoError(t, err)
	assert.Same(t, supplied, g)
}

func TestGrid_ObjectThatIsNotAGrid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value config.Value
	}{
		{"string", config.String("spam")},
		{"missing", config.Null()},
		{"foreign object", config.Object(struct{}{})},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			spec := config.Map{"source": config.String("grid_object"), "grid_object": tc.value}

			_, err := Grid(context.Background(), spec, newRegistry())

			require.ErrorIs(t, err, grid.ErrInvalidArgument)
			assert.Contains(t, err.Error(), "grid_object must be a grid")
		})
	}
}

func TestGrid_UnknownSource(t *testing.T) {
	t.Parallel()

	for _, spec := range []config.Map{
		{"source": config.String("url")},
		{},
		{"source": config.Number(1)},
	} {
		_, err := Grid(context.Background(), spec, newRegistry())
		require.ErrorIs(t, err, grid.ErrInvalidArgument)
	}
}
