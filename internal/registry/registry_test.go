package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/grid"
)

type fakeModule struct{ built *Args }

func (m *fakeModule) Register(r *Registry) {
	r.RegisterGrid("FakeGrid", func(args Args) (grid.Grid, error) {
		m.built = &args
		return grid.NewRaster(2, 2, 1)
	})
}

func TestRegistry_NewGridDispatchesByName(t *testing.T) {
	t.Parallel()

	mod := &fakeModule{}
	r := New(mod)

	g, err := r.NewGrid("FakeGrid", Args{Positional: []config.Value{config.Number(1)}})

	require.NoError(t, err)
	assert.Equal(t, 4, g.NumberOfNodes())
	require.NotNil(t, mod.built)
	assert.Len(t, mod.built.Positional, 1)
	assert.Equal(t, []string{"FakeGrid"}, r.GridKinds())
}

func TestRegistry_UnknownClass(t *testing.T) {
	t.Parallel()

	r := New(&fakeModule{})

	_, err := r.NewGrid("HexModelGrid", Args{})

	require.ErrorIs(t, err, grid.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "HexModelGrid")
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	r := New(&fakeModule{})

	assert.Panics(t, func() { (&fakeModule{}).Register(r) })
}

func TestArgsFromValue(t *testing.T) {
	t.Parallel()

	v := config.List(
		config.Numbers(31, 31),
		config.Section(config.Map{"xy_spacing": config.Number(1000)}),
	)

	args, err := ArgsFromValue(v)

	require.NoError(t, err)
	require.Len(t, args.Positional, 1)
	assert.Equal(t, []any{31.0, 31.0}, args.Positional[0].Interface())
	spacing, ok := args.Keyword("spacing", "xy_spacing")
	require.True(t, ok)
	assert.Equal(t, 1000.0, spacing.Interface())

	kw, err := ArgsFromValue(config.Section(config.Map{"shape": config.Numbers(4, 5)}))
	require.NoError(t, err)
	assert.Empty(t, kw.Positional)
	assert.Contains(t, kw.Keywords, "shape")

	_, err = ArgsFromValue(config.List(
		config.Section(config.Map{"shape": config.Numbers(4, 5)}),
		config.Section(config.Map{"shape": config.Numbers(5, 5)}),
	))
	require.ErrorIs(t, err, grid.ErrInvalidArgument)

	_, err = ArgsFromValue(config.String("5x5"))
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}
