package app

import (
	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/hcl"
	"github.com/vk/bigantr/internal/registry"
	"github.com/vk/bigantr/internal/tomlconfig"
	"github.com/vk/bigantr/modules/raster"
)

// coreModules is the definitive list of grid modules compiled into the
// bigantr binary.
var coreModules = []registry.Module{
	&raster.Module{},
}

// DefaultLoaders maps parameter file extensions to their loaders.
func DefaultLoaders() config.Loaders {
	hclLoader := hcl.NewLoader()
	return config.Loaders{
		".hcl":  hclLoader,
		".json": hclLoader,
		".toml": tomlconfig.NewLoader(),
	}
}
