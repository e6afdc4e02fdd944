package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/ctxlog"
	"github.com/vk/bigantr/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loaders  config.Loaders
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry. Without
// modules the core modules are registered; without loaders the defaults are
// used.
func NewApp(outW io.Writer, appConfig *Config, loaders config.Loaders, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "grid_kinds", reg.GridKinds())

	if loaders == nil {
		loaders = DefaultLoaders()
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		loaders:  loaders,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// LoadParams reads the parameter file at path with the loader registered for
// its extension. An empty path yields an empty parameter tree.
func (a *App) LoadParams(ctx context.Context, path string) (config.Map, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		logger.Debug("No parameter file given, using defaults.")
		return config.Map{}, nil
	}
	loader, ok := a.loaders.For(path)
	if !ok {
		return nil, fmt.Errorf("unsupported parameter file %q: expected one of %v", path, a.loaders.Extensions())
	}
	params, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}
	logger.Debug("Parameters loaded.", "path", path, "sections", params.Keys())
	return params, nil
}
