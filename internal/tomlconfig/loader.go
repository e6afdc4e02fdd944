// Package tomlconfig provides the TOML implementation of config.Loader.
// Tables become sections, arrays become lists and every number becomes a
// float64, matching the trees produced by the HCL loader.
package tomlconfig

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/ctxlog"
)

// Loader is the TOML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new TOML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes the TOML document at path.
func (l *Loader) Load(ctx context.Context, path string) (config.Map, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("TOML loader started.", "path", path)

	var doc map[string]any
	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	params, err := config.MapFromGo(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to translate config file %s: %w", path, err)
	}

	logger.Debug("TOML loading complete.", "path", path, "keys", len(md.Keys()))
	return params, nil
}
