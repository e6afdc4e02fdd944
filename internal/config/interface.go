package config

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the document at path and translates it into the
	// format-agnostic tree.
	Load(ctx context.Context, path string) (Map, error)
}

// Loaders selects a Loader by file extension (".hcl", ".toml", ...).
type Loaders map[string]Loader

// For returns the loader registered for the extension of path. Extensions are
// matched case-insensitively.
func (l Loaders) For(path string) (Loader, bool) {
	loader, ok := l[strings.ToLower(filepath.Ext(path))]
	return loader, ok
}

// Extensions returns the registered extensions, for error messages.
func (l Loaders) Extensions() []string {
	exts := make([]string, 0, len(l))
	for ext := range l {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
