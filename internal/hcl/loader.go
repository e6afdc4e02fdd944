package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/bigantr/internal/config"
	"github.com/vk/bigantr/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the file at path. Files ending in .json are read with the HCL
// JSON syntax, everything else with the native syntax.
func (l *Loader) Load(ctx context.Context, path string) (config.Map, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, diags = parser.ParseJSONFile(path)
	} else {
		file, diags = parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	params, err := translateBody(file.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to translate config file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "path", path, "sections", len(params))
	return params, nil
}

// translateBody converts a parsed body into a config.Map. Native syntax bodies
// may contain blocks; JSON bodies are treated as attributes only.
func translateBody(body hcl.Body) (config.Map, error) {
	if syntaxBody, ok := body.(*hclsyntax.Body); ok {
		return translateSyntaxBody(syntaxBody)
	}

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make(config.Map, len(attrs))
	for name, attr := range attrs {
		val, err := evalAttribute(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = val
	}
	return out, nil
}

func translateSyntaxBody(body *hclsyntax.Body) (config.Map, error) {
	out := make(config.Map, len(body.Attributes)+len(body.Blocks))
	for name, attr := range body.Attributes {
		val, err := evalAttribute(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = val
	}

	for _, block := range body.Blocks {
		inner, err := translateSyntaxBody(block.Body)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", block.Type, err)
		}

		target, key := out, block.Type
		for _, label := range block.Labels {
			next, err := ensureSection(target, key)
			if err != nil {
				return nil, err
			}
			target, key = next, label
		}
		if _, exists := target[key]; exists {
			return nil, fmt.Errorf("duplicate definition of %q", strings.Join(append([]string{block.Type}, block.Labels...), "."))
		}
		target[key] = config.Section(inner)
	}
	return out, nil
}

// ensureSection returns the section stored under key, creating it if needed.
func ensureSection(m config.Map, key string) (config.Map, error) {
	existing, ok := m[key]
	if !ok {
		sec := config.Map{}
		m[key] = config.Section(sec)
		return sec, nil
	}
	sec, isMap := existing.AsMap()
	if !isMap {
		return nil, fmt.Errorf("%q is defined both as a value and as a block", key)
	}
	return sec, nil
}

func evalAttribute(expr hcl.Expression) (config.Value, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return config.Value{}, diags
	}
	return fromCty(val)
}
