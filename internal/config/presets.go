// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the extraction configuration for a run from the
// built-in presets, the qaextract config file, QAEXTRACT_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	_ "embed"
	"fmt"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qaextract/pkg/types"
)

//go:embed presets.yaml
var builtinPresets []byte

type presetFile struct {
	Presets map[string]types.ExtractionConfig `yaml:"presets"`
}

// Builtin returns the presets shipped with the binary, keyed by name.
func Builtin() (map[string]types.ExtractionConfig, error) {
	var f presetFile
	if err := yaml.Unmarshal(builtinPresets, &f); err != nil {
		return nil, fmt.Errorf("parsing built-in presets: %w", err)
	}
	for name, p := range f.Presets {
		p.Preset = name
		f.Presets[name] = p
	}
	return f.Presets, nil
}

// Names returns the preset names in sorted order.
func Names(presets map[string]types.ExtractionConfig) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
