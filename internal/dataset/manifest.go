// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qaextract/pkg/types"
)

// Manifest describes how a dataset file was produced. It is written next
// to the JSONL file and read back by corpus ingestion.
type Manifest struct {
	Preset      string            `json:"preset,omitempty" yaml:"preset,omitempty"`
	Grammar     types.GrammarKind `json:"grammar" yaml:"grammar"`
	Input       string            `json:"input" yaml:"input"`
	Source      string            `json:"source" yaml:"source"`
	Records     int               `json:"records" yaml:"records"`
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
}

// ManifestPath returns the manifest location for a dataset file.
func ManifestPath(datasetPath string) string {
	return datasetPath + ".manifest.yaml"
}

// WriteManifest marshals m to YAML at path.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, path, err)
	}
	return nil
}

// ReadManifest loads the manifest at path. A missing manifest returns
// nil without error.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
