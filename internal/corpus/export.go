// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qaextract/internal/dataset"
	"github.com/pdiddy/qaextract/pkg/types"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	// ExportJSONL writes a merged fine-tuning dataset, one line per record.
	ExportJSONL ExportFormat = "jsonl"

	// ExportYAML writes the records with their provenance as a YAML list.
	ExportYAML ExportFormat = "yaml"
)

const exportLimit = 1000000

// Export writes every record matching opts to w. The JSONL form keeps
// each record's own source tag and score.
func (s *Store) Export(ctx context.Context, opts QueryOptions, format ExportFormat, w io.Writer) (int, error) {
	opts.MaxResults = exportLimit
	results, err := s.Search(ctx, opts)
	if err != nil {
		return 0, fmt.Errorf("querying for export: %w", err)
	}

	switch format {
	case ExportJSONL, "":
		for _, r := range results {
			if err := dataset.Encode(w, []types.Record{r.Record}, r.Source, r.Score); err != nil {
				return 0, err
			}
		}
	case ExportYAML:
		if results == nil {
			results = []QueryResult{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return 0, fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return 0, fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return 0, fmt.Errorf("unsupported format %q: use jsonl or yaml", format)
	}
	return len(results), nil
}
