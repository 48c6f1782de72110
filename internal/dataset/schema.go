// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/pdiddy/qaextract/pkg/types"
)

// Schema returns the JSON Schema of one dataset line.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := r.Reflect(&types.DatasetLine{})
	s.Title = "qaextract dataset line"
	s.Description = "One fine-tuning example: a user question and the assistant answer."
	return s
}

// SchemaJSON renders Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return data, nil
}
