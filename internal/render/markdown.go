// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render produces human-readable views of extracted records: the
// Markdown document written next to each dataset and the styled terminal
// preview.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/qaextract/pkg/types"
)

// Markdown renders records under a level-one title. Records are numbered
// from 1 in slice order, each followed by a horizontal rule.
func Markdown(title string, records []types.Record) string {
	parts := make([]string, 0, 1+4*len(records))
	parts = append(parts, fmt.Sprintf("# %s\n", title))
	for i, r := range records {
		parts = append(parts,
			fmt.Sprintf("## Question %d:", i+1),
			fmt.Sprintf("**Q:** %s\n", r.Question),
			fmt.Sprintf("**A:** %s\n", r.Answer),
			"---\n",
		)
	}
	return strings.Join(parts, "\n")
}

// WriteMarkdown writes the Markdown rendering to path, replacing any
// existing file. Failures wrap types.ErrOutputWrite.
func WriteMarkdown(path, title string, records []types.Record) error {
	if err := os.WriteFile(path, []byte(Markdown(title, records)), 0o644); err != nil {
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, path, err)
	}
	return nil
}
