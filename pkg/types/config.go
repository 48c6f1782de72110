// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// GrammarKind selects the delimiter grammar used to find question/answer
// entries in a transcript.
type GrammarKind string

const (
	// GrammarNumbered matches entries of the form "12、question\n答：answer".
	GrammarNumbered GrammarKind = "numbered"

	// GrammarMarkerPair matches entries of the form "问：question\n答：answer".
	GrammarMarkerPair GrammarKind = "marker-pair"
)

// Valid reports whether g names a known grammar.
func (g GrammarKind) Valid() bool {
	return g == GrammarNumbered || g == GrammarMarkerPair
}

// DefaultScore is the placeholder quality score written on every dataset line.
const DefaultScore = 5.0

// ExtractionConfig holds everything one extraction run needs. The CLI
// builds it from a preset, the config file, environment and flags.
type ExtractionConfig struct {
	// Preset is the name of the built-in preset this config started from.
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty" mapstructure:"preset"`

	// Grammar selects the entry grammar.
	Grammar GrammarKind `json:"grammar" yaml:"grammar" mapstructure:"grammar"`

	// Preprocess drops noise lines (page numbers, foreign numbering,
	// indented headers) before extraction.
	Preprocess bool `json:"preprocess" yaml:"preprocess" mapstructure:"preprocess"`

	// InputPath is the UTF-8 transcript to read.
	InputPath string `json:"input" yaml:"input" mapstructure:"input"`

	// JSONLPath is where dataset lines are written.
	JSONLPath string `json:"jsonl" yaml:"jsonl" mapstructure:"jsonl"`

	// MarkdownPath is where the human-readable rendering is written.
	MarkdownPath string `json:"markdown" yaml:"markdown" mapstructure:"markdown"`

	// Source is the dataset tag written on every line (e.g. "qf-qa-dataset").
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// Score is the quality score written on every line (default 5.0).
	Score float64 `json:"score" yaml:"score" mapstructure:"score"`

	// Title is the Markdown document heading.
	Title string `json:"title" yaml:"title" mapstructure:"title"`
}

// Validate checks that the configuration can drive a full run.
func (c ExtractionConfig) Validate() error {
	return c.check(true)
}

// ValidateInput checks only the settings needed to read and extract a
// transcript, for commands that write no files.
func (c ExtractionConfig) ValidateInput() error {
	return c.check(false)
}

func (c ExtractionConfig) check(outputs bool) error {
	var problems []string
	if !c.Grammar.Valid() {
		problems = append(problems, fmt.Sprintf("unknown grammar %q (want %s or %s)", c.Grammar, GrammarNumbered, GrammarMarkerPair))
	}
	if strings.TrimSpace(c.InputPath) == "" {
		problems = append(problems, "input path is required")
	}
	if outputs && strings.TrimSpace(c.JSONLPath) == "" {
		problems = append(problems, "jsonl output path is required")
	}
	if outputs && strings.TrimSpace(c.MarkdownPath) == "" {
		problems = append(problems, "markdown output path is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// CorpusConfig holds settings for the SQLite corpus index.
type CorpusConfig struct {
	// Dir is the directory holding the corpus database (corpus.db).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
