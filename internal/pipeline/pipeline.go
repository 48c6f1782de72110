// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one extraction: read the transcript, optionally
// drop noise lines, extract and normalize question/answer pairs, then write
// the JSONL dataset and its Markdown rendering.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/qaextract/internal/dataset"
	"github.com/pdiddy/qaextract/internal/extract"
	"github.com/pdiddy/qaextract/internal/preprocess"
	"github.com/pdiddy/qaextract/internal/render"
	"github.com/pdiddy/qaextract/internal/source"
	"github.com/pdiddy/qaextract/pkg/types"
)

// now stamps manifests. Tests override it.
var now = time.Now

// Stats counts what happened to the text of one transcript.
type Stats struct {
	// LinesIn and LinesOut count lines before and after preprocessing.
	// They are equal when preprocessing is off.
	LinesIn  int
	LinesOut int

	// Entries is the number of raw entries the grammar located.
	Entries int

	// Records is the number of entries that survived normalization.
	Records int
}

// Dropped returns the number of entries discarded for an empty question
// or answer.
func (s Stats) Dropped() int {
	return s.Entries - s.Records
}

// Summary reports a completed run.
type Summary struct {
	Stats
	JSONLPath    string
	MarkdownPath string
}

// Process turns transcript text into records without touching the
// filesystem.
func Process(text string, g extract.Grammar, clean bool) ([]types.Record, Stats) {
	var st Stats
	st.LinesIn = countLines(text)
	if clean {
		text = preprocess.Clean(text)
	}
	st.LinesOut = countLines(text)

	raw := extract.Extract(text, g)
	st.Entries = len(raw)

	records := extract.NormalizeAll(raw, g)
	st.Records = len(records)
	return records, st
}

// Load reads the configured transcript and processes it.
func Load(cfg types.ExtractionConfig, log logrus.FieldLogger) ([]types.Record, Stats, error) {
	g, err := extract.ForKind(cfg.Grammar)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %v", types.ErrInvalidConfig, err)
	}

	text, err := source.Read(cfg.InputPath)
	if err != nil {
		return nil, Stats{}, err
	}

	records, st := Process(text, g, cfg.Preprocess)
	log.WithFields(logrus.Fields{
		"input":   cfg.InputPath,
		"grammar": g.String(),
		"lines":   st.LinesIn,
		"kept":    st.LinesOut,
		"entries": st.Entries,
		"records": st.Records,
		"dropped": st.Dropped(),
	}).Debug("extracted transcript")

	if st.Records == 0 {
		log.WithField("input", cfg.InputPath).Warn("no Q&A pairs were extracted; check the file format and grammar")
	}
	return records, st, nil
}

// Run executes one extraction described by cfg. A missing or unreadable
// input and any failure writing either artifact abort the run. Finding no
// pairs is not an error: both artifacts are still written.
func Run(ctx context.Context, cfg types.ExtractionConfig, log logrus.FieldLogger) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	records, st, err := Load(cfg, log)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Stats: st, JSONLPath: cfg.JSONLPath, MarkdownPath: cfg.MarkdownPath}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if err := dataset.WriteFile(cfg.JSONLPath, records, cfg.Source, cfg.Score); err != nil {
		return summary, err
	}
	if len(records) > 0 {
		log.Infof("Successfully generated %d Q&A entries to %s", len(records), cfg.JSONLPath)
	}

	manifest := dataset.Manifest{
		Preset:      cfg.Preset,
		Grammar:     cfg.Grammar,
		Input:       cfg.InputPath,
		Source:      cfg.Source,
		Records:     len(records),
		GeneratedAt: now().UTC(),
	}
	if err := dataset.WriteManifest(dataset.ManifestPath(cfg.JSONLPath), manifest); err != nil {
		log.WithError(err).Warn("manifest not written")
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if err := render.WriteMarkdown(cfg.MarkdownPath, cfg.Title, records); err != nil {
		return summary, err
	}
	log.Infof("Successfully generated markdown documentation to %s", cfg.MarkdownPath)

	return summary, nil
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
