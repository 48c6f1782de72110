// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/qaextract/pkg/types"
)

// Viper keys for the run configuration. Flags bind to the same names.
const (
	KeyPreset     = "preset"
	KeyGrammar    = "grammar"
	KeyPreprocess = "preprocess"
	KeyInput      = "input"
	KeyJSONL      = "jsonl"
	KeyMarkdown   = "markdown"
	KeySource     = "source"
	KeyScore      = "score"
	KeyTitle      = "title"
	KeyPresets    = "presets"

	KeyCorpusDir        = "corpus.dir"
	KeyCorpusMaxResults = "corpus.max_results"
)

// DefaultTitle heads the Markdown document when no title is configured.
const DefaultTitle = "Q&A Dataset for Fine-tuning"

// Presets merges the built-in presets with any defined under "presets" in
// v. A preset from v replaces the built-in preset of the same name.
func Presets(v *viper.Viper) (map[string]types.ExtractionConfig, error) {
	presets, err := Builtin()
	if err != nil {
		return nil, err
	}
	if !v.IsSet(KeyPresets) {
		return presets, nil
	}

	var custom map[string]types.ExtractionConfig
	if err := v.UnmarshalKey(KeyPresets, &custom); err != nil {
		return nil, fmt.Errorf("parsing presets from config: %w", err)
	}
	for name, p := range custom {
		p.Preset = name
		if p.Score == 0 {
			p.Score = types.DefaultScore
		}
		presets[name] = p
	}
	return presets, nil
}

// Resolve builds the run configuration. The named preset supplies the
// base values; any key set in the config file, environment or flags
// overrides it. The result is validated for a full run.
func Resolve(v *viper.Viper) (types.ExtractionConfig, error) {
	cfg, err := merge(v)
	if err != nil {
		return types.ExtractionConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return types.ExtractionConfig{}, err
	}
	return cfg, nil
}

// ResolveInput is Resolve for commands that only read the transcript;
// output paths may be empty.
func ResolveInput(v *viper.Viper) (types.ExtractionConfig, error) {
	cfg, err := merge(v)
	if err != nil {
		return types.ExtractionConfig{}, err
	}
	if err := cfg.ValidateInput(); err != nil {
		return types.ExtractionConfig{}, err
	}
	return cfg, nil
}

func merge(v *viper.Viper) (types.ExtractionConfig, error) {
	cfg := types.ExtractionConfig{Score: types.DefaultScore}

	if name := strings.TrimSpace(v.GetString(KeyPreset)); name != "" {
		presets, err := Presets(v)
		if err != nil {
			return types.ExtractionConfig{}, err
		}
		p, ok := presets[name]
		if !ok {
			return types.ExtractionConfig{}, fmt.Errorf("%w: unknown preset %q (available: %s)",
				types.ErrInvalidConfig, name, strings.Join(Names(presets), ", "))
		}
		cfg = p
	}

	if v.IsSet(KeyGrammar) {
		cfg.Grammar = types.GrammarKind(v.GetString(KeyGrammar))
	}
	if v.IsSet(KeyPreprocess) {
		cfg.Preprocess = v.GetBool(KeyPreprocess)
	}
	if v.IsSet(KeyInput) {
		cfg.InputPath = v.GetString(KeyInput)
	}
	if v.IsSet(KeyJSONL) {
		cfg.JSONLPath = v.GetString(KeyJSONL)
	}
	if v.IsSet(KeyMarkdown) {
		cfg.MarkdownPath = v.GetString(KeyMarkdown)
	}
	if v.IsSet(KeySource) {
		cfg.Source = v.GetString(KeySource)
	}
	if v.IsSet(KeyScore) {
		cfg.Score = v.GetFloat64(KeyScore)
	}
	if v.IsSet(KeyTitle) {
		cfg.Title = v.GetString(KeyTitle)
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	return cfg, nil
}

// Corpus returns the corpus index settings from v.
func Corpus(v *viper.Viper) types.CorpusConfig {
	cfg := types.CorpusConfig{
		Dir:        v.GetString(KeyCorpusDir),
		MaxResults: v.GetInt(KeyCorpusMaxResults),
	}
	if cfg.Dir == "" {
		cfg.Dir = "corpus"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	return cfg
}
