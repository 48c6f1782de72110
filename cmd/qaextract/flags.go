// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/qaextract/internal/config"
)

// addExtractionFlags registers the flags that select and locate a
// transcript. withOutputs adds the dataset and document settings.
func addExtractionFlags(fs *pflag.FlagSet, withOutputs bool) {
	fs.StringP("preset", "p", "", "built-in or configured preset (see 'qaextract presets')")
	fs.String("grammar", "", "entry grammar: numbered or marker-pair")
	fs.Bool("preprocess", false, "drop page numbers, numbered lines and indented headers before extraction")
	fs.StringP("input", "i", "", "transcript file (UTF-8)")
	fs.String("title", "", "Markdown document title")
	if !withOutputs {
		return
	}
	fs.String("jsonl", "", "JSONL dataset output path")
	fs.String("markdown", "", "Markdown document output path")
	fs.String("source", "", "dataset source tag written on every line")
	fs.Float64("score", 0, "score written on every line (default 5.0)")
}

// bindExtractionFlags binds cmd's extraction flags to viper. Binding
// happens when the command runs because run and preview share keys.
func bindExtractionFlags(cmd *cobra.Command) error {
	keys := map[string]string{
		"preset":     config.KeyPreset,
		"grammar":    config.KeyGrammar,
		"preprocess": config.KeyPreprocess,
		"input":      config.KeyInput,
		"title":      config.KeyTitle,
		"jsonl":      config.KeyJSONL,
		"markdown":   config.KeyMarkdown,
		"source":     config.KeySource,
		"score":      config.KeyScore,
	}
	for name, key := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}
