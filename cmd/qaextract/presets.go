// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qaextract/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in and configured presets",
	Long: `Presets lists every preset 'qaextract run --preset' accepts: the built-in
transcripts plus any defined under the "presets" key of the config file.`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

func runPresets(cmd *cobra.Command, args []string) error {
	presets, err := config.Presets(viper.GetViper())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-12s  %-12s  %-5s  %-20s  %-32s  %s\n",
		"Preset", "Grammar", "Clean", "Input", "JSONL", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, name := range config.Names(presets) {
		p := presets[name]
		clean := "no"
		if p.Preprocess {
			clean = "yes"
		}
		fmt.Fprintf(w, "%-12s  %-12s  %-5s  %-20s  %-32s  %s\n",
			name, p.Grammar, clean, p.InputPath, p.JSONLPath, p.Source)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
