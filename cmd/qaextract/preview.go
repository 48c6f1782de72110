// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qaextract/internal/config"
	"github.com/pdiddy/qaextract/internal/pipeline"
	"github.com/pdiddy/qaextract/internal/render"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print extracted Q&A pairs to the terminal without writing files",
	Long: `Preview runs the same preprocessing, extraction and normalization as run
and prints the resulting records, so a grammar or preset can be checked
against a transcript before any dataset is written.`,
	Example: `  qaextract preview --preset jushe --limit 5
  qaextract preview --grammar marker-pair --preprocess -i talk.txt --width 80`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := bindExtractionFlags(cmd); err != nil {
		return err
	}
	cfg, err := config.ResolveInput(viper.GetViper())
	if err != nil {
		return err
	}

	records, stats, err := pipeline.Load(cfg, logger)
	if err != nil {
		return err
	}
	logger.WithField("dropped", stats.Dropped()).Debug("preview loaded")

	width, _ := cmd.Flags().GetInt("width")
	limit, _ := cmd.Flags().GetInt("limit")
	return render.Preview(cmd.OutOrStdout(), records, render.PreviewOptions{
		Title: cfg.Title,
		Width: width,
		Limit: limit,
	})
}

func init() {
	addExtractionFlags(previewCmd.Flags(), false)
	previewCmd.Flags().Int("width", 0, "wrap text at this many columns (0 = no wrapping)")
	previewCmd.Flags().Int("limit", 0, "show at most this many records (0 = all)")
	rootCmd.AddCommand(previewCmd)
}
