// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qaextract/internal/config"
	"github.com/pdiddy/qaextract/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract Q&A pairs into a JSONL dataset and a Markdown document",
	Long: `Run reads one transcript, optionally drops noise lines (page numbers,
numbered lines, indented headers), extracts question/answer pairs with the
selected grammar and writes:

  - a JSONL dataset, one {"conversations": [...], "source", "score"} per line
  - a Markdown document listing every pair
  - a YAML manifest next to the dataset describing the run

Finding no pairs is reported as a warning; both files are still written.
A missing input or a failed write exits non-zero.`,
	Example: `  qaextract run --preset qf
  qaextract run --preset jushe --input data/jushe-2.txt --jsonl out/jushe-2.jsonl
  qaextract run --grammar marker-pair --preprocess -i talk.txt --jsonl talk.jsonl --markdown talk.md --source talk-qa`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := bindExtractionFlags(cmd); err != nil {
		return err
	}
	cfg, err := config.Resolve(viper.GetViper())
	if err != nil {
		return err
	}

	summary, err := pipeline.Run(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"records": summary.Records,
		"dropped": summary.Dropped(),
	}).Debug("run complete")
	return nil
}

func init() {
	addExtractionFlags(runCmd.Flags(), true)
	rootCmd.AddCommand(runCmd)
}
