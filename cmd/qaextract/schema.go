// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qaextract/internal/dataset"
	"github.com/pdiddy/qaextract/pkg/types"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a dataset line",
	Long: `Schema prints the JSON Schema every line of a generated JSONL dataset
conforms to. Use --output to write it to a file instead of stdout.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := dataset.SchemaJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, output, err)
	}
	logger.Infof("Wrote schema to %s", output)
	return nil
}

func init() {
	schemaCmd.Flags().StringP("output", "o", "", "write the schema to this file")
	rootCmd.AddCommand(schemaCmd)
}
