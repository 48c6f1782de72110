// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qaextract/internal/config"
	"github.com/pdiddy/qaextract/internal/corpus"
	"github.com/pdiddy/qaextract/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the corpus of generated datasets (ingest, search, export)",
	Long: `Corpus keeps a local SQLite index of the JSONL datasets qaextract has
produced. Records are deduplicated by content across datasets, so the
corpus can be searched and exported as one merged fine-tuning file.`,
}

// --- ingest subcommand ---

var corpusIngestCmd = &cobra.Command{
	Use:   "ingest <dataset.jsonl>...",
	Short: "Index JSONL datasets into the corpus",
	Long: `Ingest reads each JSONL dataset (and its .manifest.yaml when present)
into the corpus. Unchanged files are skipped on subsequent runs; changed
files are re-indexed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCorpusIngest,
}

func runCorpusIngest(cmd *cobra.Command, args []string) error {
	cfg, err := corpusConfig(cmd)
	if err != nil {
		return err
	}
	store, err := corpus.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d dataset(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var corpusSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed records by text and source",
	Long: `Search matches the query as a substring of questions and answers.
--source restricts results to one dataset source tag.`,
	RunE: runCorpusSearch,
}

func runCorpusSearch(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or --source")
	}

	cfg, err := corpusConfig(cmd)
	if err != nil {
		return err
	}
	store, err := corpus.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []corpus.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-16s  %-30s  %-30s  %s\n",
		"Rank", "ID", "Question", "Answer", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-16s  %-30s  %-30s  %s\n",
			i+1, r.ID, truncate(r.Question, 30), truncate(r.Answer, 30), r.Source)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// --- export subcommand ---

var corpusExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export indexed records as a merged JSONL dataset or YAML",
	Long: `Export writes every indexed record (or the subset matching the query
and --source) to --output or stdout. The jsonl format is a fine-tuning
dataset in the same shape run produces; yaml adds record IDs and the
dataset each record came from.`,
	RunE: runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch corpus.ExportFormat(format) {
	case corpus.ExportJSONL, corpus.ExportYAML:
	default:
		return fmt.Errorf("unsupported format %q: use jsonl or yaml", format)
	}

	cfg, err := corpusConfig(cmd)
	if err != nil {
		return err
	}
	store, err := corpus.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := store.Export(cmd.Context(), opts, corpus.ExportFormat(format), cmd.OutOrStdout())
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, output, err)
	}
	n, err := store.Export(cmd.Context(), opts, corpus.ExportFormat(format), f)
	if err := closeOutput(f, output, err); err != nil {
		return err
	}
	logger.Infof("Exported %d records to %s", n, output)
	return nil
}

// closeOutput closes an output file after a write that returned err. A
// close failure is reported as types.ErrOutputWrite unless err is already
// set.
func closeOutput(c io.Closer, path string, err error) error {
	cerr := c.Close()
	if err != nil {
		return err
	}
	if cerr != nil {
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, path, cerr)
	}
	return nil
}

// --- stats subcommand ---

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show indexed record counts per source",
	Args:  cobra.NoArgs,
	RunE:  runCorpusStats,
}

func runCorpusStats(cmd *cobra.Command, args []string) error {
	cfg, err := corpusConfig(cmd)
	if err != nil {
		return err
	}
	store, err := corpus.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.Counts(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	total := 0
	fmt.Fprintf(w, "%-30s  %s\n", "Source", "Records")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, c := range counts {
		fmt.Fprintf(w, "%-30s  %d\n", c.Source, c.Records)
		total += c.Records
	}
	fmt.Fprintf(w, "\n%d records in %d sources\n", total, len(counts))
	return nil
}

// --- shared helpers ---

// corpusConfig binds the corpus flags of cmd to viper and resolves the
// corpus settings.
func corpusConfig(cmd *cobra.Command) (types.CorpusConfig, error) {
	for name, key := range map[string]string{
		"corpus-dir":  config.KeyCorpusDir,
		"max-results": config.KeyCorpusMaxResults,
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return types.CorpusConfig{}, fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return config.Corpus(viper.GetViper()), nil
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) corpus.QueryOptions {
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")
	return corpus.QueryOptions{
		Query:      strings.Join(args, " "),
		Source:     source,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	corpusCmd.PersistentFlags().String("corpus-dir", "corpus", "directory holding the corpus database")
	corpusCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")

	// Search flags.
	corpusSearchCmd.Flags().String("source", "", "filter by dataset source tag")
	corpusSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	corpusSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	corpusExportCmd.Flags().String("format", "jsonl", "export format: jsonl or yaml")
	corpusExportCmd.Flags().StringP("output", "o", "", "write the export to this file instead of stdout")
	corpusExportCmd.Flags().String("source", "", "filter by dataset source tag for partial export")

	// Wire subcommands.
	corpusCmd.AddCommand(corpusIngestCmd)
	corpusCmd.AddCommand(corpusSearchCmd)
	corpusCmd.AddCommand(corpusExportCmd)
	corpusCmd.AddCommand(corpusStatsCmd)

	rootCmd.AddCommand(corpusCmd)
}
