// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qaextract/internal/corpus"
	"github.com/pdiddy/qaextract/pkg/types"
)

// resetCLI restores every flag of the command tree and the global viper
// and logger state, so each test sees a freshly started binary.
func resetCLI(t *testing.T) {
	t.Helper()
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				require.NoError(t, f.Value.Set(f.DefValue))
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
	viper.Reset()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetOutput(io.Discard)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCLI(t)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		resetCLI(t)
		logger.SetOutput(os.Stderr)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTranscript(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "talk.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestRunWritesDatasetAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	input := writeTranscript(t, dir, "问：今天天气怎么样？\n答：很好。(A)\n问：你吃饭了吗？\n答：吃了。\n")
	jsonl := filepath.Join(dir, "talk.jsonl")
	md := filepath.Join(dir, "talk.md")

	_, err := execute(t, "run",
		"--grammar", "marker-pair",
		"--input", input,
		"--jsonl", jsonl,
		"--markdown", md,
		"--source", "talk-qa",
		"--title", "Talk")
	require.NoError(t, err)

	data, err := os.ReadFile(jsonl)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`{"conversations":[{"role":"user","content":"今天天气怎么样？"},{"role":"assistant","content":"很好。"}],"source":"talk-qa","score":5.0}`,
		lines[0])

	doc, err := os.ReadFile(md)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "# Talk\n"))
	assert.Contains(t, string(doc), "## Question 2:")
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run",
		"--grammar", "numbered",
		"--input", filepath.Join(dir, "absent.txt"),
		"--jsonl", filepath.Join(dir, "out.jsonl"),
		"--markdown", filepath.Join(dir, "out.md"))
	require.ErrorIs(t, err, types.ErrInputNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "out.jsonl"))
}

func TestRunFlagsDoNotLeakBetweenInvocations(t *testing.T) {
	dir := t.TempDir()
	input := writeTranscript(t, dir, "问：q\n答：a\n")

	_, err := execute(t, "run",
		"--grammar", "marker-pair",
		"--input", input,
		"--jsonl", filepath.Join(dir, "first.jsonl"),
		"--markdown", filepath.Join(dir, "first.md"),
		"--source", "first-source",
		"--score", "3")
	require.NoError(t, err)

	second := filepath.Join(dir, "second.jsonl")
	_, err = execute(t, "run",
		"--grammar", "marker-pair",
		"--input", input,
		"--jsonl", second,
		"--markdown", filepath.Join(dir, "second.md"))
	require.NoError(t, err)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t,
		`{"conversations":[{"role":"user","content":"q"},{"role":"assistant","content":"a"}],"source":"","score":5.0}`+"\n",
		string(data))
}

func TestPreviewMarkerPairsShowNoSourceOrdinal(t *testing.T) {
	input := writeTranscript(t, t.TempDir(), "问：一？\n答：一。\n问：二？\n答：二。\n")

	out, err := execute(t, "preview", "--grammar", "marker-pair", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, "#2")
	assert.NotContains(t, out, "(source")
	assert.Contains(t, out, "2 records")
}

func TestPreviewNumberedShowsSourceOrdinal(t *testing.T) {
	input := writeTranscript(t, t.TempDir(), "5、一？\n答：一。\n")

	out, err := execute(t, "preview", "--grammar", "numbered", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, "#1 (source 5)")
}

func TestCorpusExportToFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTranscript(t, dir, "问：q\n答：a\n")
	jsonl := filepath.Join(dir, "talk.jsonl")

	_, err := execute(t, "run",
		"--grammar", "marker-pair",
		"--input", input,
		"--jsonl", jsonl,
		"--markdown", filepath.Join(dir, "talk.md"),
		"--source", "talk-qa")
	require.NoError(t, err)

	corpusDir := filepath.Join(dir, "corpus")
	_, err = execute(t, "corpus", "ingest", "--corpus-dir", corpusDir, jsonl)
	require.NoError(t, err)

	exported := filepath.Join(dir, "merged.jsonl")
	_, err = execute(t, "corpus", "export", "--corpus-dir", corpusDir, "--output", exported)
	require.NoError(t, err)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t,
		`{"conversations":[{"role":"user","content":"q"},{"role":"assistant","content":"a"}],"source":"talk-qa","score":5.0}`+"\n",
		string(data))
}

type failingCloser struct{ err error }

func (c failingCloser) Close() error { return c.err }

func TestCloseOutput(t *testing.T) {
	writeErr := errors.New("disk full")
	closeErr := errors.New("flush failed")

	assert.NoError(t, closeOutput(failingCloser{}, "out.jsonl", nil))
	assert.Same(t, writeErr, closeOutput(failingCloser{err: closeErr}, "out.jsonl", writeErr))

	err := closeOutput(failingCloser{err: closeErr}, "out.jsonl", nil)
	require.ErrorIs(t, err, types.ErrOutputWrite)
	assert.ErrorContains(t, err, "out.jsonl")
	assert.ErrorContains(t, err, "flush failed")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "qaextract dev\n", out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "今天天...", truncate("今天天气怎么样", 6))
}

func TestFormatSearchOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatSearchOutput(&buf, nil, false))
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	results := []corpus.QueryResult{{
		Record: types.Record{Question: "今天天气怎么样？", Answer: "很好。"},
		ID:     "0123456789abcdef",
		Source: "talk-qa",
		Score:  5,
	}}
	require.NoError(t, formatSearchOutput(&buf, results, false))
	assert.Contains(t, buf.String(), "0123456789abcdef")
	assert.Contains(t, buf.String(), "1 results")

	buf.Reset()
	require.NoError(t, formatSearchOutput(&buf, results, true))
	assert.Contains(t, buf.String(), `"question": "今天天气怎么样？"`)
}
