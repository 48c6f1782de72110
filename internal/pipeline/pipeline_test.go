// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qaextract/internal/dataset"
	"github.com/pdiddy/qaextract/internal/extract"
	"github.com/pdiddy/qaextract/pkg/types"
)

func testConfig(t *testing.T, grammar types.GrammarKind, input string) types.ExtractionConfig {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(inPath, []byte(input), 0o644))
	return types.ExtractionConfig{
		Grammar:      grammar,
		InputPath:    inPath,
		JSONLPath:    filepath.Join(dir, "out.jsonl"),
		MarkdownPath: filepath.Join(dir, "out.md"),
		Source:       "test-qa-dataset",
		Score:        types.DefaultScore,
		Title:        "Test Q&A Dataset for Fine-tuning",
	}
}

func warnings(hook *test.Hook) []string {
	var msgs []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

func TestRunMarkerPairs(t *testing.T) {
	cfg := testConfig(t, types.GrammarMarkerPair, "问：今天天气怎么样？\n答：很好。(A)\n问：你吃饭了吗？\n答：吃了。\n")
	log, hook := test.NewNullLogger()

	summary, err := Run(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 0, summary.Dropped())
	assert.Empty(t, warnings(hook))

	data, err := os.ReadFile(cfg.JSONLPath)
	require.NoError(t, err)
	assert.Equal(t,
		`{"conversations":[{"role":"user","content":"今天天气怎么样？"},{"role":"assistant","content":"很好。"}],"source":"test-qa-dataset","score":5.0}`+"\n"+
			`{"conversations":[{"role":"user","content":"你吃饭了吗？"},{"role":"assistant","content":"吃了。"}],"source":"test-qa-dataset","score":5.0}`+"\n",
		string(data))

	md, err := os.ReadFile(cfg.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Question 2:\n**Q:** 你吃饭了吗？")

	m, err := dataset.ReadManifest(dataset.ManifestPath(cfg.JSONLPath))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Records)
	assert.Equal(t, types.GrammarMarkerPair, m.Grammar)
}

func TestRunNumberedEntries(t *testing.T) {
	cfg := testConfig(t, types.GrammarNumbered, "1、第一题？\n答：第一答。\n2、第二题？\n答：第二答。")
	log, _ := test.NewNullLogger()

	summary, err := Run(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Records)

	lines, err := dataset.ReadFile(cfg.JSONLPath)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{
		{Question: "第一题？", Answer: "第一答。"},
		{Question: "第二题？", Answer: "第二答。"},
	}, dataset.Records(lines))
}

func TestProcessSequenceIndex(t *testing.T) {
	t.Run("marker pairs", func(t *testing.T) {
		records, st := Process("问：一？\n答：一。\n问：二？\n答：二。", extract.MarkerPair(), false)
		require.Len(t, records, 2)
		assert.Equal(t, 2, st.Entries)
		for _, r := range records {
			assert.Empty(t, r.SequenceIndex)
		}
	})

	t.Run("numbered entries", func(t *testing.T) {
		records, _ := Process("1、一？\n答：一。\n7、 二？\n答：二。", extract.Numbered(), false)
		require.Len(t, records, 2)
		assert.Equal(t, "1", records[0].SequenceIndex)
		assert.Equal(t, "7", records[1].SequenceIndex)
	})

	t.Run("dropped entries counted", func(t *testing.T) {
		records, st := Process("问：\n答：空\n问：有？\n答：有。", extract.MarkerPair(), false)
		assert.Len(t, records, 1)
		assert.Equal(t, 1, st.Dropped())
	})
}

func TestRunNoMatchesStillWritesOutputs(t *testing.T) {
	cfg := testConfig(t, types.GrammarMarkerPair, "hello world")
	log, hook := test.NewNullLogger()

	summary, err := Run(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Records)
	require.Len(t, warnings(hook), 1)
	assert.Contains(t, warnings(hook)[0], "no Q&A pairs")

	data, err := os.ReadFile(cfg.JSONLPath)
	require.NoError(t, err)
	assert.Empty(t, data)

	md, err := os.ReadFile(cfg.MarkdownPath)
	require.NoError(t, err)
	assert.Equal(t, "# Test Q&A Dataset for Fine-tuning\n", string(md))
}

func TestRunPreprocessing(t *testing.T) {
	input := "问：第一个问题\n   42   \n答：第一个回答\n    《header》\n问：第二个问题\n答：第二个回答(C1)\n"

	t.Run("noise removed", func(t *testing.T) {
		cfg := testConfig(t, types.GrammarMarkerPair, input)
		cfg.Preprocess = true
		log, _ := test.NewNullLogger()

		summary, err := Run(context.Background(), cfg, log)
		require.NoError(t, err)
		assert.Equal(t, 7, summary.LinesIn)
		assert.Equal(t, 5, summary.LinesOut)

		lines, err := dataset.ReadFile(cfg.JSONLPath)
		require.NoError(t, err)
		assert.Equal(t, []types.Record{
			{Question: "第一个问题", Answer: "第一个回答"},
			{Question: "第二个问题", Answer: "第二个回答"},
		}, dataset.Records(lines))
	})

	t.Run("noise kept without preprocessing", func(t *testing.T) {
		records, st := Process(input, extract.MarkerPair(), false)
		assert.Equal(t, st.LinesIn, st.LinesOut)
		require.Len(t, records, 2)
		assert.Equal(t, "第一个问题   42", records[0].Question)
		assert.Equal(t, "第一个回答    《header》", records[0].Answer)
	})
}

func TestRunMissingInput(t *testing.T) {
	cfg := testConfig(t, types.GrammarMarkerPair, "")
	cfg.InputPath = filepath.Join(t.TempDir(), "absent.txt")
	log, _ := test.NewNullLogger()

	_, err := Run(context.Background(), cfg, log)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInputNotFound)

	_, statErr := os.Stat(cfg.JSONLPath)
	assert.True(t, os.IsNotExist(statErr), "no output written on fatal input error")
}

func TestRunOutputWriteFailure(t *testing.T) {
	cfg := testConfig(t, types.GrammarMarkerPair, "问：q\n答：a")
	log, _ := test.NewNullLogger()

	t.Run("jsonl", func(t *testing.T) {
		c := cfg
		c.JSONLPath = filepath.Join(t.TempDir(), "missing", "out.jsonl")
		_, err := Run(context.Background(), c, log)
		assert.ErrorIs(t, err, types.ErrOutputWrite)
	})

	t.Run("markdown", func(t *testing.T) {
		c := cfg
		c.MarkdownPath = filepath.Join(t.TempDir(), "missing", "out.md")
		_, err := Run(context.Background(), c, log)
		assert.ErrorIs(t, err, types.ErrOutputWrite)
	})
}

func TestRunInvalidConfig(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := Run(context.Background(), types.ExtractionConfig{}, log)
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t, types.GrammarMarkerPair, "问：q\n答：a")
	log, _ := test.NewNullLogger()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, log)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunIsDeterministic(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	cfg := testConfig(t, types.GrammarNumbered, "1、问？\n答：答。\n")
	log, _ := test.NewNullLogger()

	_, err := Run(context.Background(), cfg, log)
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.JSONLPath)
	require.NoError(t, err)

	_, err = Run(context.Background(), cfg, log)
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.JSONLPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
