// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qaextract/pkg/types"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		records []types.Record
		want    string
	}{
		{
			name: "no records",
			want: "# QF Q&A Dataset for Fine-tuning\n",
		},
		{
			name: "two records",
			records: []types.Record{
				{Question: "今天天气怎么样？", Answer: "很好。"},
				{Question: "你吃饭了吗？", Answer: "吃了。", SequenceIndex: "9"},
			},
			want: "# QF Q&A Dataset for Fine-tuning\n\n" +
				"## Question 1:\n**Q:** 今天天气怎么样？\n\n**A:** 很好。\n\n---\n\n" +
				"## Question 2:\n**Q:** 你吃饭了吗？\n\n**A:** 吃了。\n\n---\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Markdown("QF Q&A Dataset for Fine-tuning", tt.records))
		})
	}
}

func TestWriteMarkdown(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "doc.md")
	require.NoError(t, WriteMarkdown(path, "T", []types.Record{{Question: "q", Answer: "a"}}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# T\n\n## Question 1:\n**Q:** q\n\n**A:** a\n\n---\n", string(data))

	err = WriteMarkdown(filepath.Join(dir, "missing", "doc.md"), "T", nil)
	assert.ErrorIs(t, err, types.ErrOutputWrite)
}

func TestPreview(t *testing.T) {
	records := []types.Record{
		{Question: "第一题？", Answer: "第一答。", SequenceIndex: "1"},
		{Question: "第二题？", Answer: "第二答。"},
		{Question: "第三题？", Answer: "第三答。"},
	}

	t.Run("all records", func(t *testing.T) {
		var b strings.Builder
		require.NoError(t, Preview(&b, records, PreviewOptions{Title: "Jushe"}))
		out := b.String()
		assert.Contains(t, out, "Jushe")
		assert.Contains(t, out, "#1 (source 1)")
		assert.Contains(t, out, "第三答。")
		assert.Contains(t, out, "3 records")
	})

	t.Run("limit", func(t *testing.T) {
		var b strings.Builder
		require.NoError(t, Preview(&b, records, PreviewOptions{Limit: 2}))
		out := b.String()
		assert.Contains(t, out, "第二题？")
		assert.NotContains(t, out, "第三题？")
		assert.Contains(t, out, "showing 2 of 3 records")
	})

	t.Run("empty", func(t *testing.T) {
		var b strings.Builder
		require.NoError(t, Preview(&b, nil, PreviewOptions{}))
		assert.Contains(t, b.String(), "0 records")
	})
}
