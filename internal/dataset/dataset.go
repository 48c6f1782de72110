// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads and writes fine-tuning datasets: one JSON object per
// line, each holding a user/assistant conversation, a source tag and a score.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/qaextract/pkg/types"
)

// maxLineSize bounds a single dataset line when reading.
const maxLineSize = 16 * 1024 * 1024

// Encode writes one compact JSON line per record to w. Non-ASCII text and
// HTML-significant characters are written literally.
func Encode(w io.Writer, records []types.Record, source string, score float64) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, r := range records {
		if err := enc.Encode(types.NewDatasetLine(r, source, score)); err != nil {
			return fmt.Errorf("encoding record %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteFile replaces path with the encoded records. An empty record slice
// produces an empty file. Failures wrap types.ErrOutputWrite.
func WriteFile(path string, records []types.Record, source string, score float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, path, err)
	}

	bw := bufio.NewWriter(f)
	if err := Encode(bw, records, source, score); err != nil {
		f.Close()
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w %s: %v", types.ErrOutputWrite, path, err)
	}
	return nil
}

// Decode parses dataset lines from r. Blank lines are skipped; a malformed
// line is reported with its line number.
func Decode(r io.Reader) ([]types.DatasetLine, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []types.DatasetLine
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var line types.DatasetLine
		if err := json.Unmarshal([]byte(text), &line); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning dataset: %w", err)
	}
	return lines, nil
}

// ReadFile parses the dataset at path.
func ReadFile(path string) ([]types.DatasetLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()

	lines, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return lines, nil
}

// Records extracts the question/answer pairs from lines, skipping lines
// that are not a single user/assistant exchange.
func Records(lines []types.DatasetLine) []types.Record {
	records := make([]types.Record, 0, len(lines))
	for _, l := range lines {
		if r, ok := l.Record(); ok {
			records = append(records, r)
		}
	}
	return records
}
