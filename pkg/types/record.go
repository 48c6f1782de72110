// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the qaextract pipeline:
// extracted Records, the dataset line written to JSONL, the extraction
// configuration and the error sentinels shared across stages.
package types

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Record is one normalized question/answer pair.
type Record struct {
	// Question is the user turn. Never empty, never contains a line break.
	Question string `json:"question" yaml:"question"`

	// Answer is the assistant turn with attribution tags removed.
	Answer string `json:"answer" yaml:"answer"`

	// SequenceIndex is the ordinal label captured from the source numbering
	// (numbered-entry grammar only). Not guaranteed contiguous or unique.
	SequenceIndex string `json:"sequence_index,omitempty" yaml:"sequence_index,omitempty"`
}

// Role names a conversation turn in a DatasetLine.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a DatasetLine conversation.
type Message struct {
	Role    Role   `json:"role" yaml:"role" jsonschema:"enum=user,enum=assistant"`
	Content string `json:"content" yaml:"content" jsonschema:"minLength=1"`
}

// DatasetLine is the fine-tuning record written as one JSONL line.
type DatasetLine struct {
	Conversations []Message `json:"conversations" yaml:"conversations" jsonschema:"minItems=2,maxItems=2"`
	Source        string    `json:"source" yaml:"source"`
	Score         Score     `json:"score" yaml:"score"`
}

// NewDatasetLine wraps a Record as a user/assistant conversation.
func NewDatasetLine(r Record, source string, score float64) DatasetLine {
	return DatasetLine{
		Conversations: []Message{
			{Role: RoleUser, Content: r.Question},
			{Role: RoleAssistant, Content: r.Answer},
		},
		Source: source,
		Score:  Score(score),
	}
}

// Record returns the question/answer pair carried by the line. ok is false
// when the line does not hold exactly one user turn followed by one
// assistant turn.
func (l DatasetLine) Record() (r Record, ok bool) {
	if len(l.Conversations) != 2 {
		return Record{}, false
	}
	if l.Conversations[0].Role != RoleUser || l.Conversations[1].Role != RoleAssistant {
		return Record{}, false
	}
	return Record{Question: l.Conversations[0].Content, Answer: l.Conversations[1].Content}, true
}

// Score is a dataset quality score. It always marshals with a decimal
// point so integral values read as 5.0 rather than 5.
type Score float64

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported score value %v", f)
	}
	b := strconv.AppendFloat(nil, f, 'f', -1, 64)
	if !bytes.ContainsRune(b, '.') {
		b = append(b, ".0"...)
	}
	return b, nil
}
