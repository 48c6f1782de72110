// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds question/answer entries in transcript text and
// normalizes them into Records.
//
// Matching is non-greedy: a question ends at the nearest following answer
// marker and an answer ends at the nearest following entry marker or at
// the end of the text. Malformed input is not repaired. Two answer markers
// before the next entry leave the second marker and its text inside the
// first answer, and a question may run across an entry marker that has no
// answer of its own.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/qaextract/pkg/types"
)

// RawPair is one entry as located in the text, before normalization.
type RawPair struct {
	// Label is the raw entry marker including its delimiter and trailing
	// whitespace ("12、 "). Empty for grammars without ordinals.
	Label string

	// Question is the text between the entry marker and the answer marker.
	Question string

	// Answer is the text between the answer marker and the next entry.
	Answer string
}

// Extract scans text with g and returns every entry in source order. No
// entries is a valid result.
func Extract(text string, g Grammar) []RawPair {
	var pairs []RawPair
	pos := 0
	for pos < len(text) {
		loc := g.entry.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		markStart, markEnd := pos+loc[0], pos+loc[1]

		qStart := markEnd
		if g.skipSpace {
			qStart = skipSpace(text, markEnd)
		}

		var qEnd int
		if i := strings.Index(text[qStart:], answerMarker); i >= 0 {
			qEnd = qStart + i
		} else if qStart > markEnd && strings.HasPrefix(text[qStart-1:], answerMarker) {
			// The whitespace after the marker ended with the answer
			// marker's own line break: the question is empty.
			qStart--
			qEnd = qStart
		} else {
			// No answer marker remains, so no later entry can match either.
			break
		}

		aStart := qEnd + len(answerMarker)
		aEnd := len(text)
		if loc := g.next.FindStringIndex(text[aStart:]); loc != nil {
			aEnd = aStart + loc[0]
		}

		pair := RawPair{Question: text[qStart:qEnd], Answer: text[aStart:aEnd]}
		if g.ordinal {
			pair.Label = text[markStart:qStart]
		}
		pairs = append(pairs, pair)
		pos = aEnd
	}
	return pairs
}

// Records runs Extract and Normalize over text and returns the surviving
// records in order.
func Records(text string, g Grammar) []types.Record {
	return NormalizeAll(Extract(text, g), g)
}

// NormalizeAll normalizes raw in order and drops the entries Normalize
// rejects.
func NormalizeAll(raw []RawPair, g Grammar) []types.Record {
	records := make([]types.Record, 0, len(raw))
	for _, p := range raw {
		if r, ok := Normalize(p, g); ok {
			records = append(records, r)
		}
	}
	return records
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isSpace(r) {
			break
		}
		i += size
	}
	return i
}

// isSpace matches the characters of spaceClass.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
