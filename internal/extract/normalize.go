// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/qaextract/pkg/types"
)

// attributionRe matches a respondent tag such as "(A)", "(C1)" or "（B2）"
// together with the whitespace before it.
var attributionRe = regexp.MustCompile(spaceClass + `*[(（][A-Za-z]\p{Nd}?[)）]`)

// lineBreaks deletes line breaks outright; lines are joined without a space.
var lineBreaks = strings.NewReplacer(
	"\r\n", "",
	"\n", "",
	"\r", "",
	"\u0085", "",
	"\u2028", "",
	"\u2029", "",
)

// Normalize cleans a raw entry into a Record. ok is false when the question
// or the answer is empty after cleaning; such entries are dropped.
func Normalize(p RawPair, g Grammar) (r types.Record, ok bool) {
	q := g.CleanQuestion(p.Question)
	a := g.CleanAnswer(p.Answer)
	if q == "" || a == "" {
		return types.Record{}, false
	}
	return types.Record{
		Question:      q,
		Answer:        a,
		SequenceIndex: CleanLabel(p.Label),
	}, true
}

// CleanQuestion normalizes question text. Applying it twice gives the same
// result as applying it once.
func (g Grammar) CleanQuestion(s string) string {
	return fixpoint(s, func(s string) string { return g.cleanOnce(s, false) })
}

// CleanAnswer normalizes answer text and removes attribution tags.
// Applying it twice gives the same result as applying it once.
func (g Grammar) CleanAnswer(s string) string {
	return fixpoint(s, func(s string) string { return g.cleanOnce(s, true) })
}

// CleanLabel reduces a raw entry marker such as "12、 " to "12".
func CleanLabel(label string) string {
	return strings.TrimSpace(strings.ReplaceAll(label, enumerationDelimiter, ""))
}

// HasAttribution reports whether s still carries a respondent tag.
func HasAttribution(s string) bool {
	return attributionRe.MatchString(s)
}

func (g Grammar) cleanOnce(s string, answer bool) string {
	s = strings.TrimSpace(s)
	if g.redundant != nil {
		s = g.redundant.ReplaceAllString(s, "")
	}
	s = lineBreaks.Replace(s)
	s = strings.TrimSpace(s)
	if answer {
		s = attributionRe.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
	}
	return s
}

// fixpoint applies step until the text stops changing. Every step only
// removes characters, so the loop terminates.
func fixpoint(s string, step func(string) string) string {
	for {
		next := step(s)
		if next == s {
			return s
		}
		s = next
	}
}
