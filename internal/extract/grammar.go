// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"

	"github.com/pdiddy/qaextract/pkg/types"
)

const (
	// answerMarker separates the question span from the answer span. The
	// line break belongs to the marker: an answer must open a line.
	answerMarker = "\n答："

	// enumerationDelimiter follows the ordinal in numbered entries ("12、").
	enumerationDelimiter = "、"

	// spaceClass matches one whitespace character: ASCII space and
	// controls, the information separators, NEL and every Unicode space.
	spaceClass = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`
)

// Grammar describes one delimiter convention. The zero value is not usable;
// build one with Numbered, MarkerPair or ForKind.
type Grammar struct {
	kind types.GrammarKind

	// entry finds the leftmost entry marker.
	entry *regexp.Regexp

	// next finds the line break that opens the following entry.
	next *regexp.Regexp

	// redundant matches a leading repeat of the entry marker left inside
	// a span. Nil when the grammar has no ordinal.
	redundant *regexp.Regexp

	// ordinal reports whether the entry marker carries a sequence number
	// worth keeping as the entry label.
	ordinal bool

	// skipSpace makes whitespace after the marker part of the label.
	skipSpace bool
}

var (
	numbered = Grammar{
		kind:      types.GrammarNumbered,
		entry:     regexp.MustCompile(`\p{Nd}+` + enumerationDelimiter),
		next:      regexp.MustCompile(`\n\p{Nd}+` + enumerationDelimiter),
		redundant: regexp.MustCompile(`^\p{Nd}+` + enumerationDelimiter + spaceClass + `*`),
		ordinal:   true,
		skipSpace: true,
	}

	markerPair = Grammar{
		kind:  types.GrammarMarkerPair,
		entry: regexp.MustCompile(`问：`),
		next:  regexp.MustCompile(`\n问：`),
	}
)

// Numbered returns the grammar for "12、question\n答：answer" entries.
func Numbered() Grammar { return numbered }

// MarkerPair returns the grammar for "问：question\n答：answer" entries.
func MarkerPair() Grammar { return markerPair }

// ForKind returns the grammar registered for kind.
func ForKind(kind types.GrammarKind) (Grammar, error) {
	switch kind {
	case types.GrammarNumbered:
		return numbered, nil
	case types.GrammarMarkerPair:
		return markerPair, nil
	default:
		return Grammar{}, fmt.Errorf("unknown grammar %q", kind)
	}
}

// Kind reports which convention g implements.
func (g Grammar) Kind() types.GrammarKind { return g.kind }

// String implements fmt.Stringer.
func (g Grammar) String() string { return string(g.kind) }
