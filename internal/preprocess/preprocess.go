// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preprocess strips structural noise from PDF-converted transcripts
// before question/answer extraction.
package preprocess

import (
	"regexp"
	"strings"
)

// space matches one whitespace character: ASCII space and controls, the
// information separators, NEL and every Unicode space.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// pageNumberRe matches a line holding only a page number, e.g. "  38 ".
	pageNumberRe = regexp.MustCompile(`^` + space + `*\p{Nd}+` + space + `*$`)

	// listNumberRe matches a line opening with "12." numbering that belongs
	// to the source document, not to the Q/A markers.
	listNumberRe = regexp.MustCompile(`^\p{Nd}+\.`)

	// indentedRe matches header/footer lines the converter indents by four
	// or more whitespace characters, e.g. "    《前行》第020课".
	indentedRe = regexp.MustCompile(`^` + space + `{4,}`)
)

// IsNoise reports whether line is a page number, a foreign numbering line,
// or an indented header/footer artifact.
func IsNoise(line string) bool {
	return pageNumberRe.MatchString(line) ||
		listNumberRe.MatchString(line) ||
		indentedRe.MatchString(line)
}

// Clean drops every noise line from text and keeps the rest in order.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if IsNoise(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
