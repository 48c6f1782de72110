// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/qaextract/pkg/types"
)

// PreviewOptions controls the terminal preview.
type PreviewOptions struct {
	// Title is printed above the records.
	Title string

	// Width wraps question and answer text. Zero disables wrapping.
	Width int

	// Limit caps the number of records shown. Zero shows all.
	Limit int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	ordinalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	questionLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render("Q")
	answerLabel   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Render("A")
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Preview prints records to w with terminal styling. Styling degrades to
// plain text when w is not a color terminal.
func Preview(w io.Writer, records []types.Record, opts PreviewOptions) error {
	if opts.Title != "" {
		if _, err := fmt.Fprintln(w, titleStyle.Render(opts.Title)); err != nil {
			return err
		}
	}

	body := lipgloss.NewStyle()
	if opts.Width > 0 {
		body = body.Width(opts.Width)
	}

	shown := records
	if opts.Limit > 0 && len(shown) > opts.Limit {
		shown = shown[:opts.Limit]
	}

	for i, r := range shown {
		ordinal := fmt.Sprintf("#%d", i+1)
		if r.SequenceIndex != "" {
			ordinal += fmt.Sprintf(" (source %s)", r.SequenceIndex)
		}
		block := lipgloss.JoinVertical(lipgloss.Left,
			ordinalStyle.Render(ordinal),
			lipgloss.JoinHorizontal(lipgloss.Top, questionLabel, " ", body.Render(r.Question)),
			lipgloss.JoinHorizontal(lipgloss.Top, answerLabel, " ", body.Render(r.Answer)),
		)
		if _, err := fmt.Fprintf(w, "\n%s\n", block); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d records", len(records))
	if len(shown) < len(records) {
		summary = fmt.Sprintf("showing %d of %d records", len(shown), len(records))
	}
	_, err := fmt.Fprintf(w, "\n%s\n", mutedStyle.Render(summary))
	return err
}
