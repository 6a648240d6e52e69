// Package tui holds the terminal styling shared by the CLI and the terminal runner.
package tui

import (
	"io"

	"github.com/muesli/termenv"
)

// Style colors terminal output. On writers that are not terminals the
// profile degrades to plain ASCII and every method returns its input.
type Style struct {
	out *termenv.Output
}

// NewStyle detects the color profile of w.
func NewStyle(w io.Writer) *Style {
	return &Style{out: termenv.NewOutput(w)}
}

// Prompt styles the question of a dialogue step.
func (s *Style) Prompt(text string) string {
	return s.out.String(text).Bold().String()
}

// Choice styles a selectable token.
func (s *Style) Choice(text string) string {
	return s.out.String(text).Foreground(s.out.Color("#38bdf8")).String()
}

// Warning styles a rejection reason.
func (s *Style) Warning(text string) string {
	return s.out.String(text).Foreground(s.out.Color("#f87171")).String()
}

// Success styles a confirmation.
func (s *Style) Success(text string) string {
	return s.out.String(text).Foreground(s.out.Color("#4ade80")).String()
}

// Faint styles system hints.
func (s *Style) Faint(text string) string {
	return s.out.String(text).Faint().String()
}
