// Package output provides terminal styling for reports and diagnostics.
//
// Styles degrade to plain text automatically when the writer is not a
// terminal, so report code can style unconditionally.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// ANSI palette indexes used across the CLI.
const (
	colorRed     = "1"
	colorGreen   = "2"
	colorYellow  = "3"
	colorBlue    = "4"
	colorMagenta = "5"
	colorCyan    = "6"
)

// Styles applies colors to report fragments.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates Styles for w, detecting color support from the writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

// NewPlainStyles creates Styles for w that never emit escape sequences.
func NewPlainStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

func (s *Styles) fg(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Success renders text in bold green.
func (s *Styles) Success(text string) string {
	return s.fg(text, colorGreen).Bold().String()
}

// Error renders text in bold red.
func (s *Styles) Error(text string) string {
	return s.fg(text, colorRed).Bold().String()
}

// Warning renders text in bold yellow.
func (s *Styles) Warning(text string) string {
	return s.fg(text, colorYellow).Bold().String()
}

// FilePath renders a file path in cyan.
func (s *Styles) FilePath(text string) string {
	return s.fg(text, colorCyan).String()
}

// Date renders a transaction date in blue.
func (s *Styles) Date(text string) string {
	return s.fg(text, colorBlue).String()
}

// Account renders an account name in yellow.
func (s *Styles) Account(text string) string {
	return s.fg(text, colorYellow).String()
}

// Amount renders an amount in magenta, or in red when negative is set.
func (s *Styles) Amount(text string, negative bool) string {
	if negative {
		return s.fg(text, colorRed).String()
	}
	return s.fg(text, colorMagenta).String()
}

// Keyword renders text in bold.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim renders secondary information faintly.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Timing renders a duration, in red for slow operations and dimmed otherwise.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.fg(text, colorRed).String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv Output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
