package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/loader"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context.
// source may be nil, in which case only the message is rendered.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and, when the error carries a
// position and source is available, an excerpt of the offending lines.
func (r *ErrorRenderer) Render(err error) string {
	var buf strings.Builder

	// lipgloss pads multi-line blocks to equal width, so style line by line.
	lines := strings.Split(err.Error(), "\n")
	for i, line := range lines {
		buf.WriteString(errorStyle.Render(line))
		if i < len(lines)-1 {
			buf.WriteByte('\n')
		}
	}

	var positioned loader.Positioned
	if r.source == nil || !errors.As(err, &positioned) {
		return buf.String()
	}

	buf.WriteString("\n\n")
	r.writeContext(&buf, positioned.GetPosition())

	return strings.TrimRight(buf.String(), "\n")
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	rendered := make([]string, 0, len(errs))
	for _, err := range errs {
		rendered = append(rendered, r.Render(err))
	}
	return strings.Join(rendered, "\n\n")
}

func (r *ErrorRenderer) writeContext(buf *strings.Builder, pos ast.Position) {
	sourceLines := strings.Split(string(r.source), "\n")

	startLine := pos.Line - 3
	endLine := pos.Line + 1

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(sourceLines[i]))
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", pos.Column-1))
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}
}
