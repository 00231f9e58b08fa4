package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/ledger/output"
)

// slowThreshold marks spans that are highlighted in styled reports.
const slowThreshold = 100 * time.Millisecond

// writeTree renders a span and its descendants:
//
//	loader.load: 12ms
//	├─ parser.tokenize: 3ms
//	└─ ledger.balance (42 transactions): 1ms
func writeTree(w io.Writer, root *span, styles *output.Styles) {
	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatDuration(root.duration()))

	writeChildren(w, root.children, "", styles)
}

func writeChildren(w io.Writer, children []*span, prefix string, styles *output.Styles) {
	for i, child := range children {
		branch, indent := "├─ ", "│  "
		if i == len(children)-1 {
			branch, indent = "└─ ", "   "
		}

		d := child.duration()
		timing := formatDuration(d)
		lead := prefix + branch
		if styles != nil {
			lead = styles.Dim(lead)
			timing = styles.Timing(timing, d >= slowThreshold)
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", lead, child.name, timing)

		writeChildren(w, child.children, prefix+indent, styles)
	}
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
