package report

import (
	"io"
	"strings"

	"github.com/robinvdvleuten/ledger/ledger"
)

// Accounts writes the chart of accounts, either as full names or as an
// indented hierarchy of name segments.
func (r *Reporter) Accounts(w io.Writer, l *ledger.Ledger, layout Layout) error {
	var buf strings.Builder

	if layout == Flat {
		for _, name := range l.Accounts() {
			buf.WriteString(r.account(name))
			buf.WriteByte('\n')
		}
		return flush(w, &buf)
	}

	tree, err := l.BalanceTree()
	if err != nil {
		return err
	}
	for _, root := range tree.Roots {
		root.Walk(func(node *ledger.BalanceNode) {
			buf.WriteString(strings.Repeat("  ", node.Depth))
			buf.WriteString(r.account(node.Name))
			buf.WriteByte('\n')
		})
	}

	return flush(w, &buf)
}

// Codes writes the distinct transaction codes in order of first appearance.
func (r *Reporter) Codes(w io.Writer, l *ledger.Ledger) error {
	var buf strings.Builder
	for _, code := range l.Codes() {
		buf.WriteString(code)
		buf.WriteByte('\n')
	}
	return flush(w, &buf)
}
