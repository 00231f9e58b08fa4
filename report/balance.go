package report

import (
	"io"
	"strings"

	"github.com/robinvdvleuten/ledger/ledger"
)

// balanceEntry is an account label with the amounts printed next to it.
type balanceEntry struct {
	label   string
	amounts []string
}

// Balance writes account balances followed by a separator and the grand
// total. Multi-commodity balances take one line per commodity, with the
// account name on the last one. The tree layout shows parent accounts with
// the balances of all their descendants.
func (r *Reporter) Balance(w io.Writer, l *ledger.Ledger, layout Layout) error {
	tree, err := l.BalanceTree()
	if err != nil {
		return err
	}

	var entries []balanceEntry
	if layout == Flat {
		for _, name := range l.Accounts() {
			account, _ := l.Account(name)
			entries = append(entries, balanceEntry{label: name, amounts: formatMixed(l, account.Balance)})
		}
	} else {
		for _, root := range tree.Roots {
			root.Walk(func(node *ledger.BalanceNode) {
				entries = append(entries, balanceEntry{
					label:   strings.Repeat("  ", node.Depth) + node.Name,
					amounts: formatMixed(l, node.Balance),
				})
			})
		}
	}
	total := formatMixed(l, tree.Total)

	amountWidth := 0
	for _, entry := range entries {
		for _, text := range entry.amounts {
			amountWidth = max(amountWidth, width(text))
		}
	}
	for _, text := range total {
		amountWidth = max(amountWidth, width(text))
	}

	var buf strings.Builder
	for _, entry := range entries {
		for i, text := range entry.amounts {
			buf.WriteString(r.amount(padLeft(text, amountWidth), isNegative(text)))
			if i == len(entry.amounts)-1 {
				buf.WriteString(strings.Repeat(" ", ColumnGap))
				buf.WriteString(r.account(entry.label))
			}
			buf.WriteByte('\n')
		}
	}

	buf.WriteString(r.dim(strings.Repeat("-", amountWidth)))
	buf.WriteByte('\n')
	for _, text := range total {
		buf.WriteString(r.keyword(padLeft(text, amountWidth)))
		buf.WriteByte('\n')
	}

	return flush(w, &buf)
}
