package report

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/ledger/ledger"
)

// Register writes one row per posting with a running total. Filters limit
// the listing to accounts and their sub-accounts.
//
//	2023-01-03 Groceries  Expenses:Food  USD 20.00  USD 20.00
//	                      Assets:Cash   USD -20.00          0
func (r *Reporter) Register(w io.Writer, l *ledger.Ledger, filters ...string) error {
	rows, err := l.Register(filters...)
	if err != nil {
		return err
	}

	type line struct {
		date, description, account, amount string
		negative                           bool
		totals                             []string
	}

	lines := make([]line, 0, len(rows))
	var accounts []string
	descWidth, amountWidth, totalWidth := 0, 0, 0

	for _, row := range rows {
		ln := line{
			account:  row.Account,
			amount:   formatAmount(row.Commodity, row.Amount, l.Precision(row.Commodity)),
			negative: row.Amount.Sign() < 0,
			totals:   formatMixed(l, row.Total),
		}
		if row.First {
			ln.date = row.Date
			ln.description = runewidth.Truncate(row.Description, DescriptionWidth, "...")
		}

		accounts = append(accounts, row.Account)
		descWidth = max(descWidth, width(ln.description))
		amountWidth = max(amountWidth, width(ln.amount))
		for _, total := range ln.totals {
			totalWidth = max(totalWidth, width(total))
		}
		lines = append(lines, ln)
	}

	dateWidth := 0
	for _, ln := range lines {
		dateWidth = max(dateWidth, width(ln.date))
	}
	accountWidth := r.accountWidth(accounts)
	gap := strings.Repeat(" ", ColumnGap)

	var buf strings.Builder
	for _, ln := range lines {
		buf.WriteString(r.date(padRight(ln.date, dateWidth)))
		buf.WriteString(" ")
		buf.WriteString(padRight(ln.description, descWidth))
		buf.WriteString(gap)
		buf.WriteString(r.account(padRight(ln.account, accountWidth)))
		buf.WriteString(gap)
		buf.WriteString(r.amount(padLeft(ln.amount, amountWidth), ln.negative))
		buf.WriteString(gap)

		for i, total := range ln.totals {
			if i > 0 {
				buf.WriteString(strings.Repeat(" ", dateWidth+1+descWidth+accountWidth+amountWidth+3*ColumnGap))
			}
			buf.WriteString(r.amount(padLeft(total, totalWidth), isNegative(total)))
			buf.WriteByte('\n')
		}
	}

	return flush(w, &buf)
}
