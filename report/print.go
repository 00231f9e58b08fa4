package report

import (
	"io"
	"strings"

	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/ledger"
)

// PrintMode controls how inferred amounts are printed.
type PrintMode int

const (
	// Raw prints postings as written, leaving inferred amounts out.
	Raw PrintMode = iota
	// Explicit prints every amount, including inferred ones.
	Explicit
)

// Print writes all transactions back in journal syntax, separated by blank lines.
func (r *Reporter) Print(w io.Writer, l *ledger.Ledger, mode PrintMode) error {
	txns := l.Transactions()

	var accounts []string
	for _, txn := range txns {
		for _, posting := range txn.Postings {
			accounts = append(accounts, posting.Account)
		}
	}
	accountWidth := r.accountWidth(accounts) + AccountOffset

	var buf strings.Builder
	for i := range txns {
		if i > 0 {
			buf.WriteByte('\n')
		}
		r.printTransaction(&buf, &txns[i], accountWidth, mode)
	}

	return flush(w, &buf)
}

func (r *Reporter) printTransaction(buf *strings.Builder, txn *ast.Transaction[ast.BalancedPosting], accountWidth int, mode PrintMode) {
	buf.WriteString(r.date(txn.Date))
	if marker := txn.State.Marker(); marker != "" {
		buf.WriteString(" " + marker)
	}
	buf.WriteByte(' ')
	if txn.Code != nil {
		buf.WriteString("(" + *txn.Code + ") ")
	}
	buf.WriteString(txn.Description)
	buf.WriteByte('\n')

	r.printComments(buf, txn.Comments)

	for _, posting := range txn.Postings {
		buf.WriteString(indent)
		if mode == Raw && posting.Inferred {
			buf.WriteString(r.account(posting.Account))
		} else {
			buf.WriteString(r.account(padRight(posting.Account, accountWidth)))
			text := printAmount(posting.Commodity, posting.Amount.Format(posting.Precision))
			buf.WriteString(r.amount(text, posting.Amount.Sign() < 0))
		}
		buf.WriteByte('\n')

		r.printComments(buf, posting.Comments)
	}
}

// printAmount joins commodity and amount in journal syntax. Negative amounts
// follow the commodity directly, as in "USD-20.00".
func printAmount(commodity, value string) string {
	if strings.HasPrefix(value, "-") {
		return commodity + value
	}
	return commodity + " " + value
}

func (r *Reporter) printComments(buf *strings.Builder, comments []ast.Comment) {
	for _, comment := range comments {
		buf.WriteString(indent)
		buf.WriteString(r.dim("; " + comment.Text))
		buf.WriteByte('\n')
	}
}
