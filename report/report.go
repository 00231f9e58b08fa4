// Package report renders a ledger as text.
//
// Every report is built in memory and written with a single call, so a
// failing report never leaves partial output behind. Columns are aligned by
// display width, which keeps accounts and commodities with wide characters
// lined up.
//
// Example usage:
//
//	r := report.New(report.WithStyles(output.NewStyles(os.Stdout)))
//	err := r.Balance(os.Stdout, l, report.Tree)
package report

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/output"
)

const (
	// AccountOffset is the gap between the widest account and the amount column.
	AccountOffset = 4

	// ColumnGap separates register and balance columns.
	ColumnGap = 2

	// DescriptionWidth caps the description column of the register.
	DescriptionWidth = 30

	indent = "\t"
)

// Layout selects between a flat listing and an indented account hierarchy.
type Layout int

const (
	Tree Layout = iota
	Flat
)

// Reporter renders reports.
type Reporter struct {
	// AccountWidth is the minimum width of the account column.
	// If 0, the width is taken from the widest account.
	AccountWidth int

	// Styles colors report fragments. Nil renders plain text.
	Styles *output.Styles
}

// Option is a functional option for configuring a Reporter.
type Option func(*Reporter)

// WithAccountWidth sets the minimum width of the account column.
func WithAccountWidth(width int) Option {
	return func(r *Reporter) {
		r.AccountWidth = width
	}
}

// WithStyles enables colored output.
func WithStyles(styles *output.Styles) Option {
	return func(r *Reporter) {
		r.Styles = styles
	}
}

// New creates a new Reporter with the given options.
func New(opts ...Option) *Reporter {
	r := &Reporter{}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// flush writes the buffered report at once.
func flush(w io.Writer, buf *strings.Builder) error {
	_, err := io.WriteString(w, buf.String())
	return err
}

// formatAmount renders "COMMODITY AMOUNT" with places decimals.
func formatAmount(commodity string, value amount.Rat, places int) string {
	return commodity + " " + value.Format(places)
}

// formatMixed renders one line per commodity, or "0" when m is zero.
func formatMixed(l *ledger.Ledger, m *ledger.MixedAmount) []string {
	var lines []string
	for _, entry := range m.NonZero() {
		lines = append(lines, formatAmount(entry.Commodity, entry.Amount, l.Precision(entry.Commodity)))
	}
	if len(lines) == 0 {
		lines = []string{"0"}
	}
	return lines
}

func width(s string) int {
	return runewidth.StringWidth(s)
}

func padRight(s string, w int) string {
	return runewidth.FillRight(s, w)
}

func padLeft(s string, w int) string {
	return runewidth.FillLeft(s, w)
}

func (r *Reporter) accountWidth(accounts []string) int {
	w := r.AccountWidth
	for _, account := range accounts {
		w = max(w, width(account))
	}
	return w
}

func (r *Reporter) date(text string) string {
	if r.Styles == nil {
		return text
	}
	return r.Styles.Date(text)
}

func (r *Reporter) account(text string) string {
	if r.Styles == nil {
		return text
	}
	return r.Styles.Account(text)
}

// amount styles text, which may carry padding, as negative when value is.
func (r *Reporter) amount(text string, negative bool) string {
	if r.Styles == nil {
		return text
	}
	return r.Styles.Amount(text, negative)
}

func (r *Reporter) dim(text string) string {
	if r.Styles == nil {
		return text
	}
	return r.Styles.Dim(text)
}

func (r *Reporter) keyword(text string) string {
	if r.Styles == nil {
		return text
	}
	return r.Styles.Keyword(text)
}

func isNegative(line string) bool {
	_, value, ok := strings.Cut(line, " ")
	return ok && strings.HasPrefix(value, "-")
}
