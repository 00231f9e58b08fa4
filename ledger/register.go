package ledger

import (
	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
)

// RegisterRow is one posting in the register together with the running total
// of all postings listed so far.
type RegisterRow struct {
	Date        string
	Description string
	Account     string
	Commodity   string
	Amount      amount.Rat

	// Total is a snapshot of the running total after this posting.
	Total *MixedAmount

	// First is set on the first row of each transaction.
	First bool
}

// Register lists postings in source order. When filters are given, only
// postings to those accounts or their sub-accounts are listed and counted
// in the running total.
func (l *Ledger) Register(filters ...string) ([]RegisterRow, error) {
	var rows []RegisterRow
	running := NewMixedAmount()

	for i := range l.transactions {
		txn := &l.transactions[i]
		first := true

		for _, posting := range txn.Postings {
			if !matchesAny(posting, filters) {
				continue
			}

			if err := running.Add(posting.Commodity, posting.Amount); err != nil {
				return nil, &BalanceError{
					Pos:        txn.Pos,
					Message:    "Arithmetic overflow in running total: " + err.Error(),
					Underlying: err,
				}
			}

			rows = append(rows, RegisterRow{
				Date:        txn.Date,
				Description: txn.Description,
				Account:     posting.Account,
				Commodity:   posting.Commodity,
				Amount:      posting.Amount,
				Total:       running.Copy(),
				First:       first,
			})
			first = false
		}
	}

	return rows, nil
}

func matchesAny(posting ast.BalancedPosting, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if matchAccount(posting.Account, f) {
			return true
		}
	}
	return false
}
