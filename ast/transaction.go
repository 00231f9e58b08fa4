// Package ast declares the types used to represent ledger transactions.
//
// The same Transaction shape flows through both pipeline stages: the parser
// produces transactions of UnbalancedPosting, and the balancer turns them into
// transactions of BalancedPosting. Only the posting type changes.
package ast

import "github.com/robinvdvleuten/ledger/amount"

// Comment is a "; text" annotation attached to a transaction or a posting.
type Comment struct {
	Line int
	Text string
}

// Posting is the type constraint for the posting kinds a Transaction can hold.
type Posting interface {
	UnbalancedPosting | BalancedPosting
}

// Transaction records a dated, described transaction and its postings.
//
// Example:
//
//	2023-01-01 * (1042) Groceries  ; weekly shopping
//	    Expenses:Food  20.00 USD
//	    Assets:Cash
type Transaction[P Posting] struct {
	Pos         Position
	Line        int
	Date        string
	State       State
	Code        *string
	Description string
	Comments    []Comment
	Postings    []P
}

// Position returns the position of the transaction header.
func (t *Transaction[P]) Position() Position {
	return t.Pos
}

// UnbalancedPosting is a posting as written in the source. Commodity and
// Amount are either both set or both nil; the latter is a null posting whose
// amount the balancer infers.
type UnbalancedPosting struct {
	Line      int
	Account   string
	Commodity *string
	Amount    *amount.Rat
	Precision int // decimal places the amount was written with
	Comments  []Comment
}

// IsNull reports whether the posting omits its commodity and amount.
func (p *UnbalancedPosting) IsNull() bool {
	return p.Commodity == nil || p.Amount == nil
}

// BalancedPosting is a posting with a resolved commodity and amount.
// Inferred is true when the amount was filled in by the balancer; its
// Precision is then the largest precision of the other postings.
type BalancedPosting struct {
	Account   string
	Commodity string
	Amount    amount.Rat
	Precision int
	Comments  []Comment
	Inferred  bool
}

// CopyComments returns a copy of comments that shares no backing array with the input.
func CopyComments(comments []Comment) []Comment {
	if comments == nil {
		return nil
	}
	out := make([]Comment, len(comments))
	copy(out, comments)
	return out
}
