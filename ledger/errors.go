package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/ledger/ast"
)

// BalanceError is returned when a transaction violates double-entry rules.
type BalanceError struct {
	Pos     ast.Position
	Message string

	// Underlying holds the arithmetic error, if any.
	Underlying error
}

func (e *BalanceError) Error() string {
	return "Balance Error : " + e.Message
}

// GetPosition returns the position the error is reported at.
func (e *BalanceError) GetPosition() ast.Position {
	return e.Pos
}

func (e *BalanceError) Unwrap() error {
	return e.Underlying
}

// Messages reported by the balancer.
const (
	msgMultipleNullPostings = "Only one posting with null amount allowed per transaction"
	msgMultipleCommodities  = "Multiple commodities in transaction with a null amount posting not allowed"
	msgNoCommodity          = "No commodity to infer for posting with null amount"
	msgUnbalanced           = "Transaction does not balance"
)

// postingError reports a problem with a posting. The line points just past
// the posting line.
func postingError(txn *ast.Transaction[ast.UnbalancedPosting], posting *ast.UnbalancedPosting, message string) *BalanceError {
	return &BalanceError{
		Pos:     ast.Position{Filename: txn.Pos.Filename, Line: posting.Line + 1},
		Message: message,
	}
}

// overflowError reports an amount that does not fit in 64 bits.
func overflowError(txn *ast.Transaction[ast.UnbalancedPosting], err error) *BalanceError {
	return &BalanceError{
		Pos:        txn.Pos,
		Message:    fmt.Sprintf("Arithmetic overflow in transaction %q: %v", txn.Description, err),
		Underlying: err,
	}
}
