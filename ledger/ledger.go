// Package ledger balances parsed transactions and aggregates them for reports.
//
// Balancing enforces the double-entry rules: every transaction sums to zero
// per commodity, and at most one posting per transaction may omit its amount,
// which is then inferred. All arithmetic is exact (see package amount).
//
// Example usage:
//
//	txns, err := parser.ParseBytes(ctx, "main.ledger", source)
//	if err != nil {
//		return err
//	}
//
//	l := ledger.New()
//	if err := l.Process(ctx, txns); err != nil {
//		var berr *ledger.BalanceError
//		if errors.As(err, &berr) {
//			fmt.Println(berr.GetPosition(), berr.Message)
//		}
//	}
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/telemetry"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Ledger holds balanced transactions together with per-account totals.
type Ledger struct {
	transactions []ast.Transaction[ast.BalancedPosting]
	accounts     map[string]*Account
	precision    map[string]int
	codes        []string
	seenCodes    map[string]struct{}
}

// Account is the running state of a single account.
type Account struct {
	Name     string
	Balance  *MixedAmount
	Postings int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts:  make(map[string]*Account),
		precision: make(map[string]int),
		seenCodes: make(map[string]struct{}),
	}
}

// Process balances txns and adds them to the ledger. Nothing is added when
// balancing fails.
func (l *Ledger) Process(ctx context.Context, txns []ast.Transaction[ast.UnbalancedPosting]) error {
	balanced, err := Balance(ctx, txns)
	if err != nil {
		return err
	}
	return l.Add(ctx, balanced)
}

// Add records already balanced transactions. The ledger is only updated
// when every transaction was added; an overflow or a cancelled context
// leaves it unchanged.
func (l *Ledger) Add(ctx context.Context, txns []ast.Transaction[ast.BalancedPosting]) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.aggregate (%d transactions)", len(txns)))
	defer timer.End()

	staged := l.stage()
	for i := range txns {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		txn := &txns[i]
		if err := staged.addTransaction(txn); err != nil {
			return err
		}
		staged.transactions = append(staged.transactions, *txn)
	}

	*l = *staged
	return nil
}

// stage returns a copy of l that can be mutated without touching l.
func (l *Ledger) stage() *Ledger {
	accounts := make(map[string]*Account, len(l.accounts))
	for name, account := range l.accounts {
		accounts[name] = &Account{Name: account.Name, Balance: account.Balance.Copy(), Postings: account.Postings}
	}
	return &Ledger{
		transactions: slices.Clip(l.transactions),
		accounts:     accounts,
		precision:    maps.Clone(l.precision),
		codes:        slices.Clip(l.codes),
		seenCodes:    maps.Clone(l.seenCodes),
	}
}

func (l *Ledger) addTransaction(txn *ast.Transaction[ast.BalancedPosting]) error {
	if txn.Code != nil {
		if _, ok := l.seenCodes[*txn.Code]; !ok {
			l.seenCodes[*txn.Code] = struct{}{}
			l.codes = append(l.codes, *txn.Code)
		}
	}

	for _, posting := range txn.Postings {
		account, ok := l.accounts[posting.Account]
		if !ok {
			account = &Account{Name: posting.Account, Balance: NewMixedAmount()}
			l.accounts[posting.Account] = account
		}

		if err := account.Balance.Add(posting.Commodity, posting.Amount); err != nil {
			return &BalanceError{
				Pos:        txn.Pos,
				Message:    fmt.Sprintf("Arithmetic overflow in account %s: %v", posting.Account, err),
				Underlying: err,
			}
		}
		account.Postings++

		if current, seen := l.precision[posting.Commodity]; !seen || posting.Precision > current {
			l.precision[posting.Commodity] = posting.Precision
		}
	}

	return nil
}

// Transactions returns the balanced transactions in source order.
func (l *Ledger) Transactions() []ast.Transaction[ast.BalancedPosting] {
	return l.transactions
}

// Account returns the state of a single account.
func (l *Ledger) Account(name string) (*Account, bool) {
	acc, ok := l.accounts[name]
	return acc, ok
}

// Accounts returns all account names, sorted.
func (l *Ledger) Accounts() []string {
	names := maps.Keys(l.accounts)
	slices.Sort(names)
	return names
}

// Commodities returns all commodities in use, sorted.
func (l *Ledger) Commodities() []string {
	commodities := maps.Keys(l.precision)
	slices.Sort(commodities)
	return commodities
}

// Precision returns the number of decimal places used to display commodity.
// It is the largest number of places any amount in that commodity was written with.
// Unknown commodities use 0.
func (l *Ledger) Precision(commodity string) int {
	return l.precision[commodity]
}

// Codes returns the distinct transaction codes in order of first appearance.
func (l *Ledger) Codes() []string {
	return l.codes
}

// Total returns the sum of all account balances.
func (l *Ledger) Total() (*MixedAmount, error) {
	total := NewMixedAmount()
	for _, name := range l.Accounts() {
		if err := total.Merge(l.accounts[name].Balance); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// matchAccount reports whether account equals filter or lies below it in the hierarchy.
func matchAccount(account, filter string) bool {
	return account == filter || strings.HasPrefix(account, filter+":")
}
