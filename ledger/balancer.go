package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/telemetry"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Balance resolves every null posting and checks that each transaction sums
// to zero per commodity. The first violation aborts balancing and no
// transactions are returned.
//
// A transaction may contain at most one null posting. Its commodity is the
// single commodity used by the other postings, and its amount is the negated
// sum of their amounts.
func Balance(ctx context.Context, txns []ast.Transaction[ast.UnbalancedPosting]) ([]ast.Transaction[ast.BalancedPosting], error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.balance (%d transactions)", len(txns)))
	defer timer.End()

	balanced := make([]ast.Transaction[ast.BalancedPosting], 0, len(txns))
	for i := range txns {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		txn, err := balanceTransaction(&txns[i])
		if err != nil {
			return nil, err
		}
		balanced = append(balanced, txn)
	}

	return balanced, nil
}

func balanceTransaction(txn *ast.Transaction[ast.UnbalancedPosting]) (ast.Transaction[ast.BalancedPosting], error) {
	postings := make([]ast.BalancedPosting, 0, len(txn.Postings))
	inferred := false

	for i := range txn.Postings {
		posting := &txn.Postings[i]

		if !posting.IsNull() {
			postings = append(postings, ast.BalancedPosting{
				Account:   strings.Clone(posting.Account),
				Commodity: strings.Clone(*posting.Commodity),
				Amount:    *posting.Amount,
				Precision: posting.Precision,
				Comments:  ast.CopyComments(posting.Comments),
			})
			continue
		}

		if inferred {
			return ast.Transaction[ast.BalancedPosting]{}, postingError(txn, posting, msgMultipleNullPostings)
		}

		commodities := commoditiesOf(txn)
		switch len(commodities) {
		case 0:
			return ast.Transaction[ast.BalancedPosting]{}, postingError(txn, posting, msgNoCommodity)
		case 1:
		default:
			return ast.Transaction[ast.BalancedPosting]{}, postingError(txn, posting, msgMultipleCommodities)
		}

		total, err := sumAmounts(txn)
		if err != nil {
			return ast.Transaction[ast.BalancedPosting]{}, overflowError(txn, err)
		}
		value, err := total.Neg()
		if err != nil {
			return ast.Transaction[ast.BalancedPosting]{}, overflowError(txn, err)
		}

		postings = append(postings, ast.BalancedPosting{
			Account:   strings.Clone(posting.Account),
			Commodity: strings.Clone(commodities[0]),
			Amount:    value,
			Precision: maxPrecision(txn),
			Comments:  ast.CopyComments(posting.Comments),
			Inferred:  true,
		})
		inferred = true
	}

	if !inferred {
		if err := checkBalanced(txn); err != nil {
			return ast.Transaction[ast.BalancedPosting]{}, err
		}
	}

	var code *string
	if txn.Code != nil {
		c := strings.Clone(*txn.Code)
		code = &c
	}

	return ast.Transaction[ast.BalancedPosting]{
		Pos:         txn.Pos,
		Line:        txn.Line,
		Date:        strings.Clone(txn.Date),
		State:       txn.State,
		Code:        code,
		Description: strings.Clone(txn.Description),
		Comments:    ast.CopyComments(txn.Comments),
		Postings:    postings,
	}, nil
}

// commoditiesOf returns the distinct commodities of the non-null postings, sorted.
func commoditiesOf(txn *ast.Transaction[ast.UnbalancedPosting]) []string {
	set := make(map[string]struct{})
	for i := range txn.Postings {
		if c := txn.Postings[i].Commodity; c != nil {
			set[*c] = struct{}{}
		}
	}
	commodities := maps.Keys(set)
	slices.Sort(commodities)
	return commodities
}

// sumAmounts adds the amounts of all non-null postings regardless of commodity.
// It is only meaningful when a single commodity is in use.
func sumAmounts(txn *ast.Transaction[ast.UnbalancedPosting]) (amount.Rat, error) {
	total := amount.Zero
	for i := range txn.Postings {
		if a := txn.Postings[i].Amount; a != nil {
			var err error
			if total, err = total.Add(*a); err != nil {
				return amount.Rat{}, err
			}
		}
	}
	return total, nil
}

func maxPrecision(txn *ast.Transaction[ast.UnbalancedPosting]) int {
	places := 0
	for i := range txn.Postings {
		places = max(places, txn.Postings[i].Precision)
	}
	return places
}

// checkBalanced verifies that a transaction without a null posting sums to
// zero in every commodity.
func checkBalanced(txn *ast.Transaction[ast.UnbalancedPosting]) error {
	sums := NewMixedAmount()
	for i := range txn.Postings {
		p := &txn.Postings[i]
		if err := sums.Add(*p.Commodity, *p.Amount); err != nil {
			return overflowError(txn, err)
		}
	}

	residuals := sums.NonZero()
	if len(residuals) == 0 {
		return nil
	}

	parts := make([]string, len(residuals))
	for i, r := range residuals {
		parts[i] = r.Amount.String() + " " + r.Commodity
	}

	return &BalanceError{
		Pos:     txn.Pos,
		Message: fmt.Sprintf("%s: (%s)", msgUnbalanced, strings.Join(parts, ", ")),
	}
}
