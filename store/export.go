package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/logger"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// Export replaces the database contents with txns. Nothing is written when
// any insert fails.
func (s *Store) Export(ctx context.Context, txns []ast.Transaction[ast.BalancedPosting]) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("store.export (%d transactions)", len(txns)))
	defer timer.End()

	err := s.Transaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"comments", "postings", "transactions"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		e, err := newExporter(ctx, tx)
		if err != nil {
			return err
		}
		defer e.close()

		for i := range txns {
			if err := e.insert(ctx, &txns[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Debug("exported transactions",
		zap.String("database", s.path),
		zap.Int("transactions", len(txns)),
	)
	return nil
}

type exporter struct {
	txn     *sql.Stmt
	posting *sql.Stmt
	comment *sql.Stmt
}

func newExporter(ctx context.Context, tx *sql.Tx) (*exporter, error) {
	e := &exporter{}
	var err error

	if e.txn, err = tx.PrepareContext(ctx,
		`INSERT INTO transactions (file, line, date, state, code, description) VALUES (?, ?, ?, ?, ?, ?)`); err != nil {
		return nil, err
	}
	if e.posting, err = tx.PrepareContext(ctx,
		`INSERT INTO postings (transaction_id, account, commodity, amount_num, amount_den, amount_text, inferred) VALUES (?, ?, ?, ?, ?, ?, ?)`); err != nil {
		e.close()
		return nil, err
	}
	if e.comment, err = tx.PrepareContext(ctx,
		`INSERT INTO comments (transaction_id, posting_id, line, text) VALUES (?, ?, ?, ?)`); err != nil {
		e.close()
		return nil, err
	}

	return e, nil
}

func (e *exporter) close() {
	for _, stmt := range []*sql.Stmt{e.txn, e.posting, e.comment} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

func (e *exporter) insert(ctx context.Context, txn *ast.Transaction[ast.BalancedPosting]) error {
	var code sql.NullString
	if txn.Code != nil {
		code = sql.NullString{String: *txn.Code, Valid: true}
	}

	res, err := e.txn.ExecContext(ctx, txn.Pos.Filename, txn.Line, txn.Date,
		strings.ToLower(txn.State.String()), code, txn.Description)
	if err != nil {
		return fmt.Errorf("failed to insert transaction at line %d: %w", txn.Line, err)
	}
	txnID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if err := e.insertComments(ctx, txnID, nil, txn.Comments); err != nil {
		return err
	}

	for _, posting := range txn.Postings {
		res, err := e.posting.ExecContext(ctx, txnID, posting.Account, posting.Commodity,
			posting.Amount.Num(), posting.Amount.Denom(),
			posting.Amount.Format(posting.Precision), posting.Inferred)
		if err != nil {
			return fmt.Errorf("failed to insert posting %s at line %d: %w", posting.Account, txn.Line, err)
		}
		postingID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		if err := e.insertComments(ctx, txnID, &postingID, posting.Comments); err != nil {
			return err
		}
	}

	return nil
}

func (e *exporter) insertComments(ctx context.Context, txnID int64, postingID *int64, comments []ast.Comment) error {
	for _, comment := range comments {
		if _, err := e.comment.ExecContext(ctx, txnID, postingID, comment.Line, comment.Text); err != nil {
			return fmt.Errorf("failed to insert comment at line %d: %w", comment.Line, err)
		}
	}
	return nil
}

// Balances sums the exported postings per account.
func (s *Store) Balances(ctx context.Context) (map[string]*ledger.MixedAmount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT account, commodity, amount_num, amount_den FROM postings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make(map[string]*ledger.MixedAmount)
	for rows.Next() {
		var (
			account, commodity string
			num, den           int64
		)
		if err := rows.Scan(&account, &commodity, &num, &den); err != nil {
			return nil, err
		}

		value, err := amount.New(num, den)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %d/%d for %s: %w", num, den, account, err)
		}

		balance, ok := balances[account]
		if !ok {
			balance = ledger.NewMixedAmount()
			balances[account] = balance
		}
		if err := balance.Add(commodity, value); err != nil {
			return nil, err
		}
	}

	return balances, rows.Err()
}
