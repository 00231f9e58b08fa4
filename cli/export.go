package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledger/store"
)

// ExportCmd writes the balanced ledger into a SQLite database.
type ExportCmd struct {
	DB string `help:"SQLite database to write." name:"db" required:""`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, globals, "export")
	if err != nil {
		return err
	}
	defer s.close()

	l, err := s.loadLedger(globals)
	if err != nil {
		return err
	}

	db, err := store.Open(cmd.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	txns := l.Transactions()
	if err := db.Export(s.ctx, txns); err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Exported %d transactions to %s", len(txns), pathStyle.Render(db.Path())))
	return nil
}
