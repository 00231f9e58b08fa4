package cli

import (
	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledger/report"
)

// PrintCmd prints all transactions back in journal syntax.
type PrintCmd struct {
	Raw      bool `help:"Print amounts as written, leaving inferred amounts out (default)." xor:"mode"`
	Explicit bool `help:"Print inferred amounts too." short:"x" xor:"mode"`
}

func (cmd *PrintCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, globals, "print")
	if err != nil {
		return err
	}
	defer s.close()

	l, err := s.loadLedger(globals)
	if err != nil {
		return err
	}

	mode := report.Raw
	if cmd.Explicit {
		mode = report.Explicit
	}

	timer := s.timer.Child("report.print")
	defer timer.End()

	return s.reporter().Print(ctx.Stdout, l, mode)
}

// RegisterCmd lists postings with a running total.
type RegisterCmd struct {
	Accounts []string `help:"Only show postings to these accounts or their sub-accounts." arg:"" optional:""`
}

func (cmd *RegisterCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, globals, "register")
	if err != nil {
		return err
	}
	defer s.close()

	l, err := s.loadLedger(globals)
	if err != nil {
		return err
	}

	timer := s.timer.Child("report.register")
	defer timer.End()

	return s.reporter().Register(ctx.Stdout, l, cmd.Accounts...)
}

// BalanceCmd shows the balance of every account.
type BalanceCmd struct {
	Flat bool `help:"Show full account names, one per line." xor:"layout"`
	Tree bool `help:"Show accounts as an indented tree (default)." xor:"layout"`
}

func (cmd *BalanceCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, globals, "balance")
	if err != nil {
		return err
	}
	defer s.close()

	l, err := s.loadLedger(globals)
	if err != nil {
		return err
	}

	timer := s.timer.Child("report.balance")
	defer timer.End()

	return s.reporter().Balance(ctx.Stdout, l, s.layout(cmd.Flat, cmd.Tree))
}

// AccountsCmd lists every account that received a posting.
type AccountsCmd struct {
	Flat bool `help:"Show full account names, one per line." xor:"layout"`
	Tree bool `help:"Show accounts as an indented tree (default)." xor:"layout"`
}

func (cmd *AccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, globals, "accounts")
	if err != nil {
		return err
	}
	defer s.close()

	l, err := s.loadLedger(globals)
	if err != nil {
		return err
	}

	return s.reporter().Accounts(ctx.Stdout, l, s.layout(cmd.Flat, cmd.Tree))
}

// CodesCmd lists the distinct transaction codes.
type CodesCmd struct{}

func (cmd *CodesCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, globals, "codes")
	if err != nil {
		return err
	}
	defer s.close()

	l, err := s.loadLedger(globals)
	if err != nil {
		return err
	}

	return s.reporter().Codes(ctx.Stdout, l)
}
