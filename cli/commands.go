package cli

import "fmt"

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	File      []string `help:"Ledger file to read (repeatable, '-' for stdin)." short:"f" env:"LEDGER_FILE"`
	Config    string   `help:"YAML config file (default ~/.ledger.yaml)." env:"LEDGER_CONFIG"`
	Telemetry bool     `help:"Show timing telemetry for operations."`
	Debug     bool     `help:"Log diagnostics to stderr."`
	NoColor   bool     `help:"Disable colored output."`
}

type Commands struct {
	Globals

	Print    PrintCmd    `cmd:"" help:"Print transactions in journal syntax."`
	Register RegisterCmd `cmd:"" aliases:"reg" help:"List postings with a running total."`
	Balance  BalanceCmd  `cmd:"" aliases:"bal" help:"Show account balances."`
	Accounts AccountsCmd `cmd:"" help:"List all accounts."`
	Codes    CodesCmd    `cmd:"" help:"List transaction codes."`
	Export   ExportCmd   `cmd:"" help:"Export balanced transactions into a SQLite database."`
	Web      WebCmd      `cmd:"" help:"Serve the ledger as a JSON API."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging ledger files."`
}

// CommandError is returned once a command has reported its failure on
// stderr. main exits with its code without printing anything else.
type CommandError struct {
	exitCode int
}

func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed with exit code %d", e.exitCode)
}

func (e *CommandError) ExitCode() int {
	return e.exitCode
}
