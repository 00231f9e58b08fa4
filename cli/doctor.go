package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/parser"
)

// stdinFilename names the source when it is read from stdin.
const stdinFilename = "<stdin>"

// DoctorCmd provides utilities for debugging ledger files.
type DoctorCmd struct {
	Lex   LexCmd   `cmd:"" help:"Show lexical tokens from a ledger file."`
	Parse ParseCmd `cmd:"" help:"Show the parsed, unbalanced transactions of a ledger file."`
}

// FileOrStdin accepts either a file path or "-" for stdin.
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == loader.StdinName || filename == "" {
		return f.readStdin()
	}

	contents, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	f.Filename = filename
	f.Contents = contents

	return nil
}

// EnsureContents reads stdin when no file was given.
func (f *FileOrStdin) EnsureContents() error {
	if f.Filename == "" {
		return f.readStdin()
	}
	return nil
}

func (f *FileOrStdin) readStdin() error {
	contents, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = stdinFilename
	f.Contents = contents
	return nil
}

// LexCmd shows lexical tokens from a ledger file.
type LexCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	tokens, err := parser.Tokenize(cmd.File.Filename, cmd.File.Contents)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(cmd.File.Contents).Render(err))
		return NewCommandError(1)
	}

	for _, token := range tokens {
		_, _ = fmt.Fprintf(ctx.Stdout, "%-22s %d:%d    %q\n",
			token.Type.String(),
			token.Line,
			token.Column,
			token.Value)
	}

	return nil
}

// ParseCmd dumps the transactions produced by the parser before balancing.
type ParseCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	txns, err := parser.ParseBytes(context.Background(), cmd.File.Filename, cmd.File.Contents)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(cmd.File.Contents).Render(err))
		return NewCommandError(1)
	}

	repr.New(ctx.Stdout, repr.Indent("  ")).Println(txns)
	return nil
}
