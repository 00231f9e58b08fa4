// Package loader reads ledger files and runs them through the tokenize, parse
// and balance stages.
//
// Files are processed in the order given and their transactions are
// concatenated. The first error aborts loading and no transactions are
// returned. Errors raised by a stage are wrapped in a FileError that names
// the file and line.
//
// Example usage:
//
//	ldr := loader.New()
//	txns, err := ldr.Load(ctx, "2023.ledger", "2024.ledger")
//
//	// Read "-" from stdin
//	ldr = loader.New(loader.WithStdin(os.Stdin))
//	l, err := ldr.LoadLedger(ctx, "-")
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/logger"
	"github.com/robinvdvleuten/ledger/parser"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// StdinName is the file name that reads from the configured stdin reader.
const StdinName = "-"

// Loader reads and balances ledger files.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithStdin(os.Stdin))
type Loader struct {
	// SkipDuplicates loads a file only the first time it is named. By default
	// every named file is loaded, so a file named twice contributes its
	// transactions twice.
	SkipDuplicates bool

	stdin io.Reader
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithStdin makes the file name "-" read from r.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithSkipDuplicates loads each file only once, comparing absolute paths.
func WithSkipDuplicates() Option {
	return func(l *Loader) {
		l.SkipDuplicates = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads, parses and balances files in order and returns all balanced
// transactions.
func (l *Loader) Load(ctx context.Context, files ...string) ([]ast.Transaction[ast.BalancedPosting], error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.load (%d files)", len(files)))
	defer timer.End()

	log := logger.FromContext(ctx)
	visited := make(map[string]bool, len(files))

	var result []ast.Transaction[ast.BalancedPosting]
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if l.SkipDuplicates && file != StdinName {
			abs, err := filepath.Abs(file)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", file, err)
			}
			if visited[abs] {
				log.Debug("skipping duplicate file", zap.String("file", file))
				continue
			}
			visited[abs] = true
		}

		txns, err := l.loadFile(ctx, file)
		if err != nil {
			return nil, err
		}

		log.Debug("loaded file", zap.String("file", file), zap.Int("transactions", len(txns)))
		result = append(result, txns...)
	}

	return result, nil
}

// LoadLedger loads files into a new ledger ready for reporting.
func (l *Loader) LoadLedger(ctx context.Context, files ...string) (*ledger.Ledger, error) {
	txns, err := l.Load(ctx, files...)
	if err != nil {
		return nil, err
	}

	result := ledger.New()
	if err := result.Add(ctx, txns); err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Loader) loadFile(ctx context.Context, file string) ([]ast.Transaction[ast.BalancedPosting], error) {
	timer := telemetry.StartTimer(ctx, file)
	defer timer.End()

	data, err := l.read(file)
	if err != nil {
		return nil, err
	}

	unbalanced, err := parser.ParseBytes(ctx, file, data)
	if err != nil {
		return nil, wrap(file, err)
	}

	balanced, err := ledger.Balance(ctx, unbalanced)
	if err != nil {
		return nil, wrap(file, err)
	}

	return balanced, nil
}

func (l *Loader) read(file string) ([]byte, error) {
	if file == StdinName {
		if l.stdin == nil {
			return nil, errors.New("reading from stdin is not enabled")
		}
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, nil
}
