package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/ledger/config"
	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/logger"
	"github.com/robinvdvleuten/ledger/output"
	"github.com/robinvdvleuten/ledger/report"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// stdin is read when a file is given as "-".
var stdin io.Reader = os.Stdin

// session carries everything a command needs once flags and config are resolved.
type session struct {
	kctx   *kong.Context
	ctx    context.Context
	config *config.Config
	log    *zap.Logger
	styles *output.Styles

	collector telemetry.Collector
	timer     telemetry.Timer
}

// newSession resolves config, logging and telemetry for a command named name.
// Callers must call close when done.
func newSession(kctx *kong.Context, globals *Globals, name string) (*session, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(globals.Debug || cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	s := &session{
		kctx:   kctx,
		ctx:    logger.WithLogger(context.Background(), log),
		config: cfg,
		log:    log,
		styles: newStyles(kctx.Stdout, globals, cfg),
	}

	if globals.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
	}
	s.timer = telemetry.StartTimer(s.ctx, name)

	return s, nil
}

func newStyles(w io.Writer, globals *Globals, cfg *config.Config) *output.Styles {
	plain := globals.NoColor || os.Getenv("NO_COLOR") != ""
	if cfg.Color != nil {
		plain = plain || !*cfg.Color
	}
	if plain {
		return output.NewPlainStyles(w)
	}
	return output.NewStyles(w)
}

// close ends the root timer and writes the telemetry report.
func (s *session) close() {
	s.timer.End()
	if s.collector != nil {
		_, _ = fmt.Fprintln(s.kctx.Stderr)
		s.collector.Report(s.kctx.Stderr, output.NewStyles(s.kctx.Stderr))
		s.collector = nil
	}
	_ = s.log.Sync()
}

// files returns the ledger files to read: the --file flags, then the config
// file, then an interactive prompt.
func (s *session) files(globals *Globals) ([]string, error) {
	if len(globals.File) > 0 {
		return globals.File, nil
	}
	if len(s.config.Files) > 0 {
		return s.config.Files, nil
	}

	if !isTerminal() {
		return nil, loader.ErrNoFiles
	}

	file, err := promptFile()
	if err != nil {
		return nil, err
	}
	return []string{file}, nil
}

// loadLedger loads the selected files. Load errors are rendered to stderr
// and turned into a CommandError.
func (s *session) loadLedger(globals *Globals) (*ledger.Ledger, error) {
	files, err := s.files(globals)
	if err != nil {
		return nil, err
	}

	s.log.Debug("loading ledger", zap.Strings("files", files))

	ldr := loader.New(loader.WithStdin(stdin))
	l, err := ldr.LoadLedger(s.ctx, files...)
	if err != nil {
		var fileErr *loader.FileError
		if !errors.As(err, &fileErr) {
			return nil, err
		}

		var source []byte
		if fileErr.Path != loader.StdinName {
			source, _ = os.ReadFile(fileErr.Path)
		}

		_, _ = fmt.Fprintln(s.kctx.Stderr, NewErrorRenderer(source).Render(err))
		printError(s.kctx.Stderr, "failed to load ledger")
		return nil, NewCommandError(1)
	}

	return l, nil
}

// reporter creates a report renderer honoring the config.
func (s *session) reporter() *report.Reporter {
	return report.New(
		report.WithStyles(s.styles),
		report.WithAccountWidth(s.config.AccountWidth),
	)
}

// layout picks the report layout from the flags, falling back to the config.
func (s *session) layout(flat, tree bool) report.Layout {
	switch {
	case flat:
		return report.Flat
	case tree:
		return report.Tree
	case s.config.Flat():
		return report.Flat
	default:
		return report.Tree
	}
}
