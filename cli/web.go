package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/web"
)

// WebCmd serves the ledger as a read-only JSON API.
type WebCmd struct {
	Port   int    `help:"Port to listen on." default:"8080"`
	Host   string `help:"Address to bind to." default:"127.0.0.1"`
	Watch  bool   `help:"Reload the ledger when its files change." short:"w"`
	Create bool   `help:"Create missing ledger files without asking." short:"c"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := newSession(ctx, globals, "web")
	if err != nil {
		return err
	}
	defer s.close()

	files, err := s.files(globals)
	if err != nil {
		return err
	}

	for i, file := range files {
		if file == loader.StdinName {
			return fmt.Errorf("the web server cannot read from stdin")
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		if err := cmd.ensureFile(ctx, abs); err != nil {
			return err
		}
		files[i] = abs
	}

	version := Version
	if version == "" {
		version = "dev"
	}

	server := web.New(cmd.Port, files...)
	server.Host = cmd.Host
	server.Version = version
	server.WatchEnabled = cmd.Watch

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, server.Port)
	for _, file := range files {
		printInfof(ctx.Stdout, "Serving ledger: %s", pathStyle.Render(file))
	}
	if cmd.Watch {
		printInfof(ctx.Stdout, "Watching for changes")
	}

	runCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Telemetry covers startup only.
	s.timer.End()

	if err := server.Start(runCtx); err != nil {
		var fileErr *loader.FileError
		if errors.As(err, &fileErr) {
			source, _ := os.ReadFile(fileErr.Path)
			_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(source).Render(fileErr))
			printError(ctx.Stderr, "failed to load ledger")
			return NewCommandError(1)
		}
		return err
	}

	s.log.Debug("server stopped", zap.Error(context.Cause(runCtx)))
	return nil
}

// ensureFile offers to create a missing ledger file.
func (cmd *WebCmd) ensureFile(ctx *kong.Context, path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access file: %w", err)
	}

	shouldCreate := cmd.Create
	if !shouldCreate {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q does not exist. Create it?", path))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		shouldCreate = confirmed
	}

	if !shouldCreate {
		return fmt.Errorf("file does not exist: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	printInfof(ctx.Stdout, "Created empty ledger file: %s", pathStyle.Render(path))
	return nil
}
