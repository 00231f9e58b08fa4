// Package web provides a read-only JSON API over a balanced ledger.
//
// The server loads the ledger files once at startup and, when watching is
// enabled, reloads them whenever one changes on disk. Connected clients are
// notified of reloads through Server-Sent Events. A reload that fails keeps
// serving the last good ledger and reports the error instead.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
// File access is restricted to the loaded ledger files.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/ledger/ledger"
	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/logger"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// debounceDelay groups the writes editors make while saving a file.
const debounceDelay = 100 * time.Millisecond

// Events sent to SSE clients.
const (
	EventConnected = "connected"
	EventReload    = "reload"
	EventError     = "error"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	WatchEnabled bool

	mu      sync.RWMutex
	ledger  *ledger.Ledger
	files   []string // Absolute paths of the ledger files
	loadErr error    // Error of the last reload, nil when it succeeded
	loaded  time.Time

	// inputFiles are the paths passed to New(), used for loading.
	inputFiles []string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, files ...string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		inputFiles: files,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the ledger and serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	if len(s.inputFiles) == 0 {
		timer.End()
		return loader.ErrNoFiles
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load_ledger (%d files)", len(s.inputFiles)))
	if err := s.reloadLedger(ctx); err != nil {
		loadTimer.End()
		timer.End()
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	loadTimer.End()

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	mux := s.setupRouter()
	setupTimer.End()
	timer.End()

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.FromContext(ctx).Info("serving ledger", zap.String("addr", addr), zap.Strings("files", s.inputFiles))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", s.handleGetStatus)
	mux.HandleFunc("GET /api/source", s.handleGetSource)
	mux.HandleFunc("GET /api/transactions", s.handleGetTransactions)
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/balances", s.handleGetBalances)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// reloadLedger loads or reloads the ledger from disk. On failure the
// previous ledger stays in place and the error is recorded.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reloadLedger(ctx context.Context) error {
	files := make([]string, 0, len(s.inputFiles))
	for _, file := range s.inputFiles {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path for %s: %w", file, err)
		}
		files = append(files, abs)
	}

	l, err := loader.New().LoadLedger(ctx, s.inputFiles...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = files
	s.loadErr = err
	if err != nil {
		return err
	}
	s.ledger = l
	s.loaded = time.Now()

	return nil
}

// startWatcher watches the directories of all ledger files. Directories are
// watched instead of the files so atomic saves, which replace the file, are
// still picked up.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	s.mu.RLock()
	files := append([]string(nil), s.files...)
	s.mu.RUnlock()

	dirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			logger.FromContext(ctx).Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	go s.runWatcher(ctx, watcher, files)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, files []string) {
	log := logger.FromContext(ctx)

	watched := make(map[string]bool, len(files))
	for _, file := range files {
		watched[file] = true
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			// Remove/Rename are common in atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("file watcher error", zap.Error(err))
		}
	}
}

// handleFileChange reloads the ledger and notifies clients.
func (s *Server) handleFileChange(ctx context.Context) {
	log := logger.FromContext(ctx)

	if err := s.reloadLedger(ctx); err != nil {
		log.Warn("failed to reload ledger", zap.Error(err))
		s.broadcast(EventError)
		return
	}

	log.Info("reloaded ledger")
	s.broadcast(EventReload)
}

// current returns the ledger being served, or an empty one before the
// first successful load.
// Must be called with s.mu held for reading.
func (s *Server) current() *ledger.Ledger {
	if s.ledger == nil {
		return ledger.New()
	}
	return s.ledger
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: %s\n\n", EventConnected)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
