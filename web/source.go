package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/ledger/loader"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorResponse describes the error of the last reload.
type ErrorResponse struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

func newErrorResponse(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	response := &ErrorResponse{Message: err.Error()}
	var fileErr *loader.FileError
	if errors.As(err, &fileErr) {
		response.Message = fileErr.Err.Error()
		response.File = fileErr.Path
		response.Line = fileErr.Line
	}
	return response
}

type StatusResponse struct {
	Version  string         `json:"version,omitempty"`
	Files    []string       `json:"files"`
	LoadedAt *time.Time     `json:"loadedAt,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

// handleGetStatus handles GET requests to /api/status.
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	response := &StatusResponse{
		Version: s.Version,
		Files:   append([]string{}, s.files...),
		Error:   newErrorResponse(s.loadErr),
	}
	if !s.loaded.IsZero() {
		loaded := s.loaded
		response.LoadedAt = &loaded
	}
	s.mu.RUnlock()

	writeJSONResponse(w, response)
}

type SourceResponse struct {
	Filepath string         `json:"filepath"`
	Source   string         `json:"source"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

// resolveFilepath resolves the filepath query parameter to one of the
// loaded files. Without a parameter the first file is used.
func (s *Server) resolveFilepath(r *http.Request) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := r.URL.Query().Get("filepath")
	if path == "" {
		if len(s.files) == 0 {
			return "", fmt.Errorf("no filepath provided and no ledger file loaded")
		}
		return s.files[0], nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid filepath: %w", err)
	}

	if !slices.Contains(s.files, absPath) {
		return "", fmt.Errorf("access denied: filepath is not a loaded ledger file")
	}

	return absPath, nil
}

// handleGetSource handles GET requests to /api/source.
// Returns the file content and the error of the last reload if it concerns that file.
func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	response := &SourceResponse{
		Filepath: filename,
		Source:   string(content),
	}

	s.mu.RLock()
	if loadErr := newErrorResponse(s.loadErr); loadErr != nil {
		if abs, err := filepath.Abs(loadErr.File); err == nil && abs == filename {
			response.Error = loadErr
		}
	}
	s.mu.RUnlock()

	writeJSONResponse(w, response)
}
