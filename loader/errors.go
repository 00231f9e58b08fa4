package loader

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/ledger/ast"
)

// ErrNoFiles is returned when Load is called without any file.
var ErrNoFiles = errors.New("No file(s) selected. Try --file <file> to select a file")

// Positioned is implemented by errors that know where in the source they occurred.
type Positioned interface {
	error
	GetPosition() ast.Position
}

// FileError gives a stage error the context of the file it came from.
type FileError struct {
	Path string
	Line int
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("While parsing file %s, line %d:\n%s", e.Path, e.Line, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func wrap(path string, err error) error {
	var positioned Positioned
	if !errors.As(err, &positioned) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return &FileError{
		Path: path,
		Line: positioned.GetPosition().Line,
		Err:  err,
	}
}
