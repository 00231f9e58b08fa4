package parser

import (
	"fmt"

	"github.com/robinvdvleuten/ledger/ast"
)

// TokenizeError is returned when a line cannot be split into tokens.
type TokenizeError struct {
	Pos     ast.Position
	Message string
}

func (e *TokenizeError) Error() string {
	return "Tokenize Error : " + e.Message
}

// GetPosition returns the position of the offending line.
func (e *TokenizeError) GetPosition() ast.Position {
	return e.Pos
}

// ParseError is returned when the token stream does not form valid transactions.
type ParseError struct {
	Pos     ast.Position
	Message string

	// Underlying is set when the error originates from a value conversion,
	// such as an amount that does not fit in 64 bits.
	Underlying error
}

func (e *ParseError) Error() string {
	return "Parse Error : " + e.Message
}

// GetPosition returns the position of the offending token.
func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

func newTokenizeErrorf(pos ast.Position, format string, args ...interface{}) *TokenizeError {
	return &TokenizeError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func newParseErrorf(pos ast.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
