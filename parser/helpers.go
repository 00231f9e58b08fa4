package parser

import "github.com/robinvdvleuten/ledger/ast"

// Helper methods for token navigation

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

// expect consumes the next token if it has the given type.
func (p *Parser) expect(typ TokenType) (Token, bool) {
	if p.check(typ) {
		return p.advance(), true
	}
	return Token{}, false
}

// Error helpers

func (p *Parser) errorAtToken(tok Token, format string, args ...interface{}) *ParseError {
	return newParseErrorf(tokenPosition(tok, p.filename), format, args...)
}

// errorAfter reports a missing token. The error points at the next token when
// it is on the same line as prev, and at prev otherwise.
func (p *Parser) errorAfter(prev Token, format string, args ...interface{}) *ParseError {
	if next := p.peek(); next.Type != EOF && next.Line == prev.Line {
		return p.errorAtToken(next, format, args...)
	}
	return p.errorAtToken(prev, format, args...)
}

// tokenPosition extracts position information from a token.
func tokenPosition(tok Token, filename string) ast.Position {
	return ast.Position{
		Filename: filename,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
