// Package parser turns ledger source text into unbalanced transactions.
//
// Parsing happens in two passes over flat sequences. The Lexer splits the
// source into tokens line by line, and the Parser walks the token slice with a
// single forward cursor, grouping header, comment and posting tokens into
// transactions. Neither pass backtracks.
//
// Example usage:
//
//	tokens, err := parser.Tokenize("main.ledger", source)
//	if err != nil {
//		return err
//	}
//	txns, err := parser.Parse("main.ledger", tokens)
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/ledger/amount"
	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// Parser builds transactions from a token stream.
type Parser struct {
	tokens   []Token
	filename string
	pos      int

	transactions []ast.Transaction[ast.UnbalancedPosting]
}

// NewParser creates a parser over tokens produced by the Lexer.
func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{
		tokens:   tokens,
		filename: filename,
	}
}

// Parse is a convenience wrapper around NewParser and (*Parser).Parse.
func Parse(filename string, tokens []Token) ([]ast.Transaction[ast.UnbalancedPosting], error) {
	return NewParser(filename, tokens).Parse()
}

// ParseBytes tokenizes and parses source in one step.
func ParseBytes(ctx context.Context, filename string, source []byte) ([]ast.Transaction[ast.UnbalancedPosting], error) {
	timer := telemetry.StartTimer(ctx, "parser.tokenize")
	tokens, err := Tokenize(filename, source)
	timer.End()
	if err != nil {
		return nil, err
	}

	timer = telemetry.StartTimer(ctx, fmt.Sprintf("parser.parse (%d tokens)", len(tokens)))
	defer timer.End()

	return Parse(filename, tokens)
}

// Parse consumes all tokens. The first structural violation aborts parsing
// and no transactions are returned.
func (p *Parser) Parse() ([]ast.Transaction[ast.UnbalancedPosting], error) {
	for !p.isAtEnd() {
		start := p.pos

		if err := p.parseTransactionHeader(); err != nil {
			return nil, err
		}
		p.parseTransactionComment()
		if err := p.parsePosting(); err != nil {
			return nil, err
		}
		p.parseIndentedComments()

		// Nothing could consume the token, e.g. a posting before any header.
		if p.pos == start {
			tok := p.peek()
			return nil, p.errorAtToken(tok, "unexpected token %s %q", tok.Type, tok.Value)
		}
	}

	return p.transactions, nil
}

// parseTransactionHeader parses DATE STATE [CODE] DESCRIPTION and starts a
// new transaction. It returns without consuming anything when the next token
// is not a date.
func (p *Parser) parseTransactionHeader() error {
	dateTok, ok := p.expect(TransactionDate)
	if !ok {
		return nil
	}

	stateTok, ok := p.expect(TransactionState)
	if !ok {
		return p.errorAfter(dateTok, "transaction state expected")
	}

	var code *string
	if codeTok, ok := p.expect(TransactionCode); ok {
		value := codeTok.Value
		code = &value
	}

	descTok, ok := p.expect(TransactionDescription)
	if !ok {
		return p.errorAfter(p.previous(), "transaction description expected")
	}

	p.transactions = append(p.transactions, ast.Transaction[ast.UnbalancedPosting]{
		Pos:         tokenPosition(dateTok, p.filename),
		Line:        dateTok.Line,
		Date:        dateTok.Value,
		State:       ast.StateFromMarker(stateTok.Value),
		Code:        code,
		Description: descTok.Value,
	})

	return nil
}

// parseTransactionComment attaches at most one header comment to the current transaction.
func (p *Parser) parseTransactionComment() {
	txn := p.current()
	if txn == nil {
		return
	}

	if tok, ok := p.expect(TransactionComment); ok {
		txn.Comments = append(txn.Comments, ast.Comment{Line: tok.Line, Text: tok.Value})
	}
}

// parsePosting parses ACCOUNT [COMMODITY AMOUNT]. A posting without
// commodity and amount is a null posting.
func (p *Parser) parsePosting() error {
	txn := p.current()
	if txn == nil || !p.check(PostingAccount) {
		return nil
	}

	accountTok := p.advance()
	posting := ast.UnbalancedPosting{
		Line:    accountTok.Line,
		Account: accountTok.Value,
	}

	switch {
	case p.check(PostingCommodity):
		commodityTok := p.advance()
		amountTok, ok := p.expect(PostingAmount)
		if !ok {
			return p.errorAfter(commodityTok, "posting amount expected")
		}

		value, err := amount.Parse(amountTok.Value)
		if err != nil {
			perr := p.errorAtToken(amountTok, "invalid amount %q: %v", amountTok.Value, err)
			perr.Underlying = err
			return perr
		}

		commodity := commodityTok.Value
		posting.Commodity = &commodity
		posting.Amount = &value
		if _, frac, ok := strings.Cut(amountTok.Value, "."); ok {
			posting.Precision = len(frac)
		}

	case p.check(PostingAmount):
		return p.errorAtToken(p.peek(), "posting commodity expected")
	}

	txn.Postings = append(txn.Postings, posting)
	return nil
}

// parseIndentedComments attaches indented comments to the last posting of
// the current transaction, or to the transaction itself before its first posting.
func (p *Parser) parseIndentedComments() {
	txn := p.current()
	if txn == nil {
		return
	}

	for p.check(IndentedComment) {
		tok := p.advance()
		comment := ast.Comment{Line: tok.Line, Text: tok.Value}

		if n := len(txn.Postings); n > 0 {
			txn.Postings[n-1].Comments = append(txn.Postings[n-1].Comments, comment)
		} else {
			txn.Comments = append(txn.Comments, comment)
		}
	}
}

// current returns the transaction being built, or nil before the first header.
func (p *Parser) current() *ast.Transaction[ast.UnbalancedPosting] {
	if len(p.transactions) == 0 {
		return nil
	}
	return &p.transactions[len(p.transactions)-1]
}
