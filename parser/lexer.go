package parser

// Lexer implements a line-oriented tokenizer for ledger files.
//
// Every line is classified by its first character:
//   - blank lines and journal comments (; # % | * in column 1) are skipped
//   - a non-whitespace character starts a transaction header
//   - leading whitespace starts a posting or an indented comment
//
// The lexer never looks across line boundaries, so each token can be traced
// back to exactly one source line.

import (
	"bytes"
	"strings"

	"github.com/robinvdvleuten/ledger/ast"
)

// Lexer tokenizes ledger source code.
type Lexer struct {
	source   []byte    // Source buffer
	filename string    // Filename for error reporting
	line     []byte    // Current line without its terminator
	lineNo   int       // Current line (1-indexed)
	pos      int       // Cursor within the current line
	tokens   []Token   // Token buffer
	interner *Interner // String interning pool for accounts and commodities
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte, filename string) *Lexer {
	// A typical posting line yields three tokens in ~40 bytes.
	estimatedTokens := len(source)/12 + 16

	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]Token, 0, estimatedTokens),
		interner: NewInterner(256),
	}
}

// Tokenize is a convenience wrapper around NewLexer and ScanAll.
func Tokenize(filename string, source []byte) ([]Token, error) {
	return NewLexer(source, filename).ScanAll()
}

// ScanAll lexes the entire source and returns the tokens in source order.
// Scanning stops at the first malformed line.
func (l *Lexer) ScanAll() ([]Token, error) {
	rest := l.source
	for len(rest) > 0 {
		var line []byte
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			line, rest = rest, nil
		}

		l.lineNo++
		l.line = bytes.TrimSuffix(line, []byte{'\r'})
		l.pos = 0

		if err := l.scanLine(); err != nil {
			return nil, err
		}
	}

	return l.tokens, nil
}

func (l *Lexer) scanLine() error {
	if len(bytes.TrimSpace(l.line)) == 0 {
		return nil
	}

	switch ch := l.line[0]; {
	case isSpace(ch):
		return l.scanIndented()
	case isJournalComment(ch):
		return nil
	default:
		return l.scanHeader()
	}
}

// scanHeader scans DATE [STATE] [(CODE)] DESCRIPTION [; COMMENT].
// A TransactionState token is always emitted, with an empty value when the
// line carries no marker.
func (l *Lexer) scanHeader() error {
	if !isDigit(l.peek()) {
		return l.errorf("transaction date expected")
	}

	start := l.pos
	for !l.atEOL() && isDateChar(l.peek()) {
		l.pos++
	}
	l.emit(TransactionDate, string(l.line[start:l.pos]), start)

	if !l.atEOL() && !isSpace(l.peek()) {
		return l.errorf("invalid character %q in transaction date", l.peek())
	}
	l.skipSpace()

	stateCol := l.pos
	marker := ""
	if c := l.peek(); c == '*' || c == '!' {
		marker = string(c)
		l.pos++
		l.skipSpace()
	}
	l.emit(TransactionState, marker, stateCol)

	if l.peek() == '(' {
		start := l.pos
		end := bytes.IndexByte(l.line[l.pos:], ')')
		if end < 0 {
			return l.errorf("unterminated transaction code")
		}
		l.emit(TransactionCode, string(l.line[l.pos+1:l.pos+end]), start)
		l.pos += end + 1
		l.skipSpace()
	}

	start = l.pos
	for !l.atEOL() && l.peek() != ';' {
		l.pos++
	}
	description := strings.TrimRight(string(l.line[start:l.pos]), " \t")
	if description == "" {
		return l.errorf("transaction description expected")
	}
	l.emit(TransactionDescription, description, start)

	if l.peek() == ';' {
		l.emitComment(TransactionComment)
	}

	return nil
}

func (l *Lexer) scanIndented() error {
	l.skipSpace()

	if l.peek() == ';' {
		l.emitComment(IndentedComment)
		return nil
	}

	return l.scanPosting()
}

// scanPosting scans ACCOUNT [AMOUNT SECTION] [; COMMENT].
// The account name ends at two consecutive spaces, a tab, a ';', the end of
// the line, or a single space followed by nothing but an amount section.
func (l *Lexer) scanPosting() error {
	start := l.pos
	for !l.atEOL() && !l.atAccountEnd() {
		l.pos++
	}
	account := strings.TrimRight(string(l.line[start:l.pos]), " ")
	l.emit(PostingAccount, l.interner.Intern(account), start)

	l.skipSpace()
	if l.atEOL() {
		return nil
	}

	if l.peek() != ';' {
		if err := l.scanAmount(); err != nil {
			return err
		}
		l.skipSpace()
	}

	if l.atEOL() {
		return nil
	}
	if l.peek() != ';' {
		return l.errorf("unexpected %q after posting amount", strings.TrimSpace(string(l.line[l.pos:])))
	}

	l.emitComment(IndentedComment)
	return nil
}

// scanAmount accepts "COMMODITY AMOUNT", "COMMODITYAMOUNT" and
// "AMOUNT COMMODITY". Either way the commodity token is emitted first.
func (l *Lexer) scanAmount() error {
	if l.atNumberStart() {
		numCol := l.pos
		number, err := l.scanNumber()
		if err != nil {
			return err
		}

		l.skipSpace()
		comCol := l.pos
		commodity := l.scanCommodity()
		if commodity == "" {
			return l.errorAt(comCol, "posting commodity expected")
		}

		l.emit(PostingCommodity, commodity, comCol)
		l.emit(PostingAmount, number, numCol)
		return nil
	}

	comCol := l.pos
	commodity := l.scanCommodity()
	if commodity == "" {
		return l.errorf("invalid posting amount %q", strings.TrimSpace(string(l.line[l.pos:])))
	}

	l.skipSpace()
	if !l.atNumberStart() {
		return l.errorf("posting amount expected")
	}

	numCol := l.pos
	number, err := l.scanNumber()
	if err != nil {
		return err
	}

	l.emit(PostingCommodity, commodity, comCol)
	l.emit(PostingAmount, number, numCol)
	return nil
}

// scanNumber scans -?\d+(\.\d+)?
func (l *Lexer) scanNumber() (string, error) {
	start := l.pos
	if l.peek() == '-' {
		l.pos++
	}
	for isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' {
		l.pos++
		if !isDigit(l.peek()) {
			return "", l.errorAt(start, "invalid amount %q", l.line[start:l.pos])
		}
		for isDigit(l.peek()) {
			l.pos++
		}
	}

	if c := l.peek(); c == '.' || c == ',' {
		for !l.atEOL() && !isSpace(l.peek()) && l.peek() != ';' {
			l.pos++
		}
		return "", l.errorAt(start, "invalid amount %q", l.line[start:l.pos])
	}

	return string(l.line[start:l.pos]), nil
}

func (l *Lexer) scanCommodity() string {
	start := l.pos
	for !l.atEOL() && isCommodityChar(l.peek()) {
		l.pos++
	}
	if start == l.pos {
		return ""
	}
	return l.interner.Intern(string(l.line[start:l.pos]))
}

// emitComment consumes a ';' and the rest of the line. Exactly one
// whitespace character after the ';' is dropped; the remainder is kept verbatim.
func (l *Lexer) emitComment(typ TokenType) {
	start := l.pos
	l.pos++
	if !l.atEOL() && isSpace(l.peek()) {
		l.pos++
	}
	l.emit(typ, string(l.line[l.pos:]), start)
	l.pos = len(l.line)
}

func (l *Lexer) emit(typ TokenType, value string, col int) {
	l.tokens = append(l.tokens, Token{
		Type:   typ,
		Value:  value,
		Line:   l.lineNo,
		Column: col + 1,
	})
}

func (l *Lexer) errorf(format string, args ...interface{}) error {
	return l.errorAt(l.pos, format, args...)
}

func (l *Lexer) errorAt(col int, format string, args ...interface{}) error {
	pos := ast.Position{Filename: l.filename, Line: l.lineNo, Column: col + 1}
	return newTokenizeErrorf(pos, format, args...)
}

func (l *Lexer) skipSpace() {
	for !l.atEOL() && isSpace(l.peek()) {
		l.pos++
	}
}

func (l *Lexer) atEOL() bool {
	return l.pos >= len(l.line)
}

func (l *Lexer) atAccountEnd() bool {
	switch l.peek() {
	case '\t', ';':
		return true
	case ' ':
		return l.peekAt(1) == ' ' || isAmountSection(l.line[l.pos+1:])
	default:
		return false
	}
}

// isAmountSection reports whether rest, up to a ';', holds exactly one
// amount section in any of the forms scanAmount accepts.
func isAmountSection(rest []byte) bool {
	if i := bytes.IndexByte(rest, ';'); i >= 0 {
		rest = rest[:i]
	}
	rest = bytes.TrimSpace(rest)

	if n := numberLen(rest); n > 0 {
		tail := bytes.TrimLeft(rest[n:], " \t")
		c := commodityLen(tail)
		return c > 0 && c == len(tail)
	}

	c := commodityLen(rest)
	if c == 0 {
		return false
	}
	tail := bytes.TrimLeft(rest[c:], " \t")
	n := numberLen(tail)
	return n > 0 && n == len(tail)
}

// numberLen returns the length of the -?\d+(\.\d+)? prefix of b, or 0.
func numberLen(b []byte) int {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}
	digits := i
	for i < len(b) && isDigit(b[i]) {
		i++
	}
	if i == digits {
		return 0
	}
	if i < len(b) && b[i] == '.' {
		frac := i + 1
		j := frac
		for j < len(b) && isDigit(b[j]) {
			j++
		}
		if j == frac {
			return 0
		}
		i = j
	}
	return i
}

func commodityLen(b []byte) int {
	i := 0
	for i < len(b) && isCommodityChar(b[i]) {
		i++
	}
	return i
}

func (l *Lexer) atNumberStart() bool {
	c := l.peek()
	return isDigit(c) || (c == '-' && isDigit(l.peekAt(1)))
}

// peek returns the byte under the cursor, or 0 at the end of the line.
func (l *Lexer) peek() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.line) {
		return 0
	}
	return l.line[l.pos+n]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDateChar(c byte) bool {
	return isDigit(c) || c == '-' || c == '/' || c == '.'
}

func isJournalComment(c byte) bool {
	switch c {
	case ';', '#', '%', '|', '*':
		return true
	default:
		return false
	}
}

func isCommodityChar(c byte) bool {
	switch {
	case isSpace(c), isDigit(c):
		return false
	case c == ';', c == '-', c == '.', c == ',', c == 0:
		return false
	default:
		return true
	}
}
