package parser

import "fmt"

// TokenType represents the type of token scanned from the input.
type TokenType uint8

const (
	// EOF is returned by the parser when it looks past the last token.
	// The lexer never emits it.
	EOF TokenType = iota

	// Transaction header
	TransactionDate        // 2023-01-01
	TransactionState       // *, ! or absent
	TransactionCode        // (1042)
	TransactionDescription // Groceries
	TransactionComment     // ; comment on the header line

	// Posting line
	PostingAccount   // Expenses:Food
	PostingCommodity // USD, $
	PostingAmount    // -20.00

	// IndentedComment is a comment on an indented line or trailing a posting.
	IndentedComment
)

var tokenNames = map[TokenType]string{
	EOF: "EOF",

	TransactionDate:        "TransactionDate",
	TransactionState:       "TransactionState",
	TransactionCode:        "TransactionCode",
	TransactionDescription: "TransactionDescription",
	TransactionComment:     "TransactionComment",

	PostingAccount:   "PostingAccount",
	PostingCommodity: "PostingCommodity",
	PostingAmount:    "PostingAmount",

	IndentedComment: "IndentedComment",
}

// String returns the string representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token is a single lexical unit. Value holds the token text: the marker for
// TransactionState ("*", "!" or ""), the code without parentheses, the comment
// text without the leading ';'.
type Token struct {
	Type   TokenType
	Value  string
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// String returns a compact representation of the token for diagnostics.
func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Type, t.Value)
}
