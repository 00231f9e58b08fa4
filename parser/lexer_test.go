package parser

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func scanTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	tokens, err := Tokenize("test", []byte(input))
	assert.NoError(t, err)

	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerLineKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "empty input",
			input: "",
			want:  []TokenType{},
		},
		{
			name:  "blank lines",
			input: "\n   \n\t\n",
			want:  []TokenType{},
		},
		{
			name:  "journal comments",
			input: "; semicolon\n# hash\n% percent\n| pipe\n* star\n",
			want:  []TokenType{},
		},
		{
			name:  "header without marker",
			input: "2023-01-01 Groceries\n",
			want:  []TokenType{TransactionDate, TransactionState, TransactionDescription},
		},
		{
			name:  "header with code and comment",
			input: "2023-01-01 * (42) Groceries ; note\n",
			want: []TokenType{
				TransactionDate, TransactionState, TransactionCode,
				TransactionDescription, TransactionComment,
			},
		},
		{
			name:  "null posting",
			input: "  Assets:Cash\n",
			want:  []TokenType{PostingAccount},
		},
		{
			name:  "posting with amount and comment",
			input: "  Expenses:Food  20.00 USD  ; lunch\n",
			want:  []TokenType{PostingAccount, PostingCommodity, PostingAmount, IndentedComment},
		},
		{
			name:  "indented comment",
			input: "    ; just a note\n",
			want:  []TokenType{IndentedComment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanTypes(t, tt.input))
		})
	}
}

func TestLexerHeader(t *testing.T) {
	tokens, err := Tokenize("test", []byte("2023/01/02 ! (INV-7) Hardware store   ;  two spaces kept\n"))
	assert.NoError(t, err)

	assert.Equal(t, []Token{
		{Type: TransactionDate, Value: "2023/01/02", Line: 1, Column: 1},
		{Type: TransactionState, Value: "!", Line: 1, Column: 12},
		{Type: TransactionCode, Value: "INV-7", Line: 1, Column: 14},
		{Type: TransactionDescription, Value: "Hardware store", Line: 1, Column: 22},
		{Type: TransactionComment, Value: " two spaces kept", Line: 1, Column: 39},
	}, tokens)
}

func TestLexerStateMarkers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2023-01-01 * Cleared", "*"},
		{"2023-01-01 ! Pending", "!"},
		{"2023-01-01 Uncleared", ""},
		{"2023-01-01 *NoSpace", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize("test", []byte(tt.input))
			assert.NoError(t, err)
			assert.Equal(t, TransactionState, tokens[1].Type)
			assert.Equal(t, tt.want, tokens[1].Value)
		})
	}
}

func TestLexerAmountForms(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		account   string
		commodity string
		amount    string
	}{
		{"amount then commodity", "  Expenses:Food  20.00 USD", "Expenses:Food", "USD", "20.00"},
		{"commodity then amount", "  Expenses:Food  USD 20.00", "Expenses:Food", "USD", "20.00"},
		{"attached symbol", "  Expenses:Food  $20.00", "Expenses:Food", "$", "20.00"},
		{"negative attached symbol", "  Assets:Cash  $-20", "Assets:Cash", "$", "-20"},
		{"negative amount first", "  Assets:Cash  -20.5 EUR", "Assets:Cash", "EUR", "-20.5"},
		{"tab separated", "\tAssets:Cash\t-3.50 EUR", "Assets:Cash", "EUR", "-3.50"},
		{"account with single spaces", "  Assets:Piggy Bank  5 GBP", "Assets:Piggy Bank", "GBP", "5"},
		{"unicode commodity", "  Assets:Cash  12 €", "Assets:Cash", "€", "12"},
		{"single space before amount", "\tExpenses:Food 20.00 USD", "Expenses:Food", "USD", "20.00"},
		{"single space before symbol", "  Assets:Cash $-5", "Assets:Cash", "$", "-5"},
		{"single space before glued amount", "  Assets:Cash 7EUR", "Assets:Cash", "EUR", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize("test", []byte(tt.input))
			assert.NoError(t, err)
			assert.Equal(t, 3, len(tokens))
			assert.Equal(t, Token{Type: PostingAccount, Value: tt.account, Line: 1, Column: tokens[0].Column}, tokens[0])
			assert.Equal(t, PostingCommodity, tokens[1].Type)
			assert.Equal(t, tt.commodity, tokens[1].Value)
			assert.Equal(t, PostingAmount, tokens[2].Type)
			assert.Equal(t, tt.amount, tokens[2].Value)
		})
	}
}

func TestLexerAccountWithSpaces(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		account string
	}{
		{"trailing word", "  Assets:Piggy Bank", "Assets:Piggy Bank"},
		{"trailing number", "  Income:Bonus 2023", "Income:Bonus 2023"},
		{"trailing number and comment", "  Income:Bonus 2023 ; note", "Income:Bonus 2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize("test", []byte(tt.input))
			assert.NoError(t, err)
			assert.Equal(t, PostingAccount, tokens[0].Type)
			assert.Equal(t, tt.account, tokens[0].Value)
			for _, tok := range tokens[1:] {
				assert.Equal(t, IndentedComment, tok.Type)
			}
		})
	}
}

func TestLexerComments(t *testing.T) {
	input := "2023-01-01 * Groceries ;header\n" +
		"    Expenses:Food  20.00 USD ;\tafter tab\n" +
		"    ;   indented\n"

	tokens, err := Tokenize("test", []byte(input))
	assert.NoError(t, err)

	var comments []string
	for _, tok := range tokens {
		if tok.Type == TransactionComment || tok.Type == IndentedComment {
			comments = append(comments, tok.Value)
		}
	}

	// Only one whitespace character after ';' is dropped.
	assert.Equal(t, []string{"header", "after tab", "  indented"}, comments)
}

func TestLexerLineNumbers(t *testing.T) {
	input := "; comment\n\n2023-01-01 * Groceries\r\n    Expenses:Food  20.00 USD\r\n    Assets:Cash\r\n"

	tokens, err := Tokenize("test", []byte(input))
	assert.NoError(t, err)

	lines := make([]int, len(tokens))
	for i, tok := range tokens {
		lines[i] = tok.Line
	}
	assert.Equal(t, []int{3, 3, 3, 4, 4, 4, 5}, lines)
	assert.Equal(t, "Assets:Cash", tokens[6].Value)
}

func TestLexerInterning(t *testing.T) {
	lexer := NewLexer([]byte("  Assets:Cash  1 USD\n  Assets:Cash  2 USD\n  Expenses:Food  3 USD\n"), "test")
	_, err := lexer.ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, 3, lexer.interner.Size())
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{"header without date", "Groceries\n", 1, "transaction date expected"},
		{"date only", "2023-01-01\n", 1, "transaction description expected"},
		{"marker only", "2023-01-01 *\n", 1, "transaction description expected"},
		{"comment only", "2023-01-01 * ; note\n", 1, "transaction description expected"},
		{"garbage in date", "2023-01-01x Groceries\n", 1, "invalid character 'x' in transaction date"},
		{"unterminated code", "2023-01-01 * (42 Groceries\n", 1, "unterminated transaction code"},
		{"commodity without amount", "2023-01-01 * A\n  Assets:Cash  USD\n", 2, "posting amount expected"},
		{"amount without commodity", "2023-01-01 * A\n  Assets:Cash  20.00\n", 2, "posting commodity expected"},
		{"amount without commodity before comment", "  Assets:Cash  20.00 ; note\n", 1, "posting commodity expected"},
		{"malformed amount", "  Assets:Cash  20. USD\n", 1, `invalid amount "20."`},
		{"thousands separator", "  Assets:Cash  1,000 USD\n", 1, `invalid amount "1,000"`},
		{"trailing garbage", "  Assets:Cash  20 USD EUR\n", 1, `unexpected "EUR" after posting amount`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("main.ledger", []byte(tt.input))
			assert.Error(t, err)

			var tokErr *TokenizeError
			assert.True(t, errors.As(err, &tokErr))
			assert.Equal(t, tt.message, tokErr.Message)
			assert.Equal(t, tt.line, tokErr.GetPosition().Line)
			assert.Equal(t, "main.ledger", tokErr.GetPosition().Filename)
			assert.Equal(t, "Tokenize Error : "+tt.message, err.Error())
		})
	}
}
