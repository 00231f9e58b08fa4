package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/muesli/termenv"
)

func TestStylesKeepText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name   string
		render func(string) string
		input  string
	}{
		{"Success", styles.Success, "done"},
		{"Error", styles.Error, "failed"},
		{"Warning", styles.Warning, "careful"},
		{"FilePath", styles.FilePath, "/path/to/main.ledger"},
		{"Date", styles.Date, "2023-01-01"},
		{"Account", styles.Account, "Assets:Checking"},
		{"Keyword", styles.Keyword, "balance"},
		{"Dim", styles.Dim, "secondary"},
		{"Positive", func(s string) string { return styles.Amount(s, false) }, "100.50 USD"},
		{"Negative", func(s string) string { return styles.Amount(s, true) }, "-100.50 USD"},
		{"Fast", func(s string) string { return styles.Timing(s, false) }, "5ms"},
		{"Slow", func(s string) string { return styles.Timing(s, true) }, "500ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.render(tt.input), tt.input)
		})
	}
}

func TestPlainStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewPlainStyles(&buf)

	assert.Equal(t, termenv.Ascii, styles.Output().Profile)
	assert.Equal(t, "Assets:Checking", styles.Account("Assets:Checking"))
	assert.Equal(t, "-1 USD", styles.Amount("-1 USD", true))
	assert.Equal(t, "bold", styles.Keyword("bold"))
}
