// Large Ledger File Generator
//
// This tool generates a large journal for performance testing and profiling.
// Every generated transaction balances, so the output exercises the tokenizer,
// the parser and the balancer end to end.
//
// Usage:
//
//	go run main.go > large.ledger
//	go run main.go 20000000 > large.ledger  # Specify target size in bytes
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	accounts = []string{
		"Assets:Bank:Checking",
		"Assets:Bank:Savings",
		"Assets:Cash",
		"Liabilities:CreditCard:Visa",
		"Liabilities:CreditCard:Amex",
		"Income:Salary",
		"Income:Bonus",
		"Income:Investments:Dividends",
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurant",
		"Expenses:Housing:Rent",
		"Expenses:Housing:Utilities",
		"Expenses:Transport:Gas",
		"Expenses:Transport:Transit",
		"Expenses:Shopping:Clothing",
		"Expenses:Entertainment:Movies",
		"Expenses:Healthcare:Medical",
		"Expenses:Taxes:Federal",
		"Equity:Opening-Balances",
	}

	descriptions = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "BART", "Uber", "Landlord", "PG&E",
		"Amazon", "Target", "Netflix", "AMC Theaters",
		"Employer Inc", "Fidelity", "Coffee",
	}

	notes = []string{
		"reimbursable", "tax deductible", "shared with roommate",
		"paid in advance", "receipt in drawer",
	}

	commodities = []string{"USD", "EUR", "GBP", "$"}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	banner := fmt.Sprintf("; Large ledger file for performance testing\n; Generated: %s\n\n",
		time.Now().Format("2006-01-02 15:04:05"))
	_, _ = w.WriteString(banner)

	currentDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bytesWritten := len(banner)
	transactionCount := 0

	for bytesWritten < targetSize {
		var output string

		switch rand.Intn(10) {
		case 0, 1, 2, 3: // 40% - Two postings, second inferred
			output = generateSimpleTransaction(currentDate)
		case 4, 5: // 20% - Both amounts explicit
			output = generateExplicitTransaction(currentDate)
		case 6, 7: // 20% - Split with comments
			output = generateSplitTransaction(currentDate)
		case 8: // 10% - Prefix commodity
			output = generatePrefixTransaction(currentDate)
		case 9: // 10% - Multi-commodity, each side balanced
			output = generateMultiCommodityTransaction(currentDate)
		}

		_, _ = w.WriteString(output)
		bytesWritten += len(output)
		transactionCount++

		// Advance date by 0-2 days
		currentDate = currentDate.AddDate(0, 0, rand.Intn(3))
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d transactions\n", bytesWritten, transactionCount)
}

func header(date time.Time) string {
	state := []string{"* ", "! ", ""}[rand.Intn(3)]
	code := ""
	if rand.Intn(4) == 0 {
		code = fmt.Sprintf("(%d) ", rand.Intn(10000))
	}
	return fmt.Sprintf("%s %s%s%s\n", date.Format("2006-01-02"), state, code, pick(descriptions))
}

func generateSimpleTransaction(date time.Time) string {
	amount := randAmount(10, 500)
	return header(date) +
		fmt.Sprintf("    %s  %s USD\n", pick(accounts), amount) +
		fmt.Sprintf("    %s\n\n", pick(accounts))
}

func generateExplicitTransaction(date time.Time) string {
	commodity := pick(commodities)
	amount := randAmount(10, 2000)
	return header(date) +
		fmt.Sprintf("\t%s\t%s %s\n", pick(accounts), amount, commodity) +
		fmt.Sprintf("\t%s\t%s %s\n\n", pick(accounts), amount.Neg(), commodity)
}

func generateSplitTransaction(date time.Time) string {
	var b strings.Builder
	b.WriteString(header(date))

	total := decimal.Zero
	n := rand.Intn(4) + 2
	for i := 0; i < n; i++ {
		amount := randAmount(5, 200)
		total = total.Add(amount)
		fmt.Fprintf(&b, "    %s  %s EUR  ; %s\n", pick(accounts), amount, pick(notes))
	}
	fmt.Fprintf(&b, "    ; split of %s EUR\n", total.StringFixed(2))
	fmt.Fprintf(&b, "    %s\n\n", pick(accounts))

	return b.String()
}

func generatePrefixTransaction(date time.Time) string {
	amount := randAmount(100, 3000)
	return header(date) +
		fmt.Sprintf("    %s  $%s\n", pick(accounts), amount) +
		fmt.Sprintf("    %s  $%s\n\n", pick(accounts), amount.Neg())
}

func generateMultiCommodityTransaction(date time.Time) string {
	usd := randAmount(10, 1000)
	gbp := randAmount(10, 1000)
	return header(date) +
		fmt.Sprintf("    %s  %s USD\n", pick(accounts), usd) +
		fmt.Sprintf("    %s  %s USD\n", pick(accounts), usd.Neg()) +
		fmt.Sprintf("    %s  GBP %s\n", pick(accounts), gbp) +
		fmt.Sprintf("    %s  GBP %s\n\n", pick(accounts), gbp.Neg())
}

// Helper functions

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

// randAmount returns a random amount with two decimal places.
func randAmount(min, max int64) decimal.Decimal {
	cents := min*100 + rand.Int63n((max-min)*100)
	return decimal.New(cents, -2)
}
