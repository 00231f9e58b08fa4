package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/ast"
)

type TransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

type TransactionResponse struct {
	File        string            `json:"file"`
	Line        int               `json:"line"`
	Date        string            `json:"date"`
	State       string            `json:"state"`
	Code        *string           `json:"code,omitempty"`
	Description string            `json:"description"`
	Comments    []string          `json:"comments,omitempty"`
	Postings    []PostingResponse `json:"postings"`
}

type PostingResponse struct {
	Account   string          `json:"account"`
	Commodity string          `json:"commodity"`
	Amount    decimal.Decimal `json:"amount"`
	Exact     string          `json:"exact"`
	Inferred  bool            `json:"inferred"`
	Comments  []string        `json:"comments,omitempty"`
}

// handleGetTransactions handles GET requests to /api/transactions.
//
// Query parameters:
//   - account: Only return transactions with a posting to this account or a sub-account.
//   - limit: Return at most this many transactions, counting from the most recent.
func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	limit := -1
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		n, err := strconv.Atoi(limitParam)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit (expected a non-negative integer): "+limitParam, http.StatusBadRequest)
			return
		}
		limit = n
	}
	account := r.URL.Query().Get("account")

	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := []TransactionResponse{}
	for _, txn := range s.current().Transactions() {
		if account != "" && !touches(txn, account) {
			continue
		}
		transactions = append(transactions, convertTransaction(txn))
	}

	if limit >= 0 && len(transactions) > limit {
		transactions = transactions[len(transactions)-limit:]
	}

	writeJSONResponse(w, &TransactionsResponse{Transactions: transactions})
}

func touches(txn ast.Transaction[ast.BalancedPosting], account string) bool {
	for _, posting := range txn.Postings {
		if posting.Account == account || strings.HasPrefix(posting.Account, account+":") {
			return true
		}
	}
	return false
}

func convertTransaction(txn ast.Transaction[ast.BalancedPosting]) TransactionResponse {
	postings := make([]PostingResponse, len(txn.Postings))
	for i, posting := range txn.Postings {
		postings[i] = PostingResponse{
			Account:   posting.Account,
			Commodity: posting.Commodity,
			Amount:    posting.Amount.Decimal(),
			Exact:     posting.Amount.String(),
			Inferred:  posting.Inferred,
			Comments:  commentTexts(posting.Comments),
		}
	}

	return TransactionResponse{
		File:        txn.Pos.Filename,
		Line:        txn.Line,
		Date:        txn.Date,
		State:       strings.ToLower(txn.State.String()),
		Code:        txn.Code,
		Description: txn.Description,
		Comments:    commentTexts(txn.Comments),
		Postings:    postings,
	}
}

func commentTexts(comments []ast.Comment) []string {
	if len(comments) == 0 {
		return nil
	}
	texts := make([]string, len(comments))
	for i, comment := range comments {
		texts[i] = comment.Text
	}
	return texts
}
