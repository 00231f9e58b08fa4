package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/ledger"
)

// AccountInfo represents basic information about a ledger account.
type AccountInfo struct {
	Name     string                     `json:"name"`
	Postings int                        `json:"postings"`
	Balance  map[string]decimal.Decimal `json:"balance"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// handleGetAccounts handles GET requests to /api/accounts.
// Returns all accounts from the ledger, sorted alphabetically by name.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.current()
	names := l.Accounts()

	accounts := make([]AccountInfo, 0, len(names))
	for _, name := range names {
		account, _ := l.Account(name)
		accounts = append(accounts, AccountInfo{
			Name:     name,
			Postings: account.Postings,
			Balance:  toMap(account.Balance),
		})
	}

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}

// toMap converts a mixed amount into decimals keyed by commodity.
func toMap(m *ledger.MixedAmount) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal)
	for _, entry := range m.Entries() {
		result[entry.Commodity] = entry.Amount.Decimal()
	}
	return result
}
