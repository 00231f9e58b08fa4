package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

const testLedger = `2024-01-15 * (1) Opening balance  ; start
  Assets:Checking  USD 1000.00
  Equity:Opening

2024-01-20 * Transfer to savings
  Assets:Checking  -200.00 USD
  Assets:Savings    200.00 USD

2024-02-01 ! Salary
  Assets:Checking  3000.00 USD
  Income:Salary

2024-02-15 Groceries
  Expenses:Food     150.00 USD
  ; weekly
  Assets:Checking
`

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.ledger")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestServer(t *testing.T, content string) (*Server, *http.ServeMux, string) {
	t.Helper()
	path := writeLedger(t, content)

	server := New(8080, path)
	assert.NoError(t, server.reloadLedger(context.Background()))
	return server, server.setupRouter(), path
}

func get(t *testing.T, mux *http.ServeMux, target string, response any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK && response != nil {
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(response))
	}
	return rec
}

func TestAPISource(t *testing.T) {
	_, mux, path := newTestServer(t, testLedger)

	t.Run("WithDefaultFile", func(t *testing.T) {
		var response SourceResponse
		rec := get(t, mux, "/api/source", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testLedger, response.Source)
		assert.Equal(t, path, response.Filepath)
		assert.Zero(t, response.Error)
	})

	t.Run("WithQueryParameter", func(t *testing.T) {
		var response SourceResponse
		rec := get(t, mux, "/api/source?filepath="+path, &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testLedger, response.Source)
	})

	t.Run("FileNotLoaded", func(t *testing.T) {
		other := writeLedger(t, "")
		rec := get(t, mux, "/api/source?filepath="+other, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "access denied")
	})

	t.Run("NoFilepathNoDefault", func(t *testing.T) {
		rec := get(t, New(8080).setupRouter(), "/api/source", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ReadOnly", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/source", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestReloadFailureKeepsLastLedger(t *testing.T) {
	server, mux, path := newTestServer(t, testLedger)

	broken := testLedger + "\n2024-03-01 * Broken\n  Assets:Checking  USD\n"
	assert.NoError(t, os.WriteFile(path, []byte(broken), 0o600))
	assert.Error(t, server.reloadLedger(context.Background()))

	var transactions TransactionsResponse
	get(t, mux, "/api/transactions", &transactions)
	assert.Equal(t, 4, len(transactions.Transactions))

	var status StatusResponse
	get(t, mux, "/api/status", &status)
	assert.Equal(t, []string{path}, status.Files)
	assert.NotZero(t, status.LoadedAt)
	assert.NotZero(t, status.Error)
	assert.Equal(t, "Tokenize Error : posting amount expected", status.Error.Message)
	assert.Equal(t, path, status.Error.File)
	assert.Equal(t, 19, status.Error.Line)

	var source SourceResponse
	get(t, mux, "/api/source", &source)
	assert.Equal(t, broken, source.Source)
	assert.NotZero(t, source.Error)
	assert.Equal(t, 19, source.Error.Line)
}

func TestInitialLoadFailure(t *testing.T) {
	path := writeLedger(t, "2024-01-01 * Unbalanced\n  Assets:Cash  1 USD\n  Equity  2 USD\n")
	server := New(8080, path)

	err := server.reloadLedger(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Transaction does not balance")

	var accounts AccountsResponse
	rec := get(t, server.setupRouter(), "/api/accounts", &accounts)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, len(accounts.Accounts))
}

func TestStartWithoutFiles(t *testing.T) {
	err := New(0).Start(context.Background())
	assert.EqualError(t, err, "No file(s) selected. Try --file <file> to select a file")
}

func TestAPIAccounts(t *testing.T) {
	_, mux, _ := newTestServer(t, testLedger)

	t.Run("ReturnsSortedAccounts", func(t *testing.T) {
		var response AccountsResponse
		rec := get(t, mux, "/api/accounts", &response)
		assert.Equal(t, http.StatusOK, rec.Code)

		var names []string
		for _, account := range response.Accounts {
			names = append(names, account.Name)
		}
		assert.Equal(t, []string{
			"Assets:Checking",
			"Assets:Savings",
			"Equity:Opening",
			"Expenses:Food",
			"Income:Salary",
		}, names)

		checking := response.Accounts[0]
		assert.Equal(t, 4, checking.Postings)
		assert.Equal(t, "3650", checking.Balance["USD"].String())
	})

	t.Run("EmptyArrayWhenNothingLoaded", func(t *testing.T) {
		rec := get(t, New(8080).setupRouter(), "/api/accounts", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var response map[string]interface{}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		accounts, ok := response["accounts"].([]interface{})
		assert.True(t, ok, "accounts should be an array")
		assert.Equal(t, 0, len(accounts))
	})
}

func TestAPITransactions(t *testing.T) {
	_, mux, path := newTestServer(t, testLedger)

	t.Run("All", func(t *testing.T) {
		var response TransactionsResponse
		get(t, mux, "/api/transactions", &response)
		assert.Equal(t, 4, len(response.Transactions))

		opening := response.Transactions[0]
		assert.Equal(t, path, opening.File)
		assert.Equal(t, 1, opening.Line)
		assert.Equal(t, "2024-01-15", opening.Date)
		assert.Equal(t, "cleared", opening.State)
		assert.Equal(t, "1", *opening.Code)
		assert.Equal(t, []string{"start"}, opening.Comments)

		equity := opening.Postings[1]
		assert.Equal(t, "Equity:Opening", equity.Account)
		assert.True(t, equity.Inferred)
		assert.Equal(t, "-1000", equity.Exact)

		groceries := response.Transactions[3]
		assert.Equal(t, "uncleared", groceries.State)
		assert.Zero(t, groceries.Code)
		assert.Equal(t, []string{"weekly"}, groceries.Postings[0].Comments)
		assert.Equal(t, "pending", response.Transactions[2].State)
	})

	t.Run("FilterByAccount", func(t *testing.T) {
		var response TransactionsResponse
		get(t, mux, "/api/transactions?account=Assets:Savings", &response)
		assert.Equal(t, 1, len(response.Transactions))
		assert.Equal(t, "Transfer to savings", response.Transactions[0].Description)

		get(t, mux, "/api/transactions?account=Asset", &response)
		assert.Equal(t, 0, len(response.Transactions))
	})

	t.Run("Limit", func(t *testing.T) {
		var response TransactionsResponse
		get(t, mux, "/api/transactions?limit=2", &response)
		assert.Equal(t, 2, len(response.Transactions))
		assert.Equal(t, "Salary", response.Transactions[0].Description)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		rec := get(t, mux, "/api/transactions?limit=-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSSE(t *testing.T) {
	server, mux, _ := newTestServer(t, testLedger)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	assert.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 10)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if data, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
				events <- data
			}
		}
		close(events)
	}()

	assert.Equal(t, EventConnected, receive(t, events))

	server.broadcast(EventReload)
	assert.Equal(t, EventReload, receive(t, events))
}

func TestWatcherReloads(t *testing.T) {
	server, mux, path := newTestServer(t, testLedger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientChan := make(chan string, 10)
	server.sseMu.Lock()
	server.sseClients[clientChan] = struct{}{}
	server.sseMu.Unlock()

	assert.NoError(t, server.startWatcher(ctx))

	updated := testLedger + "\n2024-03-01 * Rent\n  Expenses:Rent  500 USD\n  Assets:Checking\n"
	assert.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	assert.Equal(t, EventReload, receive(t, clientChan))

	var response TransactionsResponse
	get(t, mux, "/api/transactions", &response)
	assert.Equal(t, 5, len(response.Transactions))
}

func receive(t *testing.T, events <-chan string) string {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}
