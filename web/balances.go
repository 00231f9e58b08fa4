package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/ledger"
)

// BalancesResponse is the JSON response structure for the balances endpoint.
type BalancesResponse struct {
	Roots       []*BalanceNodeResponse     `json:"roots"`
	Commodities []string                   `json:"commodities"`
	Total       map[string]decimal.Decimal `json:"total"`
}

// BalanceNodeResponse represents a node in the balance tree for JSON serialization.
type BalanceNodeResponse struct {
	Name     string                     `json:"name"`
	Account  string                     `json:"account,omitempty"`
	Depth    int                        `json:"depth"`
	Balance  map[string]decimal.Decimal `json:"balance"`
	Children []*BalanceNodeResponse     `json:"children,omitempty"`
}

// handleGetBalances handles GET requests to /api/balances.
//
// Query parameters:
//   - account: Only return the subtree rooted at this account.
//   - depth: Omit nodes nested deeper than this level (0 returns roots only).
//
// Examples:
//   - GET /api/balances - All accounts
//   - GET /api/balances?account=Expenses&depth=1 - Expenses and its direct children
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	maxDepth := -1
	if depthParam := r.URL.Query().Get("depth"); depthParam != "" {
		d, err := strconv.Atoi(depthParam)
		if err != nil || d < 0 {
			http.Error(w, "invalid depth (expected a non-negative integer): "+depthParam, http.StatusBadRequest)
			return
		}
		maxDepth = d
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.current()
	tree, err := l.BalanceTree()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	roots := tree.Roots
	if account := r.URL.Query().Get("account"); account != "" {
		node := findNode(tree.Roots, account)
		if node == nil {
			http.Error(w, "unknown account: "+account, http.StatusNotFound)
			return
		}
		roots = []*ledger.BalanceNode{node}
	}

	response := &BalancesResponse{
		Roots:       make([]*BalanceNodeResponse, len(roots)),
		Commodities: l.Commodities(),
		Total:       toMap(tree.Total),
	}
	for i, root := range roots {
		response.Roots[i] = convertBalanceNode(root, maxDepth)
	}

	writeJSONResponse(w, response)
}

// findNode looks up account by walking down its name segments.
func findNode(nodes []*ledger.BalanceNode, account string) *ledger.BalanceNode {
	var node *ledger.BalanceNode
	for _, segment := range strings.Split(account, ":") {
		node = nil
		for _, candidate := range nodes {
			if candidate.Name == segment {
				node = candidate
				break
			}
		}
		if node == nil {
			return nil
		}
		nodes = node.Children
	}
	return node
}

// convertBalanceNode recursively converts a ledger.BalanceNode to a BalanceNodeResponse.
// A negative maxDepth converts the whole subtree.
func convertBalanceNode(node *ledger.BalanceNode, maxDepth int) *BalanceNodeResponse {
	var children []*BalanceNodeResponse
	if len(node.Children) > 0 && (maxDepth < 0 || node.Depth < maxDepth) {
		children = make([]*BalanceNodeResponse, len(node.Children))
		for i, child := range node.Children {
			children[i] = convertBalanceNode(child, maxDepth)
		}
	}

	return &BalanceNodeResponse{
		Name:     node.Name,
		Account:  node.Account,
		Depth:    node.Depth,
		Balance:  toMap(node.Balance),
		Children: children,
	}
}
