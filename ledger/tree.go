package ledger

import (
	"strings"

	"golang.org/x/exp/slices"
)

// BalanceTree is a hierarchical view of account balances. Account names are
// split on ':' and every prefix becomes a node, so "Assets:Bank:Checking"
// yields the nodes Assets, Assets:Bank and Assets:Bank:Checking.
type BalanceTree struct {
	// Roots contains the top-level nodes, sorted by name.
	Roots []*BalanceNode

	// Total is the sum over all roots.
	Total *MixedAmount
}

// BalanceNode is a single account in the hierarchy.
type BalanceNode struct {
	// Name is the last segment of the account name.
	Name string

	// Account is the full account name.
	Account string

	// Depth is the nesting level, 0 for roots.
	Depth int

	// Own is the balance of postings made directly to this account.
	Own *MixedAmount

	// Balance includes Own and the balances of all descendants.
	Balance *MixedAmount

	// Children contains direct child nodes, sorted by name.
	Children []*BalanceNode
}

// Walk visits n and its descendants depth-first in display order.
func (n *BalanceNode) Walk(fn func(*BalanceNode)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// BalanceTree builds the account hierarchy. Parent balances roll up all
// descendants.
func (l *Ledger) BalanceTree() (*BalanceTree, error) {
	tree := &BalanceTree{Total: NewMixedAmount()}
	nodes := make(map[string]*BalanceNode)

	var ensure func(account string) *BalanceNode
	ensure = func(account string) *BalanceNode {
		if node, ok := nodes[account]; ok {
			return node
		}

		node := &BalanceNode{
			Name:    account,
			Account: account,
			Own:     NewMixedAmount(),
			Balance: NewMixedAmount(),
		}
		nodes[account] = node

		if i := strings.LastIndexByte(account, ':'); i >= 0 {
			parent := ensure(account[:i])
			node.Name = account[i+1:]
			node.Depth = parent.Depth + 1
			parent.Children = append(parent.Children, node)
		} else {
			tree.Roots = append(tree.Roots, node)
		}
		return node
	}

	for _, name := range l.Accounts() {
		balance := l.accounts[name].Balance

		node := ensure(name)
		if err := node.Own.Merge(balance); err != nil {
			return nil, err
		}

		// Roll the balance up through every ancestor.
		for account := name; ; {
			if err := nodes[account].Balance.Merge(balance); err != nil {
				return nil, err
			}
			i := strings.LastIndexByte(account, ':')
			if i < 0 {
				break
			}
			account = account[:i]
		}

		if err := tree.Total.Merge(balance); err != nil {
			return nil, err
		}
	}

	sortNodes(tree.Roots)
	return tree, nil
}

func sortNodes(nodes []*BalanceNode) {
	slices.SortFunc(nodes, func(a, b *BalanceNode) int {
		return strings.Compare(a.Name, b.Name)
	})
	for _, node := range nodes {
		sortNodes(node.Children)
	}
}
