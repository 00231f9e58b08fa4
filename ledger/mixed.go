package ledger

import (
	"strings"

	"github.com/robinvdvleuten/ledger/amount"
	"golang.org/x/exp/slices"
)

// MixedAmount holds amounts in one or more commodities.
// Entries are kept sorted by commodity for deterministic iteration and display.
type MixedAmount struct {
	entries []*CommodityAmount
}

// CommodityAmount is an amount in a specific commodity.
type CommodityAmount struct {
	Commodity string
	Amount    amount.Rat
}

// NewMixedAmount creates an empty mixed amount.
func NewMixedAmount() *MixedAmount {
	return &MixedAmount{entries: []*CommodityAmount{}}
}

// Get returns the amount for commodity, or zero if absent.
func (m *MixedAmount) Get(commodity string) amount.Rat {
	if i, ok := m.find(commodity); ok {
		return m.entries[i].Amount
	}
	return amount.Zero
}

// Add adds value to the commodity's running amount.
func (m *MixedAmount) Add(commodity string, value amount.Rat) error {
	i, ok := m.find(commodity)
	if !ok {
		m.entries = slices.Insert(m.entries, i, &CommodityAmount{Commodity: commodity, Amount: value})
		return nil
	}

	sum, err := m.entries[i].Amount.Add(value)
	if err != nil {
		return err
	}
	m.entries[i].Amount = sum
	return nil
}

// Merge adds every amount in other to m.
func (m *MixedAmount) Merge(other *MixedAmount) error {
	if other == nil {
		return nil
	}
	for _, e := range other.entries {
		if err := m.Add(e.Commodity, e.Amount); err != nil {
			return err
		}
	}
	return nil
}

// IsZero reports whether every amount is zero. An empty or nil balance is zero.
func (m *MixedAmount) IsZero() bool {
	if m == nil {
		return true
	}
	for _, e := range m.entries {
		if e.Amount.Sign() != 0 {
			return false
		}
	}
	return true
}

// Commodities returns the sorted commodities present in the mixed amount.
func (m *MixedAmount) Commodities() []string {
	commodities := make([]string, len(m.entries))
	for i, e := range m.entries {
		commodities[i] = e.Commodity
	}
	return commodities
}

// Entries returns the sorted amounts. Callers must not modify them.
func (m *MixedAmount) Entries() []*CommodityAmount {
	return m.entries
}

// NonZero returns the entries whose amount is not zero.
func (m *MixedAmount) NonZero() []*CommodityAmount {
	var out []*CommodityAmount
	for _, e := range m.entries {
		if e.Amount.Sign() != 0 {
			out = append(out, e)
		}
	}
	return out
}

// Copy returns a deep copy of the mixed amount.
func (m *MixedAmount) Copy() *MixedAmount {
	if m == nil {
		return NewMixedAmount()
	}
	entries := make([]*CommodityAmount, len(m.entries))
	for i, e := range m.entries {
		entries[i] = &CommodityAmount{Commodity: e.Commodity, Amount: e.Amount}
	}
	return &MixedAmount{entries: entries}
}

// String renders the mixed amount as "AMOUNT COMMODITY" pairs.
func (m *MixedAmount) String() string {
	if len(m.entries) == 0 {
		return "(empty)"
	}

	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.Amount.String() + " " + e.Commodity
	}
	return strings.Join(parts, ", ")
}

func (m *MixedAmount) find(commodity string) (int, bool) {
	return slices.BinarySearchFunc(m.entries, commodity, func(e *CommodityAmount, c string) int {
		return strings.Compare(e.Commodity, c)
	})
}
