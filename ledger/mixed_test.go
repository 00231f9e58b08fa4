package ledger

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/ledger/amount"
)

func TestMixedAmount(t *testing.T) {
	m := NewMixedAmount()
	assert.True(t, m.IsZero())
	assert.Equal(t, "(empty)", m.String())

	assert.NoError(t, m.Add("USD", amount.MustParse("10.50")))
	assert.NoError(t, m.Add("EUR", amount.MustParse("3")))
	assert.NoError(t, m.Add("USD", amount.MustParse("-0.50")))

	assert.Equal(t, []string{"EUR", "USD"}, m.Commodities())
	assert.Equal(t, "3 EUR, 10 USD", m.String())
	assert.True(t, m.Get("USD").Equal(amount.FromInt(10)))
	assert.Equal(t, 0, m.Get("GBP").Sign())
	assert.False(t, m.IsZero())
}

func TestMixedAmountNonZero(t *testing.T) {
	m := NewMixedAmount()
	assert.NoError(t, m.Add("USD", amount.MustParse("1")))
	assert.NoError(t, m.Add("USD", amount.MustParse("-1")))
	assert.NoError(t, m.Add("EUR", amount.MustParse("2")))

	nonZero := m.NonZero()
	assert.Equal(t, 1, len(nonZero))
	assert.Equal(t, "EUR", nonZero[0].Commodity)
}

func TestMixedAmountMergeAndCopy(t *testing.T) {
	a := NewMixedAmount()
	assert.NoError(t, a.Add("USD", amount.MustParse("1")))

	b := a.Copy()
	assert.NoError(t, b.Add("USD", amount.MustParse("2")))
	assert.Equal(t, "1 USD", a.String())
	assert.Equal(t, "3 USD", b.String())

	assert.NoError(t, a.Merge(b))
	assert.NoError(t, a.Merge(nil))
	assert.Equal(t, "4 USD", a.String())

	var missing *MixedAmount
	assert.Equal(t, "(empty)", missing.Copy().String())
}

func TestMixedAmountOverflow(t *testing.T) {
	m := NewMixedAmount()
	assert.NoError(t, m.Add("USD", amount.FromInt(math.MaxInt64)))
	assert.IsError(t, m.Add("USD", amount.FromInt(1)), amount.ErrOverflow)
	assert.True(t, m.Get("USD").Equal(amount.FromInt(math.MaxInt64)))
}
