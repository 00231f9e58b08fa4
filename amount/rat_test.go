package amount

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		num   int64
		den   int64
	}{
		{"12.345", 2469, 200},
		{"20.00", 20, 1},
		{"-20.00", -20, 1},
		{"0.5", 1, 2},
		{"-0.05", -1, 20},
		{"7", 7, 1},
		{"0", 0, 1},
		{"-0.0", 0, 1},
		{"1000000.001", 1000000001, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := Parse(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.num, r.Num())
			assert.Equal(t, tt.den, r.Denom())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "-", "abc", "1.", ".5", "1.2.3", "+5", "1,000", "12a"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.IsError(t, err, ErrSyntax)
		})
	}
}

func TestParseOverflow(t *testing.T) {
	t.Run("TooManyDigits", func(t *testing.T) {
		_, err := Parse("92233720368547758080")
		assert.IsError(t, err, ErrOverflow)
	})

	t.Run("TooManyDecimalPlaces", func(t *testing.T) {
		_, err := Parse("0.1234567890123456789")
		assert.IsError(t, err, ErrOverflow)
	})
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"12.345", "12.345"},
		{"20.00", "20"},
		{"-20.00", "-20"},
		{"0.10", "0.1"},
		{"-0.001", "-0.001"},
		{"123456789.987654321", "123456789.987654321"},
		{"42", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := MustParse(tt.input)
			assert.Equal(t, tt.want, r.String())

			again := MustParse(r.String())
			assert.True(t, r.Equal(again))
		})
	}
}

func TestNew(t *testing.T) {
	r, err := New(10, -4)
	assert.NoError(t, err)
	assert.Equal(t, int64(-5), r.Num())
	assert.Equal(t, int64(2), r.Denom())

	_, err = New(1, 0)
	assert.IsError(t, err, ErrZeroDenominator)

	_, err = New(math.MinInt64, -1)
	assert.IsError(t, err, ErrOverflow)
}

func TestArithmetic(t *testing.T) {
	a := MustParse("10.00")
	b := MustParse("5.25")

	sum, err := a.Add(b)
	assert.NoError(t, err)
	assert.Equal(t, "15.25", sum.String())

	diff, err := a.Sub(b)
	assert.NoError(t, err)
	assert.Equal(t, "4.75", diff.String())

	neg, err := b.Neg()
	assert.NoError(t, err)
	assert.Equal(t, "-5.25", neg.String())

	prod, err := a.Mul(b)
	assert.NoError(t, err)
	assert.Equal(t, "52.5", prod.String())

	third := MustNew(1, 3)
	total, err := third.Add(third)
	assert.NoError(t, err)
	total, err = total.Add(third)
	assert.NoError(t, err)
	assert.True(t, total.Equal(FromInt(1)))
}

func TestArithmeticOverflow(t *testing.T) {
	big := FromInt(math.MaxInt64)

	_, err := big.Add(FromInt(1))
	assert.IsError(t, err, ErrOverflow)

	_, err = big.Mul(FromInt(2))
	assert.IsError(t, err, ErrOverflow)

	_, err = FromInt(math.MinInt64).Neg()
	assert.IsError(t, err, ErrOverflow)

	_, err = MustNew(1, math.MaxInt64).Add(MustNew(1, math.MaxInt64-1))
	assert.IsError(t, err, ErrOverflow)
}

func TestZeroValue(t *testing.T) {
	var r Rat
	assert.Equal(t, 0, r.Sign())
	assert.Equal(t, int64(1), r.Denom())
	assert.Equal(t, "0", r.String())

	sum, err := r.Add(MustParse("1.5"))
	assert.NoError(t, err)
	assert.Equal(t, "1.5", sum.String())
}

func TestCmpAndSign(t *testing.T) {
	assert.Equal(t, -1, MustParse("-1").Sign())
	assert.Equal(t, 0, Zero.Sign())
	assert.Equal(t, 1, MustParse("0.01").Sign())

	assert.Equal(t, -1, MustParse("1.5").Cmp(MustParse("1.51")))
	assert.Equal(t, 0, MustParse("1.50").Cmp(MustParse("1.5")))
	assert.Equal(t, 1, MustNew(1, 3).Cmp(MustParse("0.333")))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "-20.00", MustParse("-20").Format(2))
	assert.Equal(t, "0.50", MustParse("0.5").Format(2))
	assert.Equal(t, "3", MustParse("3").Format(0))
	assert.Equal(t, "1/3", MustNew(1, 3).String())
}

func TestScale(t *testing.T) {
	places, ok := MustParse("12.345").Scale()
	assert.True(t, ok)
	assert.Equal(t, 3, places)

	places, ok = MustParse("0.5").Scale()
	assert.True(t, ok)
	assert.Equal(t, 1, places)

	_, ok = MustNew(2, 3).Scale()
	assert.False(t, ok)
}
