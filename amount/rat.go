// Package amount implements exact rational amounts for ledger postings.
//
// A Rat is a numerator/denominator pair of int64 values that is always kept in
// lowest terms with a positive denominator. Every arithmetic operation is
// checked: instead of silently wrapping around, an operation that does not fit
// in 64 bits returns ErrOverflow.
//
// Example usage:
//
//	a, _ := amount.Parse("20.00")
//	b, _ := amount.Parse("-7.5")
//	sum, err := a.Add(b) // 12.5
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrOverflow is returned when an operation does not fit in 64 bits.
	ErrOverflow = errors.New("amount overflow")

	// ErrZeroDenominator is returned when constructing a fraction over zero.
	ErrZeroDenominator = errors.New("zero denominator")

	// ErrSyntax is returned when a decimal literal cannot be parsed.
	ErrSyntax = errors.New("invalid amount")
)

// maxScale is the largest number of fraction digits whose power of ten fits in an int64.
const maxScale = 18

// divisionPrecision is used when rendering fractions that have no finite decimal expansion.
const divisionPrecision = 16

var pow10 = func() [maxScale + 1]int64 {
	var p [maxScale + 1]int64
	p[0] = 1
	for i := 1; i <= maxScale; i++ {
		p[i] = p[i-1] * 10
	}
	return p
}()

// Rat is an exact fraction. The zero value is 0.
type Rat struct {
	num int64
	den int64
}

// Zero is the additive identity.
var Zero = Rat{num: 0, den: 1}

// New creates a reduced fraction num/den.
func New(num, den int64) (Rat, error) {
	if den == 0 {
		return Rat{}, ErrZeroDenominator
	}
	if den < 0 {
		var ok bool
		if num, ok = negate(num); !ok {
			return Rat{}, ErrOverflow
		}
		if den, ok = negate(den); !ok {
			return Rat{}, ErrOverflow
		}
	}
	if num == 0 {
		return Zero, nil
	}

	g := int64(gcd(uabs(num), uint64(den)))
	return Rat{num: num / g, den: den / g}, nil
}

// FromInt creates a whole-number fraction.
func FromInt(n int64) Rat {
	return Rat{num: n, den: 1}
}

// MustNew is like New but panics on error.
// Use only in tests or with constant arguments.
func MustNew(num, den int64) Rat {
	r, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// Parse converts a decimal literal matching -?\d+(\.\d+)? into a fraction.
// The digits after the decimal point give the denominator as a power of ten,
// so "12.345" becomes 12345/1000 before reduction.
func Parse(s string) (Rat, error) {
	digits, negative := strings.CutPrefix(s, "-")

	intPart, fracPart, hasDot := strings.Cut(digits, ".")
	if !isDigits(intPart) || (hasDot && !isDigits(fracPart)) {
		return Rat{}, fmt.Errorf("%w %q", ErrSyntax, s)
	}
	if len(fracPart) > maxScale {
		return Rat{}, fmt.Errorf("%w: %q has more than %d decimal places", ErrOverflow, s, maxScale)
	}

	n, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Rat{}, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		return Rat{}, fmt.Errorf("%w %q", ErrSyntax, s)
	}
	if negative {
		n = -n
	}

	return New(n, pow10[len(fracPart)])
}

// MustParse is like Parse but panics on error.
// Use only in tests or when you're certain the literal is valid.
func MustParse(s string) Rat {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Num returns the numerator.
func (r Rat) Num() int64 { return r.num }

// Denom returns the denominator, which is always positive.
func (r Rat) Denom() int64 {
	if r.den == 0 {
		return 1
	}
	return r.den
}

// Add returns r + o.
func (r Rat) Add(o Rat) (Rat, error) {
	b, d := r.Denom(), o.Denom()
	g := int64(gcd(uint64(b), uint64(d)))

	// a/b + c/d = (a*(d/g) + c*(b/g)) / (b/g * d)
	x, ok1 := mul(r.num, d/g)
	y, ok2 := mul(o.num, b/g)
	n, ok3 := add(x, y)
	den, ok4 := mul(b/g, d)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Rat{}, ErrOverflow
	}

	return New(n, den)
}

// Sub returns r - o.
func (r Rat) Sub(o Rat) (Rat, error) {
	neg, err := o.Neg()
	if err != nil {
		return Rat{}, err
	}
	return r.Add(neg)
}

// Neg returns -r.
func (r Rat) Neg() (Rat, error) {
	n, ok := negate(r.num)
	if !ok {
		return Rat{}, ErrOverflow
	}
	return Rat{num: n, den: r.Denom()}, nil
}

// Mul returns r * o.
func (r Rat) Mul(o Rat) (Rat, error) {
	if r.num == 0 || o.num == 0 {
		return Zero, nil
	}

	b, d := r.Denom(), o.Denom()
	g1 := int64(gcd(uabs(r.num), uint64(d)))
	g2 := int64(gcd(uabs(o.num), uint64(b)))

	n, ok1 := mul(r.num/g1, o.num/g2)
	den, ok2 := mul(b/g2, d/g1)
	if !ok1 || !ok2 {
		return Rat{}, ErrOverflow
	}

	return New(n, den)
}

// Sign returns -1, 0 or +1.
func (r Rat) Sign() int {
	switch {
	case r.num < 0:
		return -1
	case r.num > 0:
		return 1
	default:
		return 0
	}
}

// Equal reports whether r and o denote the same value.
func (r Rat) Equal(o Rat) bool {
	return r.num == o.num && r.Denom() == o.Denom()
}

// Cmp compares r and o and returns -1, 0 or +1.
func (r Rat) Cmp(o Rat) int {
	return r.big().Cmp(o.big())
}

func (r Rat) big() *big.Rat {
	return big.NewRat(r.num, r.Denom())
}

// Scale returns the number of decimal places needed to write r exactly.
// The second result is false when r has no finite decimal expansion.
func (r Rat) Scale() (int, bool) {
	d := r.Denom()
	twos, fives := 0, 0
	for d%2 == 0 {
		d /= 2
		twos++
	}
	for d%5 == 0 {
		d /= 5
		fives++
	}
	if d != 1 {
		return 0, false
	}
	return max(twos, fives), true
}

// Decimal converts r into a decimal.Decimal.
// Fractions without a finite decimal expansion are rounded to 16 places.
func (r Rat) Decimal() decimal.Decimal {
	places, ok := r.Scale()
	if !ok {
		places = divisionPrecision
	}
	return decimal.NewFromInt(r.num).DivRound(decimal.NewFromInt(r.Denom()), int32(places))
}

// Format renders r with exactly places digits after the decimal point.
func (r Rat) Format(places int) string {
	return r.Decimal().StringFixed(int32(places))
}

// String renders r as exact decimal text without trailing zeros, or as
// "num/den" when no finite decimal expansion exists.
func (r Rat) String() string {
	if _, ok := r.Scale(); !ok {
		return fmt.Sprintf("%d/%d", r.num, r.Denom())
	}
	return r.Decimal().String()
}

// MarshalText implements encoding.TextMarshaler.
func (r Rat) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
