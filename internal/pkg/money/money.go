// internal/pkg/money/money.go
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places every amount is rounded to
const Places = 2

// Money is a fixed-precision currency amount. The zero value is 0.00.
type Money struct {
	amount decimal.Decimal
}

// Zero is 0.00
var Zero = Money{}

// New creates an amount from a float, rounding to two places
func New(value float64) Money {
	return Money{amount: decimal.NewFromFloat(value).Round(Places)}
}

// FromCents creates an amount from an integer number of minor units
func FromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -Places)}
}

// Parse parses a decimal string such as "9.99"
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{amount: d.Round(Places)}, nil
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount).Round(Places)}
}

// Sub returns m - other
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount).Round(Places)}
}

// Mul returns m multiplied by a quantity
func (m Money) Mul(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))).Round(Places)}
}

// Cents returns the amount in minor units (paise, cents)
func (m Money) Cents() int64 {
	return m.amount.Shift(Places).Round(0).IntPart()
}

// Equal reports whether both amounts are numerically equal
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// IsZero reports whether the amount is 0
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below 0
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Float64 returns the amount as a float for display purposes only
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// Decimal exposes the underlying decimal value
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String formats the amount with exactly two decimal places
func (m Money) String() string {
	return m.amount.StringFixed(Places)
}

// MarshalJSON encodes the amount as a bare JSON number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = d.Round(Places)
	return nil
}

// Sum adds up a list of amounts
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.amount)
	}
	return Money{amount: total.Round(Places)}
}
