package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every amount is normalized to.
const Scale = 2

var (
	ErrNegativeAmount     = errors.New("money amount cannot be negative")
	ErrNegativeResult     = errors.New("money subtraction would produce a negative amount")
	ErrNegativeMultiplier = errors.New("money multiplier cannot be negative")
)

// Money is a non-negative amount held at two decimal places.
type Money struct {
	amount decimal.Decimal
}

// New rounds half-up to two decimal places and rejects negative values.
func New(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: amount.Round(Scale)}, nil
}

func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return New(d)
}

// MustParse is intended for seeds and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func Zero() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount).Round(Scale)}
}

func (m Money) Subtract(other Money) (Money, error) {
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, ErrNegativeResult
	}
	return Money{amount: result.Round(Scale)}, nil
}

func (m Money) Multiply(multiplier int) (Money, error) {
	if multiplier < 0 {
		return Money{}, ErrNegativeMultiplier
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(multiplier))).Round(Scale)}, nil
}

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than other.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly two fractional digits, e.g. "10.00".
func (m Money) String() string {
	return m.amount.StringFixed(Scale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both quoted and bare numeric amounts.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid money amount: %w", err)
	}
	parsed, err := New(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
