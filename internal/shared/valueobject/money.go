package valueobject

import (
	"github.com/shopspring/decimal"

	"pubs-backend/internal/shared"
)

// DefaultCurrency được dùng khi caller không truyền currency
const DefaultCurrency = "USD"

// Money is a non-negative amount in a single currency.
// The currency code is not checked against ISO 4217.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates amount >= 0. An empty currency falls back to DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, shared.NewInvalidArgument("amount", "amount cannot be negative")
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney panics on a negative amount.
func MustMoney(amount decimal.Decimal, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// USD is shorthand for a dollar amount built from an int64.
func USD(amount int64) Money {
	return MustMoney(decimal.NewFromInt(amount), DefaultCurrency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// IsZero reports whether m is the zero value (never constructed).
func (m Money) IsZero() bool { return m.currency == "" }

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Subtract does not clamp: a result below zero is rejected by NewMoney.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

// Multiply scales the amount. A negative factor fails the constructor check.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// Equal compares amount numerically (10 == 10.00) and currency exactly.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return shared.NewCurrencyMismatch(m.currency, other.currency)
	}
	return nil
}
