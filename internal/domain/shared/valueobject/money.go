package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	IDR Currency = "IDR" // Indonesian Rupiah (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	SGD Currency = "SGD" // Singapore Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = IDR

// minorUnitExponent is the number of fractional digits carried in the
// minor-unit representation (e.g. 2 means amounts are stored in cents).
const minorUnitExponent = 2

// Money is a value object representing a monetary amount as an integer
// count of minor currency units. All arithmetic inside the core happens
// on the integer representation; decimal values appear only at the
// external API boundary via NewMoneyFromDecimal and Decimal.
// Money is immutable - all operations return new Money instances.
type Money struct {
	minor    int64
	currency Currency
}

// NewMoney creates Money from an amount expressed in minor units
func NewMoney(minorUnits int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{minor: minorUnits, currency: currency}, nil
}

// NewMoneyFromDecimal converts a decimal major-unit amount (as exchanged
// with the external API) into minor units, rounding half away from zero
func NewMoneyFromDecimal(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		minor:    amount.Shift(minorUnitExponent).Round(0).IntPart(),
		currency: currency,
	}, nil
}

// NewMoneyIDR creates Money in IDR from minor units
func NewMoneyIDR(minorUnits int64) Money {
	return Money{minor: minorUnits, currency: IDR}
}

// NewMoneyIDRFromDecimal creates Money in IDR from a decimal major-unit amount
func NewMoneyIDRFromDecimal(amount decimal.Decimal) Money {
	return Money{
		minor:    amount.Shift(minorUnitExponent).Round(0).IntPart(),
		currency: IDR,
	}
}

// NewMoneyIDRFromString creates Money in IDR from a decimal string like "333.33"
func NewMoneyIDRFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoneyIDRFromDecimal(d), nil
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{minor: 0, currency: currency}
}

// ZeroIDR returns a zero-value Money in IDR
func ZeroIDR() Money {
	return Zero(IDR)
}

// MinorUnits returns the amount in integer minor units
func (m Money) MinorUnits() int64 {
	return m.minor
}

// Decimal returns the amount in major units for boundary exchange
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -minorUnitExponent)
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.minor == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.minor > 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.minor < 0
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{minor: m.minor + other.minor, currency: m.currency}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference
// Returns error if currencies don't match
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{minor: m.minor - other.minor, currency: m.currency}, nil
}

// MultiplyByInt returns a new Money multiplied by an integer factor.
// Exact for any quantity, no rounding involved.
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{minor: m.minor * factor, currency: m.currency}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{minor: -m.minor, currency: m.currency}
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.minor == other.minor
}

// LessThan returns true if this Money is less than the other
// Returns error if currencies don't match
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.minor < other.minor, nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(minorUnitExponent), m.currency)
}

// StringFixed returns the amount as a string with the standard number of decimal places
func (m Money) StringFixed() string {
	return m.Decimal().StringFixed(minorUnitExponent)
}
