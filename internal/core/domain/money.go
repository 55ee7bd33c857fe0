package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (centavos). All balance arithmetic is integer arithmetic.
type Money int64

// maxMoney bounds parsed amounts well inside int64 so sums cannot overflow.
const maxMoney = Money(1_000_000_000_000_00)

var hundred = decimal.NewFromInt(100)

// ParseMoney parses a decimal string such as "15" or "15.50".
// More than two fractional digits is rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal amount", apperrors.ErrInvalidAmount, s)
	}
	return MoneyFromDecimal(d)
}

// MustParseMoney is ParseMoney for constants and tests.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromDecimal converts d to minor units.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Mul(hundred)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than two decimal places", apperrors.ErrInvalidAmount, d.String())
	}
	if minor.Abs().GreaterThan(decimal.NewFromInt(int64(maxMoney))) {
		return 0, fmt.Errorf("%w: %s is out of range", apperrors.ErrInvalidAmount, d.String())
	}
	return Money(minor.IntPart()), nil
}

// Decimal returns m in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// RequirePositive returns ErrInvalidAmount unless m > 0.
func (m Money) RequirePositive() error {
	if m <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, m)
	}
	return nil
}

// MarshalJSON encodes m as a decimal string, e.g. "15.00".
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err)
		}
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
