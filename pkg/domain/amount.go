package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value stored in minor units (cents) with its currency tag.
// The zero Amount means "not recorded" (legacy imports carry no amount).
type Amount struct {
	Cents    int64
	Currency string
}

// MaxAmount is the exclusive upper bound of an amount typed by an operator.
var MaxAmount = decimal.NewFromInt(1_000_000)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// FitsCents reports whether value rounded to two places fits in minor units.
func FitsCents(value decimal.Decimal) bool {
	return value.Round(2).Shift(2).Abs().LessThanOrEqual(maxCents)
}

// NewAmount builds an Amount from a decimal value, rounding to two places.
func NewAmount(value decimal.Decimal, currency string) Amount {
	return Amount{
		Cents:    value.Round(2).Shift(2).IntPart(),
		Currency: currency,
	}
}

// IsZero reports whether no amount was recorded.
func (a Amount) IsZero() bool {
	return a.Cents == 0 && a.Currency == ""
}

// Decimal returns the value as a decimal with two places.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.Cents, -2)
}

// String renders the canonical form, e.g. "25.00 EUR".
func (a Amount) String() string {
	if a.IsZero() {
		return ""
	}
	return a.Decimal().StringFixed(2) + " " + a.Currency
}

// ParseAmount parses the canonical form produced by String.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, nil
	}
	value, currency, ok := strings.Cut(s, " ")
	if !ok || currency == "" {
		return Amount{}, fmt.Errorf("amount %q: missing currency tag", s)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("amount %q: %w", s, err)
	}
	if !FitsCents(d) {
		return Amount{}, fmt.Errorf("amount %q: out of range", s)
	}
	return NewAmount(d, strings.TrimSpace(currency)), nil
}

// MarshalJSON encodes the amount in its canonical string form.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes the canonical string form.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a string: %w", err)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
