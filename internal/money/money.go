// Package money provides the decimal amount type used by the ledger.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when user input is not a usable amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is an exact decimal amount. The zero value is 0.
// Values are immutable; every operation returns a new Money.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// FromInt returns an integral amount.
func FromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// FromFloat converts a float, keeping its shortest decimal representation.
func FromFloat(v float64) Money {
	return Money{d: decimal.NewFromFloat(v)}
}

// FromDecimal wraps a decimal value.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// Parse reads a signed decimal amount. A single comma followed by one or
// two digits is a decimal separator ("12,5"); any other comma groups
// thousands ("1,234.50", "1,234").
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}
	s = normalizeSeparators(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{d: d}, nil
}

func normalizeSeparators(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		if frac := s[strings.Index(s, ",")+1:]; len(frac) == 1 || len(frac) == 2 {
			return strings.Replace(s, ",", ".", 1)
		}
	}
	return strings.ReplaceAll(s, ",", "")
}

// ParsePositive reads an amount that must be strictly greater than zero.
func ParsePositive(s string) (Money, error) {
	m, err := Parse(s)
	if err != nil {
		return Zero, err
	}
	if !m.IsPositive() {
		return Zero, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	return m, nil
}

// MustParse is Parse for constants and tests. It panics on bad input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }
func (m Money) Neg() Money { return Money{d: m.d.Neg()} }
func (m Money) Abs() Money { return Money{d: m.d.Abs()} }

// MulInt multiplies by an integer factor.
func (m Money) MulInt(n int) Money {
	return Money{d: m.d.Mul(decimal.NewFromInt(int64(n)))}
}

// DivInt divides by an integer. Division by zero yields zero.
func (m Money) DivInt(n int) Money {
	if n == 0 {
		return Zero
	}
	return Money{d: m.d.Div(decimal.NewFromInt(int64(n)))}
}

// Ratio returns m/o as a float, or 0 when o is zero.
func (m Money) Ratio(o Money) float64 {
	if o.d.IsZero() {
		return 0
	}
	f, _ := m.d.Div(o.d).Float64()
	return f
}

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }
func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }
func (m Money) IsZero() bool { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// Round rounds half away from zero to the given number of places.
func (m Money) Round(places int32) Money {
	return Money{d: m.d.Round(places)}
}

// Float64 returns the nearest float for display or charting.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// Decimal exposes the underlying decimal.
func (m Money) Decimal() decimal.Decimal { return m.d }

// String returns the canonical representation without trailing zeros.
func (m Money) String() string { return m.d.String() }

// StringFixed renders with exactly places digits after the point.
func (m Money) StringFixed(places int32) string { return m.d.StringFixed(places) }

// Max returns the larger amount.
func Max(a, b Money) Money {
	if a.d.GreaterThanOrEqual(b.d) {
		return a
	}
	return b
}

// Min returns the smaller amount.
func Min(a, b Money) Money {
	if a.d.LessThanOrEqual(b.d) {
		return a
	}
	return b
}

// Sum adds all values.
func Sum(vals ...Money) Money {
	total := Zero
	for _, v := range vals {
		total = total.Add(v)
	}
	return total
}

// MarshalJSON encodes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts numbers, quoted numbers and null.
func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*m = Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	*m = Money{d: d}
	return nil
}
