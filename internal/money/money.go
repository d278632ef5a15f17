// Package money provides integer-cent arithmetic for prices and totals.
// Amounts are never represented as floating point anywhere in the service.
package money

import (
	"errors"
	"fmt"
	"math"
)

// ErrArithmetic is returned when an operation would overflow or produce a
// negative amount.
var ErrArithmetic = errors.New("arithmetic_error")

// Money is a non-negative amount in minor currency units (cents).
type Money struct {
	cents int64
}

// Zero is the zero amount.
var Zero = Money{}

// FromCents builds a Money from an integer cent amount.
func FromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrArithmetic
	}
	return Money{cents: cents}, nil
}

// MustFromCents builds a Money and panics on negative input. Reserved for
// constants and tests.
func MustFromCents(cents int64) Money {
	m, err := FromCents(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 { return m.cents }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.cents == 0 }

// Add returns m + other, failing on overflow.
func (m Money) Add(other Money) (Money, error) {
	if m.cents > math.MaxInt64-other.cents {
		return Money{}, ErrArithmetic
	}
	return Money{cents: m.cents + other.cents}, nil
}

// MulQty returns m × qty, failing on non-positive quantities and overflow.
func (m Money) MulQty(qty int64) (Money, error) {
	if qty <= 0 {
		return Money{}, ErrArithmetic
	}
	if m.cents != 0 && qty > math.MaxInt64/m.cents {
		return Money{}, ErrArithmetic
	}
	return Money{cents: m.cents * qty}, nil
}

// Cmp compares two amounts, returning -1, 0 or 1.
func (m Money) Cmp(other Money) int {
	switch {
	case m.cents < other.cents:
		return -1
	case m.cents > other.cents:
		return 1
	default:
		return 0
	}
}

// GTE reports whether m >= other.
func (m Money) GTE(other Money) bool { return m.Cmp(other) >= 0 }

// Display renders the amount as a dollar string, e.g. "$74.00".
func (m Money) Display() string {
	return fmt.Sprintf("$%d.%02d", m.cents/100, m.cents%100)
}
