package domain

import "github.com/shopspring/decimal"

// tolerance is the maximum absolute difference at which two Money values
// are considered equal for invariant-checking purposes (spec §3).
var tolerance = decimal.NewFromFloat(0.01)

// Money is a signed decimal quantity with at least 2 fractional digits of
// precision. It is never represented as a binary float; all arithmetic goes
// through shopspring/decimal.
type Money struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{d: decimal.Zero}

// NewMoney builds a Money from a decimal.Decimal, rounded to the cent using
// half-away-from-zero rounding.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d.Round(2)}
}

// MoneyFromFloat builds a Money from a float64 literal. Only safe to use for
// fixture/test construction, never for values derived from external input.
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// MoneyFromCents builds a Money from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -2)}
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(other Money) Money { return NewMoney(m.d.Add(other.d)) }
func (m Money) Sub(other Money) Money { return NewMoney(m.d.Sub(other.d)) }
func (m Money) Neg() Money            { return NewMoney(m.d.Neg()) }

// MulInt multiplies by an integer, exactly (no rounding needed for integer
// multiplication beyond the invariant 2-decimal representation).
func (m Money) MulInt(n int64) Money { return NewMoney(m.d.Mul(decimal.NewFromInt(n))) }

// MulRate multiplies by a decimal fraction (e.g. a VAT rate of 0.20),
// rounding half-away-from-zero at the cent.
func (m Money) MulRate(rate decimal.Decimal) Money { return NewMoney(m.d.Mul(rate)) }

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }

// Abs returns the absolute value.
func (m Money) Abs() Money { return Money{d: m.d.Abs()} }

// Equal reports exact equality (same rounded cent value).
func (m Money) Equal(other Money) bool { return m.d.Equal(other.d) }

// WithinTolerance reports whether |m - other| <= 0.01, the comparison the
// invariant checker uses throughout.
func (m Money) WithinTolerance(other Money) bool {
	return m.d.Sub(other.d).Abs().LessThanOrEqual(tolerance)
}

func (m Money) String() string { return m.d.StringFixed(2) }

// MarshalJSON renders Money as a JSON number with two decimal places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.StringFixed(2)), nil
}

// UnmarshalJSON parses a JSON number (or numeric string) into Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

// SumMoney adds up a slice of Money values.
func SumMoney(vs []Money) Money {
	total := Zero
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}
