// Package fluentnum centralizes the Decimal-backed numeric representation
// shared by the AST (NumberLiteral), the locale bindings (plural operand
// computation, rounding), and the resolver (FluentNumber, exact variant
// matching). Keeping one Decimal helper package avoids every other package
// re-deriving rounding/precision rules.
package fluentnum

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRaw parses a number literal's raw source text (as accepted by the
// FTL grammar: optional '-', digits, optional '.', digits) into a Decimal,
// preserving full precision. The raw string, not a float64 round-trip, is
// authoritative for variant-key comparisons.
func ParseRaw(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}

// FixedString renders d without scientific notation, at its own natural
// precision (the number of digits present in its Exponent), which is what
// variant-key and plural-operand computation compare against — CLDR's
// plural rules are defined over the decimal's visible digit count, not an
// arbitrary one.
func FixedString(d decimal.Decimal) string {
	s := d.String()
	// decimal.String() never emits scientific notation, but guard anyway
	// since callers rely on this invariant for display/variant matching.
	if strings.ContainsAny(s, "eE") {
		if d.Exponent() >= 0 {
			return d.StringFixed(0)
		}
		return d.StringFixed(-d.Exponent())
	}
	return s
}

// Precision returns the number of digits after the decimal point visible in
// d's literal representation — the CLDR 'v' operand used by plural rule
// evaluation (NUMBER(x, minimumFractionDigits) quantizes to this first).
func Precision(d decimal.Decimal) int {
	exp := d.Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}

// FractionDigits returns the decimal digits after the point as a string of
// exactly Precision(d) digits (zero-padded), the CLDR 'f' operand.
func FractionDigits(d decimal.Decimal) string {
	p := Precision(d)
	if p == 0 {
		return ""
	}
	s := d.Abs().StringFixed(int32(p))
	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return strings.Repeat("0", p)
	}
	return s[idx+1:]
}

// QuantizeToPrecision rounds d to exactly `precision` fractional digits
// using ROUND_HALF_UP semantics (never banker's rounding), as required for
// all number/date/currency formatting in this engine.
func QuantizeToPrecision(d decimal.Decimal, precision int) decimal.Decimal {
	return roundHalfUp(d, int32(precision))
}

// roundHalfUp rounds away from zero at the half, rather than to even
// (shopspring/decimal's Round uses banker's rounding for ties, which this
// engine must not use).
func roundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	neg := d.Sign() < 0
	abs := d.Abs()
	shifted := abs.Shift(places)
	// Add 0.5 then truncate toward zero — the textbook half-up
	// implementation, exact because Shift only moves the decimal point.
	half := decimal.NewFromFloat(0.5)
	rounded := shifted.Add(half).Truncate(0)
	result := rounded.Shift(-places)
	if neg {
		result = result.Neg()
	}
	return result
}

// Equal reports whether two number literals denote the same decimal value,
// regardless of textual form ([1] and [1.0] are equal).
func Equal(a, b decimal.Decimal) bool {
	return a.Equal(b)
}

// IsInteger reports whether d has no fractional part.
func IsInteger(d decimal.Decimal) bool {
	return d.Exponent() >= 0 || d.Equal(d.Truncate(0))
}
