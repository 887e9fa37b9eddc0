// Package registry holds the FTL function-call contract: the closed Value
// sum type functions exchange, the Signature record describing arity and
// parameter mapping, and the RWMutex-guarded Registry that stores and
// validates registered functions including the NUMBER/DATETIME/CURRENCY
// built-ins.
package registry

import (
	"time"

	"github.com/shopspring/decimal"
)

// Value is the closed set of types that can cross a function-call
// boundary: literal string/number/bool arguments, and the return types a
// built-in or user function produces.
type Value interface {
	isValue()
}

// StringValue is a plain text value (string literal arguments, DATETIME's
// return, etc).
type StringValue string

func (StringValue) isValue() {}

// BoolValue is a boolean value (used for selector matching and some
// user-function arguments; never produced by a NumberLiteral).
type BoolValue bool

func (BoolValue) isValue() {}

// DecimalValue is an exact-precision numeric value before NUMBER/CURRENCY
// formatting is applied to it.
type DecimalValue struct {
	D decimal.Decimal
}

func (DecimalValue) isValue() {}

// DateTimeValue is a point in time passed to or returned from DATETIME.
type DateTimeValue struct {
	T time.Time
}

func (DateTimeValue) isValue() {}

// FluentNumber is NUMBER's and CURRENCY's return type: it carries both the
// exact decimal identity (so a subsequent SelectExpression can match it
// against variant keys/plural categories) and the locale-formatted display
// string, so the resolver never has to re-derive one from the other.
type FluentNumber struct {
	Value     decimal.Decimal
	Formatted string
	Precision int
}

func (FluentNumber) isValue() {}

// AsDecimal extracts the underlying decimal.Decimal from any Value that
// carries one (DecimalValue, FluentNumber), for selector/plural matching.
// The second return is false for values with no numeric identity.
func AsDecimal(v Value) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case DecimalValue:
		return t.D, true
	case FluentNumber:
		return t.Value, true
	default:
		return decimal.Decimal{}, false
	}
}

// DisplayString renders v the way the resolver substitutes it into pattern
// text: FluentNumber and DateTimeValue already carry/compute a display
// form, everything else is a direct textual conversion.
func DisplayString(v Value) string {
	switch t := v.(type) {
	case StringValue:
		return string(t)
	case BoolValue:
		if t {
			return "true"
		}
		return "false"
	case DecimalValue:
		return t.D.String()
	case FluentNumber:
		return t.Formatted
	case DateTimeValue:
		return t.T.Format(time.RFC3339)
	default:
		return ""
	}
}
