// Package locale binds the engine's locale-aware behavior — plural category
// selection, number/date/currency formatting and parsing, and locale-code
// validation — behind a single injectable Oracle interface. CLDROracle is
// the default implementation, backed by golang.org/x/text, but callers that
// need deterministic tests or a narrower locale set can supply their own.
package locale

import (
	"time"

	"github.com/shopspring/decimal"
)

// PluralCategory is one of the six CLDR plural categories. Every locale
// supports at least "other"; which of the remaining five apply depends on
// the locale's plural rule family.
type PluralCategory string

const (
	Zero  PluralCategory = "zero"
	One   PluralCategory = "one"
	Two   PluralCategory = "two"
	Few   PluralCategory = "few"
	Many  PluralCategory = "many"
	Other PluralCategory = "other"
)

// NumberOptions controls NUMBER()-style formatting, mirroring the Fluent
// built-in's named arguments.
type NumberOptions struct {
	MinimumFractionDigits int
	MaximumFractionDigits int
	MinimumIntegerDigits  int
	UseGrouping           bool
}

// DefaultNumberOptions matches the Fluent NUMBER() built-in defaults: no
// forced fraction digits, grouping on.
func DefaultNumberOptions() NumberOptions {
	return NumberOptions{MaximumFractionDigits: 3, UseGrouping: true}
}

// CurrencyOptions controls CURRENCY()-style formatting.
type CurrencyOptions struct {
	// Code is the ISO 4217 currency code (e.g. "USD"). Required.
	Code string
	// DisplaySymbol selects the short symbol ("$") over the ISO code
	// ("USD") when the locale has one.
	DisplaySymbol bool
}

// DateOptions controls DATETIME()-style formatting. Pattern, if non-empty,
// is a CLDR date pattern ("yyyy-MM-dd"), translated token by token; otherwise
// Style picks a locale default length.
type DateStyle int

const (
	DateStyleShort DateStyle = iota
	DateStyleMedium
	DateStyleLong
	DateStyleFull
)

type DateOptions struct {
	Style   DateStyle
	Pattern string
}

// Oracle is every locale-aware operation the registry's built-in functions
// and the resolver's parse_* helpers need. Implementations must be safe for
// concurrent use; Bundle holds a single Oracle shared across goroutines.
type Oracle interface {
	// ValidateLocale reports whether code is a syntactically well-formed
	// locale identifier, whether it is recognized by this Oracle's CLDR
	// data, and whether it falls in the "extended" length range (36-1000
	// chars) that is accepted but worth a caller warning rather than the
	// silently-accepted "standard" range (<=35 chars). A syntactically
	// valid but unrecognized code is not an error by itself; callers decide
	// whether to reject or fall back.
	ValidateLocale(code string) (wellFormed bool, known bool, extended bool)

	// PluralCategory returns the CLDR cardinal plural category n falls into
	// for locale.
	PluralCategory(locale string, n decimal.Decimal) PluralCategory

	// FormatNumber renders n per opts, in locale's digit/grouping/decimal
	// conventions.
	FormatNumber(locale string, n decimal.Decimal, opts NumberOptions) (string, error)

	// ParseNumber parses locale-formatted text back into a Decimal.
	ParseNumber(locale string, text string) (decimal.Decimal, error)

	// FormatCurrency renders amount as opts.Code in locale's conventions.
	FormatCurrency(locale string, amount decimal.Decimal, opts CurrencyOptions) (string, error)

	// ParseCurrency parses locale-formatted currency text, resolving
	// ambiguous bare symbols ("$", "£", "kr") against locale's default
	// currency. Returns the ISO code and the parsed amount.
	ParseCurrency(locale string, text string) (code string, amount decimal.Decimal, err error)

	// FormatDate renders t per opts in locale's conventions.
	FormatDate(locale string, t time.Time, opts DateOptions) (string, error)

	// ParseDate parses locale-formatted date/time text using opts.Pattern
	// (required; ParseDate does not guess a style).
	ParseDate(locale string, text string, opts DateOptions) (time.Time, error)
}
