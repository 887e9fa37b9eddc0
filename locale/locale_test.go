package locale

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPluralCategory_English(t *testing.T) {
	o := NewCLDROracle()
	cases := map[string]PluralCategory{
		"0": Other, "1": One, "2": Other, "1.0": Other, "21": Other,
	}
	for n, want := range cases {
		got := o.PluralCategory("en", dec(n))
		if got != want {
			t.Errorf("PluralCategory(en, %s) = %s, want %s", n, got, want)
		}
	}
}

func TestPluralCategory_RussianSlavic(t *testing.T) {
	o := NewCLDROracle()
	cases := map[string]PluralCategory{
		"1": One, "2": Few, "3": Few, "4": Few, "5": Many, "11": Many, "21": One, "25": Many,
	}
	for n, want := range cases {
		got := o.PluralCategory("ru", dec(n))
		if got != want {
			t.Errorf("PluralCategory(ru, %s) = %s, want %s", n, got, want)
		}
	}
}

func TestPluralCategory_French(t *testing.T) {
	o := NewCLDROracle()
	cases := map[string]PluralCategory{"0": One, "1": One, "2": Other, "3": Other}
	for n, want := range cases {
		got := o.PluralCategory("fr", dec(n))
		if got != want {
			t.Errorf("PluralCategory(fr, %s) = %s, want %s", n, got, want)
		}
	}
}

func TestPluralCategory_Arabic(t *testing.T) {
	o := NewCLDROracle()
	cases := map[string]PluralCategory{
		"0": Zero, "1": One, "2": Two, "3": Few, "11": Many, "100": Other,
	}
	for n, want := range cases {
		got := o.PluralCategory("ar", dec(n))
		if got != want {
			t.Errorf("PluralCategory(ar, %s) = %s, want %s", n, got, want)
		}
	}
}

func TestPluralCategory_ChineseHasNoInflection(t *testing.T) {
	o := NewCLDROracle()
	for _, n := range []string{"0", "1", "2", "100"} {
		if got := o.PluralCategory("zh", dec(n)); got != Other {
			t.Errorf("PluralCategory(zh, %s) = %s, want other", n, got)
		}
	}
}

func TestPluralCategory_UnknownLanguageFallsBackToOther(t *testing.T) {
	o := NewCLDROracle()
	if got := o.PluralCategory("xx-YY", dec("1")); got != Other {
		t.Errorf("PluralCategory(xx-YY, 1) = %s, want other (safe default)", got)
	}
}

func TestValidateLocale(t *testing.T) {
	o := NewCLDROracle()
	wellFormed, known, extended := o.ValidateLocale("en-US")
	if !wellFormed || !known || extended {
		t.Errorf("ValidateLocale(en-US) = (%v, %v, %v), want (true, true, false)", wellFormed, known, extended)
	}
	wellFormed, _, _ = o.ValidateLocale("not a locale!")
	if wellFormed {
		t.Errorf("ValidateLocale(%q) well-formed = true, want false", "not a locale!")
	}
	wellFormed, _, _ = o.ValidateLocale("")
	if wellFormed {
		t.Errorf("ValidateLocale(\"\") well-formed = true, want false")
	}
}

func TestValidateLocale_ExtendedLengthRange(t *testing.T) {
	o := NewCLDROracle()
	long := "x-" + strings.Repeat("a", 40) // 42 chars: within (35, 1000], well past CLDR recognition
	wellFormed, _, extended := o.ValidateLocale(long)
	if !wellFormed || !extended {
		t.Errorf("ValidateLocale(%d-char code) = (wellFormed=%v, extended=%v), want (true, true)", len(long), wellFormed, extended)
	}
	tooLong := strings.Repeat("a", 1001)
	wellFormed, _, extended = o.ValidateLocale(tooLong)
	if wellFormed || extended {
		t.Errorf("ValidateLocale(%d-char code) = (wellFormed=%v, extended=%v), want (false, false)", len(tooLong), wellFormed, extended)
	}
}

func TestFormatNumber_RoundTrip(t *testing.T) {
	o := NewCLDROracle()
	for _, locale := range []string{"en-US", "de-DE", "fr-FR"} {
		n := dec("1234567.5")
		formatted, err := o.FormatNumber(locale, n, NumberOptions{MaximumFractionDigits: 2, UseGrouping: true})
		if err != nil {
			t.Fatalf("FormatNumber(%s) error = %v", locale, err)
		}
		parsed, err := o.ParseNumber(locale, formatted)
		if err != nil {
			t.Fatalf("ParseNumber(%s, %q) error = %v", locale, formatted, err)
		}
		if !parsed.Equal(n) {
			t.Errorf("round trip %s: got %s, want %s (formatted as %q)", locale, parsed, n, formatted)
		}
	}
}

func TestFormatNumber_MinimumFractionDigits(t *testing.T) {
	o := NewCLDROracle()
	got, err := o.FormatNumber("en-US", dec("3"), NumberOptions{MinimumFractionDigits: 2, MaximumFractionDigits: 2})
	if err != nil {
		t.Fatalf("FormatNumber() error = %v", err)
	}
	if got != "3.00" {
		t.Errorf("FormatNumber(3, min=2) = %q, want \"3.00\"", got)
	}
}

func TestFormatNumber_RoundHalfUp(t *testing.T) {
	o := NewCLDROracle()
	got, err := o.FormatNumber("en-US", dec("1.005"), NumberOptions{MinimumFractionDigits: 2, MaximumFractionDigits: 2})
	if err != nil {
		t.Fatalf("FormatNumber() error = %v", err)
	}
	if got != "1.01" {
		t.Errorf("FormatNumber(1.005, 2dp) = %q, want \"1.01\" (round-half-up)", got)
	}
}

func TestFormatCurrency_AmbiguousSymbolRoundTrip(t *testing.T) {
	o := NewCLDROracle()
	formatted, err := o.FormatCurrency("en-US", dec("19.99"), CurrencyOptions{Code: "USD", DisplaySymbol: true})
	if err != nil {
		t.Fatalf("FormatCurrency() error = %v", err)
	}
	if formatted != "$19.99" {
		t.Errorf("FormatCurrency(en-US, 19.99, USD) = %q, want \"$19.99\"", formatted)
	}

	code, amount, err := o.ParseCurrency("en-US", formatted)
	if err != nil {
		t.Fatalf("ParseCurrency(%q) error = %v", formatted, err)
	}
	if code != "USD" || !amount.Equal(dec("19.99")) {
		t.Errorf("ParseCurrency(%q) = (%s, %s), want (USD, 19.99)", formatted, code, amount)
	}
}

func TestParseCurrency_AmbiguousKronaResolvesBySwedishLocale(t *testing.T) {
	o := NewCLDROracle()
	code, amount, err := o.ParseCurrency("sv-SE", "199 kr")
	if err != nil {
		t.Fatalf("ParseCurrency() error = %v", err)
	}
	if code != "SEK" || !amount.Equal(dec("199")) {
		t.Errorf("ParseCurrency(sv-SE, 199 kr) = (%s, %s), want (SEK, 199)", code, amount)
	}
}

func TestParseCurrency_AmbiguousKronaResolvesByNorwegianLocale(t *testing.T) {
	o := NewCLDROracle()
	code, _, err := o.ParseCurrency("nb-NO", "199 kr")
	if err != nil {
		t.Fatalf("ParseCurrency() error = %v", err)
	}
	if code != "NOK" {
		t.Errorf("ParseCurrency(nb-NO, 199 kr) code = %s, want NOK", code)
	}
}

func TestFormatCurrency_UnknownCodeErrors(t *testing.T) {
	o := NewCLDROracle()
	if _, err := o.FormatCurrency("en-US", dec("1"), CurrencyOptions{Code: "ZZZ"}); err == nil {
		t.Errorf("FormatCurrency(ZZZ) error = nil, want error")
	}
}

func TestFormatDate_AndParseRoundTrip(t *testing.T) {
	o := NewCLDROracle()
	ref := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	opts := DateOptions{Pattern: "yyyy-MM-dd"}
	formatted, err := o.FormatDate("en-US", ref, opts)
	if err != nil {
		t.Fatalf("FormatDate() error = %v", err)
	}
	if formatted != "2024-03-05" {
		t.Errorf("FormatDate() = %q, want \"2024-03-05\"", formatted)
	}
	parsed, err := o.ParseDate("en-US", formatted, opts)
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if !parsed.Equal(ref) {
		t.Errorf("ParseDate() = %v, want %v", parsed, ref)
	}
}

func TestParseDate_RequiresPattern(t *testing.T) {
	o := NewCLDROracle()
	if _, err := o.ParseDate("en-US", "2024-03-05", DateOptions{}); err == nil {
		t.Errorf("ParseDate() with no pattern error = nil, want error")
	}
}
