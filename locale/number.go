package locale

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/number"

	"github.com/fluentcore/ftl/internal/fluentnum"
)

// separators is the pair of symbols a locale uses for digit grouping and
// the decimal point.
type separators struct {
	group   string
	decimal string
}

var separatorCache sync.Map // map[language.Tag]separators

// localeSeparators learns locale's grouping and decimal separators by
// formatting a fixed probe value through golang.org/x/text/number and
// reading off the non-digit characters it inserts, rather than maintaining
// a hand-written table of every CLDR locale's symbols. The probe value's
// digits (1, 2, 3, 4, 5) never collide with a separator glyph, so whatever
// non-digit characters remain, in order, are exactly the group and decimal
// separators for a locale that groups its thousands.
func localeSeparators(tag language.Tag) separators {
	if v, ok := separatorCache.Load(tag); ok {
		return v.(separators)
	}
	p := newPrinter(tag)
	probe := p.Sprint(number.Decimal(1234.5))

	var nonDigits []string
	for _, r := range probe {
		if r < '0' || r > '9' {
			nonDigits = append(nonDigits, string(r))
		}
	}

	sep := separators{group: ",", decimal: "."}
	switch len(nonDigits) {
	case 1:
		sep = separators{group: "", decimal: nonDigits[0]}
	case 2:
		sep = separators{group: nonDigits[0], decimal: nonDigits[1]}
	}
	separatorCache.Store(tag, sep)
	return sep
}

// FormatNumber implements Oracle. The digit string itself is produced by
// fluentnum (exact Decimal rounding, ROUND_HALF_UP, never the float64
// round-trip x/text/number's own API would otherwise require); x/text only
// supplies the locale's grouping and decimal symbols, which are then
// spliced onto our digit string.
func (o *CLDROracle) FormatNumber(locale string, n decimal.Decimal, opts NumberOptions) (string, error) {
	tag := resolveTag(locale)
	sep := localeSeparators(tag)

	max := opts.MaximumFractionDigits
	if max == 0 && opts.MinimumFractionDigits == 0 {
		max = 3
	}
	rounded := fluentnum.QuantizeToPrecision(n, max)

	neg := rounded.Sign() < 0
	abs := rounded.Abs()

	intPart := abs.Truncate(0).String()
	fracDigits := fluentnum.FractionDigits(abs)
	fracDigits = padOrTrim(fracDigits, opts.MinimumFractionDigits, max)

	for len(intPart) < opts.MinimumIntegerDigits {
		intPart = "0" + intPart
	}

	if opts.UseGrouping && sep.group != "" {
		intPart = groupDigits(intPart, sep.group)
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if fracDigits != "" {
		b.WriteString(sep.decimal)
		b.WriteString(fracDigits)
	}
	return b.String(), nil
}

// padOrTrim truncates digits down to max, drops trailing zeros beyond min
// (so 5 renders as "5", not "5.000", when no minimum was requested), and
// pads with trailing zeros up to min.
func padOrTrim(digits string, min, max int) string {
	if len(digits) > max {
		digits = digits[:max]
	}
	for len(digits) > min && strings.HasSuffix(digits, "0") {
		digits = digits[:len(digits)-1]
	}
	for len(digits) < min {
		digits += "0"
	}
	return digits
}

func groupDigits(digits, sep string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	n := len(digits)
	if n <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	var parts []string
	for n > 3 {
		parts = append([]string{digits[n-3:]}, parts...)
		digits = digits[:n-3]
		n = len(digits)
	}
	parts = append([]string{digits}, parts...)
	result := strings.Join(parts, sep)
	if neg {
		return "-" + result
	}
	return result
}

// ParseNumber implements Oracle. It strips locale grouping separators (for a
// locale that groups with a space, any of space, no-break space and narrow
// no-break space) and normalizes the locale's decimal separator to '.' before delegating to
// fluentnum.ParseRaw, so the result carries exact Decimal precision rather
// than a float64 round-trip.
func (o *CLDROracle) ParseNumber(locale string, text string) (decimal.Decimal, error) {
	tag := resolveTag(locale)
	sep := localeSeparators(tag)

	text = strings.TrimSpace(text)
	if sep.group != "" {
		text = strings.ReplaceAll(text, sep.group, "")
		if strings.TrimSpace(sep.group) == "" {
			for _, space := range []string{" ", " ", " "} {
				text = strings.ReplaceAll(text, space, "")
			}
		}
	}
	if sep.decimal != "." {
		text = strings.ReplaceAll(text, sep.decimal, ".")
	}
	if text == "" {
		return decimal.Zero, fmt.Errorf("locale: empty number text")
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return decimal.Zero, fmt.Errorf("locale: cannot parse number %q: %w", text, err)
	}
	return fluentnum.ParseRaw(text)
}
