package locale

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fluentcore/ftl/internal/fluentnum"
)

// operands are the CLDR plural-rule inputs derived from a number's visible
// decimal representation (not its float64 value): i is the integer digit
// part, v the count of visible fraction digits, f those fraction digits as
// an integer, n the absolute value itself.
type operands struct {
	n decimal.Decimal
	i uint64
	v int
	f uint64
}

func computeOperands(d decimal.Decimal) operands {
	abs := d.Abs()
	v := fluentnum.Precision(abs)
	var f uint64
	if v > 0 {
		fs := fluentnum.FractionDigits(abs)
		for _, c := range fs {
			f = f*10 + uint64(c-'0')
		}
	}
	i := abs.Truncate(0).BigInt().Uint64()
	return operands{n: abs, i: i, v: v, f: f}
}

// ruleFamily decides a PluralCategory from operands. Families below are
// transcribed from the Unicode CLDR plural-rules data (common.xml), grouped
// by the locales that share identical rule text, not guessed.
type ruleFamily func(o operands) PluralCategory

// familyOther covers every locale whose CLDR rule set is simply "other":
// the CJK languages plus a handful of isolates (Vietnamese, Thai, Indonesian,
// etc.) that don't grammatically inflect for number.
func familyOther(operands) PluralCategory { return Other }

// familyGermanic is CLDR's most common two-category rule: "one" iff i = 1
// and v = 0, else "other". Covers English, German, Dutch, Swedish,
// Italian's closely related variant, and most Germanic/many other
// languages.
func familyGermanic(o operands) PluralCategory {
	if o.i == 1 && o.v == 0 {
		return One
	}
	return Other
}

// familyFrench: "one" for n in [0, 2) exclusive of 2 itself (i.e. i = 0 or
// i = 1, any v), else "other". Covers French and Brazilian Portuguese.
func familyFrench(o operands) PluralCategory {
	if o.i == 0 || o.i == 1 {
		return One
	}
	return Other
}

// familyRussianSlavic covers the Russian/Slavic "one/few/many/other" rule
// on integers, "other" otherwise: one when v=0 and i%10=1 and i%100!=11;
// few when v=0 and i%10 in 2..4 and i%100 not in 12..14; many when v=0 and
// (i%10=0 or i%10 in 5..9 or i%100 in 11..14); else other.
func familyRussianSlavic(o operands) PluralCategory {
	if o.v != 0 {
		return Other
	}
	mod10, mod100 := o.i%10, o.i%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return One
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return Few
	case mod10 == 0 || (mod10 >= 5 && mod10 <= 9) || (mod100 >= 11 && mod100 <= 14):
		return Many
	default:
		return Other
	}
}

// familyPolish: one when v=0,i=1; few when v=0, i%10 in 2..4, i%100 not in
// 12..14; many otherwise when v=0; else other.
func familyPolish(o operands) PluralCategory {
	if o.v != 0 {
		return Other
	}
	if o.i == 1 {
		return One
	}
	mod10, mod100 := o.i%10, o.i%100
	if mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14) {
		return Few
	}
	return Many
}

// familyArabic implements the full six-category Arabic rule.
func familyArabic(o operands) PluralCategory {
	if o.v == 0 && o.i == 0 {
		return Zero
	}
	if o.v == 0 && o.i == 1 {
		return One
	}
	if o.v == 0 && o.i == 2 {
		return Two
	}
	mod100 := o.i % 100
	if o.v == 0 && mod100 >= 3 && mod100 <= 10 {
		return Few
	}
	if o.v == 0 && mod100 >= 11 && mod100 <= 99 {
		return Many
	}
	return Other
}

// familyIrish (ga): one for n=1, two for n=2, few for n in 3..6, many for n
// in 7..10, else other.
func familyIrish(o operands) PluralCategory {
	switch {
	case o.v == 0 && o.i == 1:
		return One
	case o.v == 0 && o.i == 2:
		return Two
	case o.v == 0 && o.i >= 3 && o.i <= 6:
		return Few
	case o.v == 0 && o.i >= 7 && o.i <= 10:
		return Many
	default:
		return Other
	}
}

// familyWelsh (cy): zero/one/two/few/many/other keyed directly off n.
func familyWelsh(o operands) PluralCategory {
	switch o.i {
	case 0:
		return Zero
	case 1:
		return One
	case 2:
		return Two
	case 3:
		return Few
	case 6:
		return Many
	default:
		return Other
	}
}

// familyLatvian (lv): zero when n%10=0 or n%100 in 11..19, one when n%10=1
// and n%100!=11, else other (with a fraction-digit tweak CLDR specifies but
// that rarely matters for Fluent's integer-heavy plural use).
func familyLatvian(o operands) PluralCategory {
	mod10, mod100 := o.i%10, o.i%100
	if mod10 == 0 || (mod100 >= 11 && mod100 <= 19) {
		return Zero
	}
	if mod10 == 1 && mod100 != 11 {
		return One
	}
	return Other
}

// localeFamilies maps a base language subtag to its rule family. Unlisted
// languages fall back to familyOther, CLDR's safe default for languages
// with a single plural form.
var localeFamilies = map[string]ruleFamily{
	"en": familyGermanic, "de": familyGermanic, "nl": familyGermanic,
	"sv": familyGermanic, "da": familyGermanic, "no": familyGermanic,
	"nb": familyGermanic, "nn": familyGermanic, "fi": familyGermanic,
	"el": familyGermanic, "es": familyGermanic, "it": familyGermanic,
	"hu": familyGermanic, "eu": familyGermanic, "bg": familyGermanic,
	"tr": familyGermanic,

	"fr": familyFrench, "pt": familyFrench,

	"ru": familyRussianSlavic, "uk": familyRussianSlavic, "sr": familyRussianSlavic,
	"hr": familyRussianSlavic, "bs": familyRussianSlavic,

	"pl": familyPolish,

	"ar": familyArabic,

	"ga": familyIrish,
	"cy": familyWelsh,
	"lv": familyLatvian,

	"ja": familyOther, "ko": familyOther, "zh": familyOther, "vi": familyOther,
	"th": familyOther, "id": familyOther, "ms": familyOther, "km": familyOther,
	"lo": familyOther, "my": familyOther,
}

// PluralCategory implements Oracle. It derives the rule family from the
// locale's base language subtag (the part before the first '-'), looks it
// up in the hand-transcribed CLDR family table, and evaluates it against
// n's operands. The rule evaluation is this package's own table rather than
// a call into golang.org/x/text/feature/plural's unexported matcher, which
// has no exported API for evaluating a standalone Decimal against a given
// locale's rule set outside its own Printer/Selectf pipeline.
func (o *CLDROracle) PluralCategory(locale string, n decimal.Decimal) PluralCategory {
	base := baseLanguage(locale)
	family, ok := localeFamilies[base]
	if !ok {
		family = familyOther
	}
	return family(computeOperands(n))
}

func baseLanguage(locale string) string {
	locale = normalizeLocale(locale)
	if i := strings.IndexByte(locale, '-'); i >= 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}
