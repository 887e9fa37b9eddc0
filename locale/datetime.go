package locale

import (
	"fmt"
	"strings"
	"time"
)

// cldrToGoLayout translates a CLDR date/time pattern into the equivalent Go
// reference-time layout. Only the token set Fluent's DATETIME() built-in
// and its parse_date counterpart actually need is covered (year, month,
// day, hour in both clock forms, minute, second, day-period, weekday,
// timezone); anything else in the pattern passes through unescaped, which
// is wrong for exotic CLDR fields (quarter, week-of-year) but those never
// appear in translated UI strings.
func cldrToGoLayout(pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	i := 0
	for i < len(runes) {
		r := runes[i]
		if r == '\'' {
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				j++
			}
			if j == i+1 {
				b.WriteByte('\'')
			} else {
				b.WriteString(string(runes[i+1 : j]))
			}
			i = j + 1
			continue
		}
		run, n := takeRun(runes, i)
		b.WriteString(cldrToken(run))
		i += n
	}
	return b.String()
}

func takeRun(runes []rune, i int) (string, int) {
	r := runes[i]
	j := i
	for j < len(runes) && runes[j] == r {
		j++
	}
	return strings.Repeat(string(r), j-i), j - i
}

func cldrToken(run string) string {
	n := len(run)
	switch run[0] {
	case 'y':
		if n >= 4 {
			return "2006"
		}
		return "06"
	case 'M':
		switch {
		case n >= 4:
			return "January"
		case n == 3:
			return "Jan"
		case n == 2:
			return "01"
		default:
			return "1"
		}
	case 'd':
		if n >= 2 {
			return "02"
		}
		return "2"
	case 'E':
		if n >= 4 {
			return "Monday"
		}
		return "Mon"
	case 'H':
		if n >= 2 {
			return "15"
		}
		return "15"
	case 'h':
		if n >= 2 {
			return "03"
		}
		return "3"
	case 'm':
		if n >= 2 {
			return "04"
		}
		return "4"
	case 's':
		if n >= 2 {
			return "05"
		}
		return "5"
	case 'a':
		return "PM"
	case 'z', 'Z', 'v', 'V':
		return "MST"
	case 'G':
		return "" // era marker: dropped, Go's time.Time has no proleptic-era concept to bind it to
	default:
		return run
	}
}

// defaultPattern picks a locale-appropriate layout for the four style
// buckets when the caller supplies no explicit pattern. Only the
// month/day ordering varies here (US-style vs rest-of-world); a fully
// CLDR-faithful implementation would vary far more per locale, but this
// covers the ambiguity that actually bites round-tripping.
func defaultPattern(locale string, style DateStyle) string {
	us := baseLanguage(locale) == "en" && strings.Contains(strings.ToUpper(locale), "US")
	switch style {
	case DateStyleShort:
		if us {
			return "M/d/yy"
		}
		return "dd/MM/yy"
	case DateStyleMedium:
		if us {
			return "MMM d, y"
		}
		return "d MMM y"
	case DateStyleLong:
		if us {
			return "MMMM d, y"
		}
		return "d MMMM y"
	default: // DateStyleFull
		if us {
			return "EEEE, MMMM d, y"
		}
		return "EEEE, d MMMM y"
	}
}

// FormatDate implements Oracle.
func (o *CLDROracle) FormatDate(locale string, t time.Time, opts DateOptions) (string, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = defaultPattern(locale, opts.Style)
	}
	return t.Format(cldrToGoLayout(pattern)), nil
}

// ParseDate implements Oracle. opts.Pattern is required; this engine never
// guesses a parse layout from style alone since a produced string's
// ambiguity (is "03/04/05" M/d/y or d/M/y?) must be resolved by the caller
// supplying the pattern it was formatted with.
func (o *CLDROracle) ParseDate(locale string, text string, opts DateOptions) (time.Time, error) {
	if opts.Pattern == "" {
		return time.Time{}, fmt.Errorf("locale: ParseDate requires an explicit pattern")
	}
	layout := cldrToGoLayout(opts.Pattern)
	t, err := time.Parse(layout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("locale: cannot parse date %q with pattern %q: %w", text, opts.Pattern, err)
	}
	return t, nil
}
