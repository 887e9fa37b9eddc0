package locale

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// localeShape matches a BCP-47-ish locale identifier: one or more
// alphanumeric subtags separated by '_' or '-'. This is deliberately looser
// than full BCP-47 (no script/variant-position enforcement) since Fluent
// locale codes in the wild include legacy forms like "en_US".
var localeShape = regexp.MustCompile(`^[a-zA-Z0-9]+([_-][a-zA-Z0-9]+)*$`)

const (
	maxLocaleLength         = 35
	maxLocaleLengthExtended = 1000
)

// ValidateLocale reports whether code has the shape of a locale identifier,
// whether golang.org/x/text/language recognizes it, and whether its length
// falls in the 36-1000 char "extended" range. A code longer than
// maxLocaleLength but within maxLocaleLengthExtended is still accepted as
// well-formed (callers should surface extended as a warning, not a hard
// rejection); anything past maxLocaleLengthExtended is always malformed.
func (o *CLDROracle) ValidateLocale(code string) (wellFormed bool, known bool, extended bool) {
	if code == "" || len(code) > maxLocaleLengthExtended {
		return false, false, false
	}
	if !localeShape.MatchString(code) {
		return false, false, false
	}
	wellFormed = true
	extended = len(code) > maxLocaleLength

	tag, err := language.Parse(normalizeLocale(code))
	if err != nil {
		return wellFormed, false, extended
	}
	return wellFormed, tag != language.Und, extended
}

// normalizeLocale rewrites underscore separators to hyphens, the form
// golang.org/x/text/language.Parse expects, without otherwise touching
// casing (language.Parse normalizes that itself).
func normalizeLocale(code string) string {
	return strings.ReplaceAll(code, "_", "-")
}

// resolveTag parses locale into a language.Tag, falling back to
// language.Und (which x/text treats as "unknown", triggering root/default
// CLDR data) rather than erroring, matching this engine's graceful
// degradation stance for locale-aware formatting.
func resolveTag(locale string) language.Tag {
	tag, err := language.Parse(normalizeLocale(locale))
	if err != nil {
		return language.Und
	}
	return tag
}
