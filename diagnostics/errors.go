package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/fluentcore/ftl/internal/cursor"
)

// ParseErr is the typed error returned when the parser hits a condition it
// cannot express as Junk (size limit, depth limit) rather than the usual
// errors-as-data Junk/Diagnostic path. Named distinctly from the ParseError
// Code constant above (Go forbids a const and a type sharing one identifier
// in the same package).
type ParseErr struct {
	Code     Code
	Message  string
	Context  string
	Position cursor.Position
}

func (e *ParseErr) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s at %d:%d (%s): %s", e.Code, e.Position.Line, e.Position.Column, e.Context, e.Message)
	}
	return fmt.Sprintf("%s at %d:%d: %s", e.Code, e.Position.Line, e.Position.Column, e.Message)
}

// SizeLimitError wraps internal/cursor's SizeError so parser callers see a
// single error family.
type SizeLimitError struct {
	Cause *cursor.SizeError
}

func (e *SizeLimitError) Error() string { return e.Cause.Error() }
func (e *SizeLimitError) Unwrap() error { return e.Cause }

// FormattingErr is raised by a built-in formatting helper (NUMBER, DATETIME,
// CURRENCY, and the locale-aware parse_* functions) at the point the
// underlying value cannot be formatted. The resolver catches it at the
// placeable boundary and substitutes FallbackValue, recording the
// Diagnostic in the ResolutionContext's error list; it never propagates past
// a single placeable evaluation in non-strict mode. Named distinctly from
// the FormattingError Code constant above (Go forbids a const and a type
// sharing one identifier in the same package).
type FormattingErr struct {
	Code          Code
	Message       string
	FallbackValue string
	ParseType     string // "decimal" | "number" | "currency" | "date" | "datetime", empty if not a parse_* call
	InputValue    string
}

func (e *FormattingErr) Error() string {
	if e.ParseType != "" {
		return fmt.Sprintf("%s: %s (parse_type=%s, input=%q)", e.Code, e.Message, e.ParseType, e.InputValue)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// SyntaxIntegrityError is raised at the Bundle.add_resource boundary in
// strict mode when the parsed resource contains Junk.
type SyntaxIntegrityError struct {
	Junk         int // count of Junk entries
	Diagnostics  []Diagnostic
	FallbackText string
}

func (e *SyntaxIntegrityError) Error() string {
	return fmt.Sprintf("resource contains %d junk entr(y/ies): %d diagnostics", e.Junk, len(e.Diagnostics))
}

// FormattingIntegrityError is raised at the Bundle.format_pattern boundary
// in strict mode when resolution produced a non-empty error list. It always
// carries the fallback string non-strict mode would have returned, so a
// strict caller that wants the degraded output can still recover it.
type FormattingIntegrityError struct {
	MessageID    string
	Diagnostics  []Diagnostic
	FallbackValue string
}

func (e *FormattingIntegrityError) Error() string {
	codes := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		codes = append(codes, string(d.Code))
	}
	return fmt.Sprintf("format_pattern(%q): %s", e.MessageID, strings.Join(codes, ", "))
}

// LocaleDataUnavailable is reported when the underlying CLDR data library
// cannot supply plural rules or formatting patterns for a locale that
// otherwise passed shape validation — e.g. a registered-but-unsupported
// BCP-47 tag. Distinct from a malformed locale code, which fails earlier
// as a typed validation error.
type LocaleDataUnavailable struct {
	Locale string
	Reason string
}

func (e *LocaleDataUnavailable) Error() string {
	return fmt.Sprintf("locale data unavailable for %q: %s", e.Locale, e.Reason)
}

// Suggest returns the closest candidate to name by bounded Levenshtein
// distance (did-you-mean diagnostics for the validator's
// UNDEFINED_REFERENCE and the resolver's FUNCTION_NOT_FOUND). Returns "" if
// nothing is within the distance bound
// or candidates is empty. maxDistance guards against suggesting across
// unrelated identifiers in a large bundle.
func Suggest(name string, candidates []string, maxDistance int) string {
	if len(candidates) == 0 {
		return ""
	}
	type scored struct {
		name string
		dist int
	}
	var best *scored
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(name, c)
		if d > maxDistance {
			continue
		}
		if best == nil || d < best.dist || (d == best.dist && c < best.name) {
			best = &scored{name: c, dist: d}
		}
	}
	if best == nil {
		return ""
	}
	return best.name
}

// SuggestN returns up to n closest candidates to name, sorted by distance
// then lexically, for diagnostics that want to list several possibilities
// rather than a single best guess.
func SuggestN(name string, candidates []string, maxDistance, n int) []string {
	type scored struct {
		name string
		dist int
	}
	var out []scored
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(name, c)
		if d <= maxDistance {
			out = append(out, scored{name: c, dist: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].dist != out[j].dist {
			return out[i].dist < out[j].dist
		}
		return out[i].name < out[j].name
	})
	if len(out) > n {
		out = out[:n]
	}
	names := make([]string, len(out))
	for i, s := range out {
		names[i] = s.name
	}
	return names
}
