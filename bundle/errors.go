package bundle

import (
	"fmt"

	"github.com/fluentcore/ftl/diagnostics"
)

// LocaleError is a fatal construction-time error: the locale code passed to
// New failed Oracle.ValidateLocale's shape check.
type LocaleError struct {
	Locale string
	Reason string
}

func (e *LocaleError) Error() string {
	return fmt.Sprintf("bundle: invalid locale %q: %s", e.Locale, e.Reason)
}

// OverwriteWarning is not an error; it's the Diagnostic AddResource reports
// when a newly registered message or term replaces one already present
// under the same id (last-write-wins, per the data model's Bundle
// ownership rules).
func overwriteWarning(kind, id string) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Code:     diagnostics.DuplicateID,
		Severity: diagnostics.Warning,
		Message:  fmt.Sprintf("%s %q overwrites a previously registered %s with the same id", kind, id, kind),
		Args:     []string{id},
	}
}

// extendedLocaleWarning is the Diagnostic New returns alongside a
// successfully constructed Bundle when loc is well-formed but falls in the
// 36-1000 char "extended" length range rather than the silently-accepted
// "standard" (<=35 char) range.
func extendedLocaleWarning(loc string) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Code:     diagnostics.LocaleCodeExtended,
		Severity: diagnostics.Warning,
		Message:  fmt.Sprintf("locale code %q is %d characters, within the accepted but unusually long extended range", loc, len(loc)),
		Args:     []string{loc},
	}
}
