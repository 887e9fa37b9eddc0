// Package diagnostics defines the closed taxonomy of error and warning codes
// produced by the parser, validator, and resolver, plus the shared
// Diagnostic record and severity levels used to report them. Centralizing
// the taxonomy here mirrors the teacher's errors-as-data discipline: every
// layer below the public API surface returns diagnostics, never panics or
// exceptions, for ill-formed input.
package diagnostics

import (
	"fmt"

	"github.com/fluentcore/ftl/internal/cursor"
)

// Severity classifies how a Diagnostic should be treated by a caller that
// only wants to react to the worst outcome.
type Severity int

const (
	Critical Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "CRITICAL"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Code is a stable diagnostic identifier. Its underlying type is string, so
// a value converts with string(code) into Annotation.Code (package ast,
// which holds a plain string to avoid an import cycle) and back with
// Code(s).
type Code string

const (
	// Parser / syntax layer.
	ParseError         Code = "PARSE_ERROR"
	CriticalParseError Code = "CRITICAL_PARSE_ERROR"
	TokenTooLong       Code = "TOKEN_TOO_LONG"
	DepthExceeded      Code = "DEPTH_EXCEEDED"
	CurrencyCodeInvalid Code = "CURRENCY_CODE_INVALID"

	// Validation layer.
	DuplicateID              Code = "DUPLICATE_ID"
	NoValueOrAttrs            Code = "NO_VALUE_OR_ATTRS"
	UndefinedReference        Code = "UNDEFINED_REFERENCE"
	CircularReference          Code = "CIRCULAR_REFERENCE"
	ChainDepthExceeded        Code = "CHAIN_DEPTH_EXCEEDED"
	DuplicateAttribute        Code = "DUPLICATE_ATTRIBUTE"
	ShadowWarning             Code = "SHADOW_WARNING"
	SelectNoDefault           Code = "SELECT_NO_DEFAULT"
	SelectNoVariants          Code = "SELECT_NO_VARIANTS"
	VariantDuplicate          Code = "VARIANT_DUPLICATE"
	NamedArgDuplicate         Code = "NAMED_ARG_DUPLICATE"
	TermNoValue               Code = "TERM_NO_VALUE"
	TermPositionalArgsIgnored Code = "TERM_POSITIONAL_ARGS_IGNORED"

	// Runtime / resolver layer.
	ReferenceNotFound        Code = "REFERENCE_NOT_FOUND"
	VariableNotFound         Code = "VARIABLE_NOT_FOUND"
	TermNotFound             Code = "TERM_NOT_FOUND"
	FunctionNotFound         Code = "FUNCTION_NOT_FOUND"
	FunctionArity            Code = "FUNCTION_ARITY"
	CyclicReference          Code = "CYCLIC_REFERENCE"
	MaxDepthExceeded         Code = "MAX_DEPTH_EXCEEDED"
	PluralSupportUnavailable Code = "PLURAL_SUPPORT_UNAVAILABLE"
	FormattingError          Code = "FORMATTING_ERROR"
	LocaleCodeExtended       Code = "LOCALE_CODE_EXTENDED"
)

// Diagnostic is a single position-annotated finding. Position is resolved
// from a character offset via a LineOffsetCache built once per resource, not
// recomputed per diagnostic.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Position cursor.Position
	Args     []string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Severity, d.Position.Line, d.Position.Column, d.Code, d.Message)
}

// New builds a Diagnostic, resolving pos from offset via cache. cache may be
// nil, in which case Position is the zero value (offset-only reporting is
// not meaningful without a cache, so callers building a cacheless Diagnostic
// should fill Position themselves).
func New(code Code, severity Severity, message string, cache *cursor.LineOffsetCache, offset int) Diagnostic {
	d := Diagnostic{Code: code, Severity: severity, Message: message}
	if cache != nil {
		d.Position = cache.Position(offset)
	}
	return d
}

// Fallback string constants centralize the graceful-degradation text the
// resolver substitutes for unresolvable references, matching spec section
// 4.7's "these patterns are centralized constants" requirement.
const (
	FallbackMessagePattern  = "{%s}"
	FallbackVariablePattern = "{$%s}"
	FallbackTermPattern     = "{-%s}"
	FallbackExpression      = "{???}"
	FallbackFunctionPattern = "{!%s}"
)

// FallbackMessage formats the fallback text for a missing message/attribute
// reference, e.g. "{hello}" or "{hello.gender}".
func FallbackMessage(id string, attribute string) string {
	if attribute != "" {
		return fmt.Sprintf(FallbackMessagePattern, id+"."+attribute)
	}
	return fmt.Sprintf(FallbackMessagePattern, id)
}

// FallbackVariable formats the fallback text for an unbound variable.
func FallbackVariable(name string) string {
	return fmt.Sprintf(FallbackVariablePattern, name)
}

// FallbackTerm formats the fallback text for a missing term/attribute
// reference.
func FallbackTerm(id string, attribute string) string {
	if attribute != "" {
		return fmt.Sprintf(FallbackTermPattern, id+"."+attribute)
	}
	return fmt.Sprintf(FallbackTermPattern, id)
}

// FallbackFunction formats the fallback text for a function call that
// raised FORMATTING_ERROR or could not be resolved.
func FallbackFunction(name string) string {
	return fmt.Sprintf(FallbackFunctionPattern, name)
}
