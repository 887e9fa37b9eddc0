// Package cursor provides character-accurate source navigation, line/column
// lookup, and recursion depth guarding shared by the parser, serializer, and
// resolver.
package cursor

import "fmt"

// Closed set of size/depth limits enforced across the engine. Values mirror
// the defaults documented for the Cursor & Primitives component.
const (
	// DefaultMaxSourceSize bounds the length of FTL source accepted by the
	// parser (bytes, measured after line-ending normalization).
	DefaultMaxSourceSize = 10 * 1024 * 1024

	// DefaultMaxNestingDepth bounds placeable/selector/function-argument
	// nesting evaluated by the parser, serializer and resolver.
	DefaultMaxNestingDepth = 100

	// MaxIdentifierLength bounds identifiers (message, term, attribute,
	// variable and function names).
	MaxIdentifierLength = 256

	// MaxNumberRawLength bounds the raw text of a number literal.
	MaxNumberRawLength = 1000

	// MaxStringLiteralLength bounds the raw text of a string literal.
	MaxStringLiteralLength = 1_000_000

	// hostStackReserveFrames is subtracted from any caller-supplied depth
	// budget so recursive AST walks never approach the point where the Go
	// runtime would need to grow the goroutine stack pathologically. Go
	// stacks grow automatically, but pathological depths still risk
	// exhausting the configured max stack size (default 1GB), so the guard
	// clamps well below that regardless.
	hostStackReserveFrames = 50

	// hardMaxDepth is the absolute ceiling a configured MaxNestingDepth is
	// clamped to, independent of the reserve above.
	hardMaxDepth = 10_000
)

// ClampDepth returns a depth budget that is never smaller than 1 and never
// larger than the host-reserved ceiling, regardless of what a caller
// configured. A zero or negative configured value is treated as "not
// configured" and substituted with DefaultMaxNestingDepth — callers whose
// configuration surface must reject a zero depth budget outright call
// ValidateMaxNestingDepth first and never reach ClampDepth with a zero.
func ClampDepth(configured int) int {
	if configured <= 0 {
		configured = DefaultMaxNestingDepth
	}
	ceiling := hardMaxDepth - hostStackReserveFrames
	if configured > ceiling {
		return ceiling
	}
	return configured
}

// DepthConfigError is returned when a caller explicitly configures a
// nesting-depth budget of exactly zero. Distinct from a negative or
// genuinely-absent value, which ClampDepth treats as "use the default"
// budget; zero is a caller mistake spec.md requires to fail loudly rather
// than silently downgrade to DefaultMaxNestingDepth.
type DepthConfigError struct {
	Configured int
}

func (e *DepthConfigError) Error() string {
	return fmt.Sprintf("max_nesting_depth must be > 0, got %d", e.Configured)
}

// ValidateMaxNestingDepth rejects an explicitly-configured zero depth
// budget. Negative values are left to ClampDepth's "not configured, use the
// default" handling and are not rejected here.
func ValidateMaxNestingDepth(configured int) error {
	if configured == 0 {
		return &DepthConfigError{Configured: configured}
	}
	return nil
}
