// Package serializer renders an ast.Resource back to Fluent (FTL) source
// text. Emission mirrors the parser's grammar exactly, so
// Parse(Serialize(r)) reproduces r's semantic content (not necessarily its
// original formatting, since whitespace/indentation choices are the
// serializer's own).
package serializer

import (
	"io"
	"strings"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/internal/cursor"
)

// config holds per-call serialization options.
type config struct {
	validate bool
	indent   string
}

// Option configures a single Serialize/WriteTo call.
type Option func(*config)

// WithValidate toggles the pre-emission structural check. Defaults to true;
// pass WithValidate(false) to skip it for AST known to already be
// well-formed (e.g. freshly parsed, never transformed).
func WithValidate(enabled bool) Option {
	return func(c *config) { c.validate = enabled }
}

// WithIndent overrides the indentation string used for multiline pattern
// continuations and select-expression variants. Defaults to four spaces.
func WithIndent(s string) Option {
	return func(c *config) { c.indent = s }
}

func defaultConfig() config {
	return config{validate: true, indent: "    "}
}

// Serialize renders r as an FTL source string.
func Serialize(r *ast.Resource, opts ...Option) (string, error) {
	var b strings.Builder
	if err := WriteTo(&b, r, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteTo renders r to w. With validate=true (the default) it first runs a
// structural check — identifier shape, exactly one default per select
// expression, no duplicate variant keys — raising
// *SerializationValidationError on the first violation found, before any
// output is written. Recursion (nested placeables/selects) is bounded by a
// DepthGuard shared across both the validation and emission passes;
// exceeding it raises *SerializationDepthError.
func WriteTo(w io.Writer, r *ast.Resource, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	guard := cursor.NewDepthGuard(cursor.DefaultMaxNestingDepth)

	if cfg.validate {
		if err := validateResource(r, guard); err != nil {
			return err
		}
		guard.Restore(0)
	}

	e := &emitter{w: w, indent: cfg.indent, guard: guard}
	return e.emitResource(r)
}
