// Package resolver evaluates a Fluent Pattern against a set of caller
// arguments into a display string, implementing the runtime's
// graceful-degradation error model: every unresolvable reference,
// out-of-budget recursion, or formatting failure substitutes a documented
// fallback string and records a diagnostic, rather than aborting the whole
// format call. A Resolver is stateless configuration (message/term
// lookups, function registry, locale oracle); the per-call mutable state
// lives entirely in the unexported context built by FormatMessage/
// FormatTerm.
package resolver

import (
	"strings"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/internal/cursor"
	"github.com/fluentcore/ftl/internal/fluentnum"
	"github.com/fluentcore/ftl/internal/ftllog"
	"github.com/fluentcore/ftl/locale"
	"github.com/fluentcore/ftl/registry"
	"github.com/shopspring/decimal"
)

var log = ftllog.For("resolver")

// Bidi isolation characters wrapped around every resolved placeable's
// display text when UseIsolating is on, per spec section 4.8.
const (
	fsi = "⁨"
	pdi = "⁩"
)

// MessageLookup resolves a bare message id to its AST node. ok is false if
// no such message is registered.
type MessageLookup func(id string) (*ast.Message, bool)

// TermLookup resolves a bare term id (without its leading '-') to its AST
// node.
type TermLookup func(id string) (*ast.Term, bool)

// Resolver is the immutable configuration a bundle builds once and reuses
// across every format_pattern call: where messages/terms/functions live,
// which locale oracle backs plural/number/date dispatch, and the
// nesting-depth budget each call gets its own fresh DepthGuard from.
type Resolver struct {
	Locale          string
	Messages        MessageLookup
	Terms           TermLookup
	Functions       *registry.Registry
	Oracle          locale.Oracle
	UseIsolating    bool
	MaxNestingDepth int
}

// New builds a Resolver. maxNestingDepth <= 0 falls back to
// cursor.DefaultMaxNestingDepth.
func New(loc string, messages MessageLookup, terms TermLookup, functions *registry.Registry, oracle locale.Oracle, useIsolating bool, maxNestingDepth int) *Resolver {
	if maxNestingDepth <= 0 {
		maxNestingDepth = cursor.DefaultMaxNestingDepth
	}
	return &Resolver{
		Locale:          loc,
		Messages:        messages,
		Terms:           terms,
		Functions:       functions,
		Oracle:          oracle,
		UseIsolating:    useIsolating,
		MaxNestingDepth: maxNestingDepth,
	}
}

// FormatMessage resolves the Value pattern of message id (or, if attribute
// is non-empty, that attribute's pattern) against args. It never panics or
// raises: every failure mode is reported in the returned diagnostic slice
// and a documented fallback substituted in the returned string.
func (r *Resolver) FormatMessage(id string, attribute string, args map[string]registry.Value) (string, []diagnostics.Diagnostic) {
	ctx := newContext(args, cursor.NewDepthGuard(r.MaxNestingDepth), r.UseIsolating)
	text := r.resolveMessageByID(id, attribute, ctx, false)
	return text, ctx.errs.list
}

// FormatTerm is FormatMessage's term-namespace counterpart, exposed so a
// Bundle can offer introspection/debugging entry points against terms
// directly; ordinary FTL source only reaches terms through a
// TermReference inside a message pattern.
func (r *Resolver) FormatTerm(id string, attribute string, args map[string]registry.Value) (string, []diagnostics.Diagnostic) {
	ctx := newContext(args, cursor.NewDepthGuard(r.MaxNestingDepth), r.UseIsolating)
	text := r.resolveTermByID(id, attribute, ctx, nil)
	return text, ctx.errs.list
}

// resolveMessageByID looks up id in r.Messages and resolves its pattern (or
// named attribute) in ctx's current scope. The last parameter is true when
// called recursively from inside a Placeable (as opposed to the top-level
// FormatMessage entry point); resolution does not read it.
func (r *Resolver) resolveMessageByID(id string, attribute string, ctx *context, _isNested bool) string {
	key := msgKey(id)
	if ctx.seen[key] {
		log.WithField("message", id).Debug("cyclic reference detected")
		ctx.addError(diagnostics.CyclicReference, "cyclic reference to message "+id, id)
		return diagnostics.FallbackMessage(id, attribute)
	}

	msg, ok := r.Messages(id)
	if !ok {
		ctx.addError(diagnostics.ReferenceNotFound, "unknown message "+id, id)
		return diagnostics.FallbackMessage(id, "")
	}

	ctx.seen[key] = true
	defer delete(ctx.seen, key)

	pattern, found := selectPattern(msg.Value, msg.Attributes, attribute)
	if !found {
		ctx.addError(diagnostics.ReferenceNotFound, "message "+id+" has no attribute "+attribute, id, attribute)
		return diagnostics.FallbackMessage(id, attribute)
	}
	if pattern == nil {
		ctx.addError(diagnostics.ReferenceNotFound, "message "+id+" has no value", id)
		return diagnostics.FallbackMessage(id, attribute)
	}
	return r.resolvePattern(pattern, ctx)
}

// resolveTermByID is resolveMessageByID's term-namespace counterpart.
// callArgs, when non-nil, is the already-evaluated named-argument scope a
// TermReference's CallArguments bound; FormatTerm's direct entry point
// passes nil, meaning the term runs with whatever args ctx already carries
// (matching the top-level FormatMessage contract for symmetry).
func (r *Resolver) resolveTermByID(id string, attribute string, ctx *context, callArgs map[string]registry.Value) string {
	key := termKey(id)
	if ctx.seen[key] {
		ctx.addError(diagnostics.CyclicReference, "cyclic reference to term "+id, id)
		return diagnostics.FallbackTerm(id, attribute)
	}

	term, ok := r.Terms(id)
	if !ok {
		ctx.addError(diagnostics.TermNotFound, "unknown term "+id, id)
		return diagnostics.FallbackTerm(id, "")
	}

	scope := ctx
	if callArgs != nil {
		scope = ctx.isolatedScope(callArgs)
	}
	scope.seen[key] = true
	defer delete(scope.seen, key)

	pattern, found := selectPattern(term.Value, term.Attributes, attribute)
	if !found {
		ctx.addError(diagnostics.TermNotFound, "term "+id+" has no attribute "+attribute, id, attribute)
		return diagnostics.FallbackTerm(id, attribute)
	}
	if pattern == nil {
		ctx.addError(diagnostics.TermNotFound, "term "+id+" has no value", id)
		return diagnostics.FallbackTerm(id, attribute)
	}
	return r.resolvePattern(pattern, scope)
}

// selectPattern picks value (attribute == "") or the last-declared
// attribute named attribute, matching the last-wins duplicate-attribute
// resolution the data model requires. found is false only when attribute
// is non-empty and no attribute by that name exists; pattern is nil (with
// found true) when attribute == "" and the entry has no Value.
func selectPattern(value *ast.Pattern, attrs []*ast.Attribute, attribute string) (pattern *ast.Pattern, found bool) {
	if attribute == "" {
		return value, true
	}
	for i := len(attrs) - 1; i >= 0; i-- {
		if string(attrs[i].ID) == attribute {
			return attrs[i].Value, true
		}
	}
	return nil, false
}

// resolvePattern concatenates pat's TextElements and resolved Placeables
// into the final display string.
func (r *Resolver) resolvePattern(pat *ast.Pattern, ctx *context) string {
	if pat == nil {
		return ""
	}
	var b strings.Builder
	for _, el := range pat.Elements {
		switch e := el.(type) {
		case *ast.TextElement:
			b.WriteString(e.Value)
		case *ast.Placeable:
			b.WriteString(r.resolvePlaceable(e, ctx))
		}
	}
	return b.String()
}

// resolvePlaceable evaluates a single `{ ... }` and wraps its display text
// with FSI/PDI bidi isolation characters when UseIsolating is on. Every
// Placeable entry counts against the nesting-depth budget.
func (r *Resolver) resolvePlaceable(p *ast.Placeable, ctx *context) string {
	if err := ctx.guard.Enter(); err != nil {
		log.WithField("depth", ctx.guard.Max()).Debug("max nesting depth exceeded")
		ctx.addError(diagnostics.MaxDepthExceeded, err.Error())
		return diagnostics.FallbackExpression
	}
	defer ctx.guard.Exit()

	text := r.resolveExpressionText(p.Expression, ctx)
	if !ctx.useIsolating {
		return text
	}
	return fsi + text + pdi
}

// resolveExpressionText evaluates expr into its final display text,
// covering every InlineExpression variant plus SelectExpression and a
// nested Placeable.
func (r *Resolver) resolveExpressionText(expr ast.Expression, ctx *context) string {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		return e.Value

	case *ast.NumberLiteral:
		return fluentnum.FixedString(e.Value)

	case *ast.VariableReference:
		v, ok := ctx.args[string(e.ID)]
		if !ok {
			ctx.addError(diagnostics.VariableNotFound, "unknown variable $"+string(e.ID), string(e.ID))
			return diagnostics.FallbackVariable(string(e.ID))
		}
		if v == nil {
			ctx.addError(diagnostics.FormattingError, "variable $"+string(e.ID)+" is nil", string(e.ID))
			return ""
		}
		return registry.DisplayString(v)

	case *ast.MessageReference:
		attr := ""
		if e.Attribute != nil {
			attr = string(*e.Attribute)
		}
		return r.resolveMessageByID(string(e.ID), attr, ctx, true)

	case *ast.TermReference:
		attr := ""
		if e.Attribute != nil {
			attr = string(*e.Attribute)
		}
		named := r.evalNamedArgs(e.Arguments, ctx)
		if e.Arguments != nil && len(e.Arguments.Positional) > 0 {
			ctx.addError(diagnostics.TermPositionalArgsIgnored, "positional arguments to -"+string(e.ID)+" are ignored", string(e.ID))
		}
		return r.resolveTermByID(string(e.ID), attr, ctx, named)

	case *ast.FunctionReference:
		return r.callFunction(string(e.ID), e.Arguments, ctx)

	case *ast.SelectExpression:
		return r.resolveSelect(e, ctx)

	case *ast.Placeable:
		// Nested placeable: `{ { 1 } }`. Depth already charged by the
		// enclosing resolvePlaceable call; evaluating the inner expression
		// directly (rather than recursing into resolvePlaceable) avoids
		// double-counting depth for a construct that is semantically just
		// one more layer of the same placeable.
		return r.resolveExpressionText(e.Expression, ctx)

	default:
		ctx.addError(diagnostics.FormattingError, "unsupported expression")
		return diagnostics.FallbackExpression
	}
}

// evalValue evaluates expr into a typed registry.Value, used where a
// selector or function argument needs the value's identity rather than
// just its display text (numeric/boolean comparison, plural dispatch).
func (r *Resolver) evalValue(expr ast.Expression, ctx *context) registry.Value {
	switch e := expr.(type) {
	case *ast.StringLiteral:
		return registry.StringValue(e.Value)
	case *ast.NumberLiteral:
		return registry.DecimalValue{D: e.Value}
	case *ast.VariableReference:
		v, ok := ctx.args[string(e.ID)]
		if !ok {
			ctx.addError(diagnostics.VariableNotFound, "unknown variable $"+string(e.ID), string(e.ID))
			return nil
		}
		return v
	case *ast.FunctionReference:
		return r.callFunctionValue(string(e.ID), e.Arguments, ctx)
	default:
		// MessageReference, TermReference, SelectExpression, and nested
		// Placeable have no numeric/boolean identity distinct from their
		// rendered text; wrap the resolved text as a plain string value so
		// selector matching still falls through to string-equality rules.
		return registry.StringValue(r.resolveExpressionText(expr, ctx))
	}
}

// resolveSelect evaluates a SelectExpression's selector and dispatches to
// the matching variant's pattern, falling back to the default variant for
// any selector that can't be matched (missing value, evaluation error, or
// no locale data for plural dispatch).
func (r *Resolver) resolveSelect(sel *ast.SelectExpression, ctx *context) string {
	if err := ctx.guard.Enter(); err != nil {
		ctx.addError(diagnostics.MaxDepthExceeded, err.Error())
		return diagnostics.FallbackExpression
	}
	defer ctx.guard.Exit()

	if err := ctx.guard.Enter(); err != nil {
		ctx.addError(diagnostics.MaxDepthExceeded, err.Error())
		return diagnostics.FallbackExpression
	}
	val := r.evalValue(sel.Selector, ctx)
	ctx.guard.Exit()

	variant := r.matchVariant(sel, val, ctx)
	if variant == nil {
		return diagnostics.FallbackExpression
	}

	if err := ctx.guard.Enter(); err != nil {
		ctx.addError(diagnostics.MaxDepthExceeded, err.Error())
		return diagnostics.FallbackExpression
	}
	defer ctx.guard.Exit()
	return r.resolvePattern(variant.Value, ctx)
}

func (r *Resolver) matchVariant(sel *ast.SelectExpression, val registry.Value, ctx *context) *ast.Variant {
	defaultVariant := defaultOf(sel)

	if val == nil {
		return defaultVariant
	}

	switch v := val.(type) {
	case registry.BoolValue:
		want := "false"
		if v {
			want = "true"
		}
		if variant := findIdentifierVariant(sel, want); variant != nil {
			return variant
		}
		return defaultVariant

	case registry.StringValue:
		if variant := findIdentifierVariant(sel, string(v)); variant != nil {
			return variant
		}
		return defaultVariant

	case registry.DecimalValue, registry.FluentNumber:
		d, _ := registry.AsDecimal(v)
		if variant := findNumericVariant(sel, d); variant != nil {
			return variant
		}
		if r.Oracle == nil {
			ctx.addError(diagnostics.PluralSupportUnavailable, "no locale oracle available for plural dispatch")
			return defaultVariant
		}
		category := r.Oracle.PluralCategory(r.Locale, d)
		if variant := findIdentifierVariant(sel, string(category)); variant != nil {
			return variant
		}
		return defaultVariant

	default:
		return defaultVariant
	}
}

func defaultOf(sel *ast.SelectExpression) *ast.Variant {
	if sel.DefaultIndex >= 0 && sel.DefaultIndex < len(sel.Variants) {
		return sel.Variants[sel.DefaultIndex]
	}
	for _, v := range sel.Variants {
		if v.IsDefault {
			return v
		}
	}
	if len(sel.Variants) > 0 {
		return sel.Variants[0]
	}
	return nil
}

func findIdentifierVariant(sel *ast.SelectExpression, name string) *ast.Variant {
	for _, v := range sel.Variants {
		if k, ok := v.Key.(*ast.IdentifierKey); ok && string(k.Name) == name {
			return v
		}
	}
	return nil
}

func findNumericVariant(sel *ast.SelectExpression, d decimal.Decimal) *ast.Variant {
	for _, v := range sel.Variants {
		if k, ok := v.Key.(*ast.NumberLiteral); ok && fluentnum.Equal(k.Value, d) {
			return v
		}
	}
	return nil
}

// callFunctionValue runs a FunctionReference and returns its raw
// registry.Value (for selector dispatch); callFunction wraps this and
// converts to display text (for placeable substitution).
func (r *Resolver) callFunctionValue(name string, args *ast.CallArguments, ctx *context) registry.Value {
	if err := ctx.guard.Enter(); err != nil {
		ctx.addError(diagnostics.MaxDepthExceeded, err.Error())
		return nil
	}
	defer ctx.guard.Exit()

	sig, fn, ok := r.Functions.Get(name)
	if !ok {
		args := []string{name}
		if suggestion := diagnostics.Suggest(name, r.Functions.Names(), 2); suggestion != "" {
			args = append(args, suggestion)
		}
		ctx.addError(diagnostics.FunctionNotFound, "unknown function "+name, args...)
		return nil
	}

	positional := make([]registry.Value, 0)
	named := make(map[string]registry.Value)
	if args != nil {
		for _, p := range args.Positional {
			if err := ctx.guard.Enter(); err != nil {
				ctx.addError(diagnostics.MaxDepthExceeded, err.Error())
				return nil
			}
			positional = append(positional, r.evalValue(p, ctx))
			ctx.guard.Exit()
		}
		for _, na := range args.Named {
			if err := ctx.guard.Enter(); err != nil {
				ctx.addError(diagnostics.MaxDepthExceeded, err.Error())
				return nil
			}
			named[string(na.Name)] = r.evalValue(na.Value, ctx)
			ctx.guard.Exit()
		}
	}

	loc := ""
	if sig.InjectLocale {
		loc = r.Locale
	}

	v, err := fn(positional, named, loc)
	if err != nil {
		ctx.addError(diagnostics.FormattingError, "function "+name+" failed: "+err.Error(), name)
		return nil
	}
	return v
}

func (r *Resolver) callFunction(name string, args *ast.CallArguments, ctx *context) string {
	v := r.callFunctionValue(name, args, ctx)
	if v == nil {
		return diagnostics.FallbackFunction(name)
	}
	return registry.DisplayString(v)
}

func (r *Resolver) evalNamedArgs(args *ast.CallArguments, ctx *context) map[string]registry.Value {
	named := map[string]registry.Value{}
	if args == nil {
		return named
	}
	for _, na := range args.Named {
		if err := ctx.guard.Enter(); err != nil {
			ctx.addError(diagnostics.MaxDepthExceeded, err.Error())
			continue
		}
		named[string(na.Name)] = r.evalValue(na.Value, ctx)
		ctx.guard.Exit()
	}
	return named
}
