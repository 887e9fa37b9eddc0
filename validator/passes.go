package validator

import (
	"fmt"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/internal/cursor"
)

// syntaxPass (1) turns any Junk entries already present in the resource
// into diagnostics, carrying over the annotations the parser attached.
func syntaxPass(r *ast.Resource, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	for _, entry := range r.Entries {
		junk, ok := entry.(*ast.Junk)
		if !ok {
			continue
		}
		for _, ann := range junk.Annotations {
			severity := diagnostics.Critical
			code := diagnostics.Code(ann.Code)
			if code != diagnostics.CriticalParseError {
				code = diagnostics.ParseError
			}
			d := diagnostics.New(code, severity, ann.Message, cache, offsetFromSpan(ann.Span))
			d.Args = ann.Args
			out = append(out, d)
		}
	}
	return out
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func offsetFromSpan(s *ast.Span) int {
	if s == nil {
		return 0
	}
	return s.Start
}

// structuralPass (2) checks duplicate ids within the message/term
// namespaces, missing value-or-attributes, duplicate attributes, and
// shadowing of known bundle entries.
func structuralPass(r *ast.Resource, cfg config, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	seenMessages := make(map[string]bool)
	seenTerms := make(map[string]bool)

	for _, entry := range r.Entries {
		switch v := entry.(type) {
		case *ast.Message:
			if seenMessages[string(v.ID)] {
				out = append(out, diagnostics.New(diagnostics.DuplicateID, diagnostics.Critical,
					fmt.Sprintf("message %q is defined more than once in this resource", v.ID), cache, offsetOf(v)))
			}
			seenMessages[string(v.ID)] = true
			if cfg.knownMessages[string(v.ID)] {
				out = append(out, diagnostics.New(diagnostics.ShadowWarning, diagnostics.Warning,
					fmt.Sprintf("message %q shadows a message already registered in the bundle", v.ID), cache, offsetOf(v)))
			}
			if v.Value == nil && len(v.Attributes) == 0 {
				out = append(out, diagnostics.New(diagnostics.NoValueOrAttrs, diagnostics.Critical,
					fmt.Sprintf("message %q has neither a value nor any attributes", v.ID), cache, offsetOf(v)))
			}
			out = append(out, checkDuplicateAttributes(v.Attributes, cache)...)

		case *ast.Term:
			if seenTerms[string(v.ID)] {
				out = append(out, diagnostics.New(diagnostics.DuplicateID, diagnostics.Critical,
					fmt.Sprintf("term %q is defined more than once in this resource", v.ID), cache, offsetOf(v)))
			}
			seenTerms[string(v.ID)] = true
			if cfg.knownTerms[string(v.ID)] {
				out = append(out, diagnostics.New(diagnostics.ShadowWarning, diagnostics.Warning,
					fmt.Sprintf("term %q shadows a term already registered in the bundle", v.ID), cache, offsetOf(v)))
			}
			out = append(out, checkDuplicateAttributes(v.Attributes, cache)...)
		}
	}
	return out
}

func checkDuplicateAttributes(attrs []*ast.Attribute, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	seen := make(map[string]bool)
	for _, a := range attrs {
		if seen[string(a.ID)] {
			out = append(out, diagnostics.New(diagnostics.DuplicateAttribute, diagnostics.Warning,
				fmt.Sprintf("attribute %q is defined more than once on this entry", a.ID), cache, offsetOf(a)))
		}
		seen[string(a.ID)] = true
	}
	return out
}

// undefinedReferencePass (3) flags message/term references that resolve to
// neither this resource nor the known-entries set, and notes every variable
// reference that is not itself the value of a named call argument
// (informational only: args are supplied at format time, so a bare `$var`
// can never be confirmed or refuted statically).
func undefinedReferencePass(allMessages, allTerms map[string]bool, deps map[string]entryDeps, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	messageIDs := keysOf(allMessages)
	termIDs := keysOf(allTerms)

	var out []diagnostics.Diagnostic
	for _, d := range deps {
		for _, edge := range d.edges {
			switch {
			case len(edge) > 4 && edge[:4] == "msg:":
				id := edge[4:]
				if !allMessages[id] {
					d := diagnostics.New(diagnostics.UndefinedReference, diagnostics.Warning,
						fmt.Sprintf("message %q is referenced but never defined", id), cache, 0)
					if suggestion := diagnostics.Suggest(id, messageIDs, 2); suggestion != "" {
						d.Args = []string{suggestion}
					}
					out = append(out, d)
				}
			case len(edge) > 5 && edge[:5] == "term:":
				id := edge[5:]
				if !allTerms[id] {
					d := diagnostics.New(diagnostics.UndefinedReference, diagnostics.Warning,
						fmt.Sprintf("term %q is referenced but never defined", id), cache, 0)
					if suggestion := diagnostics.Suggest(id, termIDs, 2); suggestion != "" {
						d.Args = []string{suggestion}
					}
					out = append(out, d)
				}
			}
		}
		for _, use := range d.variables {
			out = append(out, diagnostics.New(diagnostics.VariableNotFound, diagnostics.Info,
				fmt.Sprintf("variable %q is referenced outside a named call argument; its value comes from format-time arguments", use.name), cache, use.offset))
		}
	}
	return out
}

// cyclePass (4) reports every distinct cycle found in the dependency graph.
func cyclePass(g *dependencyGraph, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	for _, cycle := range g.detectCycles() {
		d := diagnostics.New(diagnostics.CircularReference, diagnostics.Critical,
			fmt.Sprintf("circular reference: %s", joinCycleForDisplay(cycle)), cache, 0)
		d.Args = cycle
		out = append(out, d)
	}
	return out
}

func joinCycleForDisplay(cycle []string) string {
	out := ""
	for i, c := range cycle {
		if i > 0 {
			out += " -> "
		}
		out += c
	}
	if len(cycle) > 0 {
		out += " -> " + cycle[0]
	}
	return out
}

// chainDepthPass (5) reports every node whose longest outgoing dependency
// chain exceeds cfg.maxChainDepth.
func chainDepthPass(g *dependencyGraph, maxDepth int, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	lengths := g.longestChain()
	keys := make([]string, 0, len(lengths))
	for k := range lengths {
		keys = append(keys, k)
	}
	sortStrings(keys)
	for _, k := range keys {
		if lengths[k] > maxDepth {
			out = append(out, diagnostics.New(diagnostics.ChainDepthExceeded, diagnostics.Warning,
				fmt.Sprintf("%s's dependency chain exceeds the configured maximum depth of %d", k, maxDepth), cache, 0))
		}
	}
	return out
}

// semanticPass (6) checks the Fluent-specific shape rules that only make
// sense once the tree is known to be syntactically complete: select
// expression well-formedness, term values, positional term-call arguments,
// and duplicate named call arguments.
func semanticPass(r *ast.Resource, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	for _, entry := range r.Entries {
		switch v := entry.(type) {
		case *ast.Message:
			out = append(out, checkPatternSemantics(v.Value, cache)...)
			for _, a := range v.Attributes {
				out = append(out, checkPatternSemantics(a.Value, cache)...)
			}
		case *ast.Term:
			if v.Value == nil {
				out = append(out, diagnostics.New(diagnostics.TermNoValue, diagnostics.Critical,
					fmt.Sprintf("term %q has no value", v.ID), cache, offsetOf(v)))
			}
			out = append(out, checkPatternSemantics(v.Value, cache)...)
			for _, a := range v.Attributes {
				out = append(out, checkPatternSemantics(a.Value, cache)...)
			}
		}
	}
	return out
}

func checkPatternSemantics(p *ast.Pattern, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	if p == nil {
		return nil
	}
	var out []diagnostics.Diagnostic
	for _, elem := range p.Elements {
		pl, ok := elem.(*ast.Placeable)
		if !ok {
			continue
		}
		out = append(out, checkExpressionSemantics(pl.Expression, cache)...)
	}
	return out
}

func checkExpressionSemantics(expr ast.Expression, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	switch v := expr.(type) {
	case *ast.Placeable:
		out = append(out, checkExpressionSemantics(v.Expression, cache)...)

	case *ast.TermReference:
		if v.Arguments != nil {
			if len(v.Arguments.Positional) > 0 {
				out = append(out, diagnostics.New(diagnostics.TermPositionalArgsIgnored, diagnostics.Info,
					fmt.Sprintf("positional arguments to -%s(...) are ignored; use named arguments", v.ID), cache, offsetOf(v.Arguments)))
			}
			out = append(out, checkCallArgumentSemantics(v.Arguments, cache)...)
		}

	case *ast.FunctionReference:
		if v.Arguments != nil {
			out = append(out, checkCallArgumentSemantics(v.Arguments, cache)...)
		}

	case *ast.SelectExpression:
		out = append(out, checkSelectExpressionSemantics(v, cache)...)
		for _, variant := range v.Variants {
			out = append(out, checkPatternSemantics(variant.Value, cache)...)
		}
	}
	return out
}

func checkCallArgumentSemantics(args *ast.CallArguments, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	seen := make(map[string]bool)
	for _, na := range args.Named {
		if seen[string(na.Name)] {
			out = append(out, diagnostics.New(diagnostics.NamedArgDuplicate, diagnostics.Critical,
				fmt.Sprintf("named argument %q is provided more than once", na.Name), cache, offsetOf(na)))
		}
		seen[string(na.Name)] = true
	}
	return out
}

func checkSelectExpressionSemantics(s *ast.SelectExpression, cache *cursor.LineOffsetCache) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	if len(s.Variants) == 0 {
		out = append(out, diagnostics.New(diagnostics.SelectNoVariants, diagnostics.Critical,
			"select expression has no variants", cache, offsetOf(s)))
		return out
	}

	defaults := 0
	for i, variant := range s.Variants {
		if variant.IsDefault {
			defaults++
		}
		for j := 0; j < i; j++ {
			if variantKeysEqual(variant.Key, s.Variants[j].Key) {
				out = append(out, diagnostics.New(diagnostics.VariantDuplicate, diagnostics.Critical,
					fmt.Sprintf("variant key %q is repeated in this select expression", variantKeyText(variant.Key)), cache, offsetOf(variant)))
				break
			}
		}
	}
	if defaults != 1 {
		out = append(out, diagnostics.New(diagnostics.SelectNoDefault, diagnostics.Critical,
			fmt.Sprintf("select expression must have exactly one default variant, found %d", defaults), cache, offsetOf(s)))
	}
	return out
}

// variantKeysEqual compares two variant keys the way the resolver's
// selector matching does: identifier keys by name, numeric keys by decimal
// value (so `[1]` and `[1.0]` collide as duplicates even though their raw
// source text differs).
func variantKeysEqual(a, b ast.VariantKey) bool {
	switch av := a.(type) {
	case *ast.IdentifierKey:
		bv, ok := b.(*ast.IdentifierKey)
		return ok && av.Name == bv.Name
	case *ast.NumberLiteral:
		bv, ok := b.(*ast.NumberLiteral)
		return ok && av.Value.Equal(bv.Value)
	default:
		return false
	}
}

func variantKeyText(k ast.VariantKey) string {
	switch v := k.(type) {
	case *ast.IdentifierKey:
		return string(v.Name)
	case *ast.NumberLiteral:
		return v.Raw
	default:
		return ""
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
