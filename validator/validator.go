// Package validator runs the six-pass static analysis over a parsed
// Resource: syntax (Junk surfaced as diagnostics), structural shape,
// undefined references, circular references, dependency chain depth, and
// Fluent-specific semantic rules. It never mutates the tree or the parser's
// output; it only produces diagnostics a caller can inspect before
// registering a resource into a bundle.
package validator

import (
	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/internal/cursor"
)

// Validate runs all six passes over r. src must be the exact normalized
// source r was parsed from, so positions can be resolved through a single
// LineOffsetCache shared across every pass (built once here, not per
// diagnostic). opts supply the surrounding bundle's known messages, terms,
// and already-computed dependency edges, if any; validating a resource in
// isolation (opts omitted) still runs every pass, just against an empty
// known-entries set.
func Validate(r *ast.Resource, src string, opts ...Option) []diagnostics.Diagnostic {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cache := cursor.NewLineOffsetCache(src)

	var diags []diagnostics.Diagnostic
	diags = append(diags, syntaxPass(r, cache)...)
	diags = append(diags, structuralPass(r, cfg, cache)...)

	allMessages, allTerms, deps, graph := buildGraph(r, cfg)

	diags = append(diags, undefinedReferencePass(allMessages, allTerms, deps, cache)...)
	diags = append(diags, cyclePass(graph, cache)...)
	diags = append(diags, chainDepthPass(graph, cfg.maxChainDepth, cache)...)
	diags = append(diags, semanticPass(r, cache)...)

	return diags
}

// buildGraph walks every Message and Term in r once, producing the
// known-id sets (combined with cfg's bundle-supplied ones), the per-entry
// dependency/variable findings consumed by undefinedReferencePass, and the
// unified dependency graph consumed by the cycle and chain-depth passes.
func buildGraph(r *ast.Resource, cfg config) (messages, terms map[string]bool, deps map[string]entryDeps, graph *dependencyGraph) {
	messages = make(map[string]bool)
	terms = make(map[string]bool)
	for id := range cfg.knownMessages {
		messages[id] = true
	}
	for id := range cfg.knownTerms {
		terms[id] = true
	}

	deps = make(map[string]entryDeps)
	graph = newDependencyGraph()

	for _, entry := range r.Entries {
		switch v := entry.(type) {
		case *ast.Message:
			messages[string(v.ID)] = true
			key := msgKey(string(v.ID))
			d := collectEntry(v.Value, v.Attributes)
			deps[key] = d
			graph.add(key, d.edges)

		case *ast.Term:
			terms[string(v.ID)] = true
			key := termKey(string(v.ID))
			d := collectEntry(v.Value, v.Attributes)
			deps[key] = d
			graph.add(key, d.edges)
		}
	}

	graph.merge(cfg.knownDeps)
	return messages, terms, deps, graph
}
