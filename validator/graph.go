package validator

import (
	"sort"

	"github.com/fluentcore/ftl/ast"
)

// msgKey and termKey produce the unified "msg:{id}"/"term:{id}" graph node
// names used throughout cycle and chain-depth analysis, so a message and a
// term sharing a bare identifier never collide in the same namespace.
func msgKey(id string) string  { return "msg:" + id }
func termKey(id string) string { return "term:" + id }

// variableUse records one bare (not explicitly named-in-a-call) variable
// reference found while walking a pattern, for the informational
// "never named in args context" check.
type variableUse struct {
	name   string
	offset int
}

// entryDeps is what collectEntry gathers from a single Message or Term:
// the graph edges it introduces, plus any loose variable references found
// along the way.
type entryDeps struct {
	edges     []string // fully-qualified "msg:{id}"/"term:{id}" targets
	variables []variableUse
}

// collectEntry walks every pattern owned directly by a message or term
// (its value plus its attributes) and returns the dependency edges and
// variable uses found.
func collectEntry(value *ast.Pattern, attrs []*ast.Attribute) entryDeps {
	var d entryDeps
	if value != nil {
		collectPattern(value, &d)
	}
	for _, a := range attrs {
		if a.Value != nil {
			collectPattern(a.Value, &d)
		}
	}
	return d
}

func collectPattern(p *ast.Pattern, d *entryDeps) {
	for _, elem := range p.Elements {
		if pl, ok := elem.(*ast.Placeable); ok {
			collectExpr(pl.Expression, d, false)
		}
	}
}

// collectExpr walks expr recording message/term reference edges and bare
// variable uses. namedArgValue is true when expr is itself the value bound
// to a named call argument (e.g. the "$x" in "name: $x") — a variable
// reached that way is considered documented by its call site and is not
// recorded as a loose use.
func collectExpr(expr ast.Expression, d *entryDeps, namedArgValue bool) {
	switch v := expr.(type) {
	case *ast.VariableReference:
		if !namedArgValue {
			d.variables = append(d.variables, variableUse{name: string(v.ID), offset: offsetOf(v)})
		}

	case *ast.MessageReference:
		d.edges = append(d.edges, msgKey(string(v.ID)))

	case *ast.TermReference:
		d.edges = append(d.edges, termKey(string(v.ID)))
		if v.Arguments != nil {
			collectCallArguments(v.Arguments, d)
		}

	case *ast.FunctionReference:
		if v.Arguments != nil {
			collectCallArguments(v.Arguments, d)
		}

	case *ast.Placeable:
		collectExpr(v.Expression, d, namedArgValue)

	case *ast.SelectExpression:
		collectExpr(v.Selector, d, false)
		for _, variant := range v.Variants {
			if variant.Value != nil {
				collectPattern(variant.Value, d)
			}
		}
	}
}

func collectCallArguments(args *ast.CallArguments, d *entryDeps) {
	for _, p := range args.Positional {
		collectExpr(p, d, false)
	}
	for _, na := range args.Named {
		if na.Value != nil {
			collectExpr(na.Value, d, true)
		}
	}
}

func offsetOf(n ast.Node) int {
	if span := n.NodeSpan(); span != nil {
		return span.Start
	}
	return -1
}

// dependencyGraph is the unified message/term adjacency built once per
// Validate call and shared by the cycle and chain-depth passes.
type dependencyGraph struct {
	edges map[string][]string
}

func newDependencyGraph() *dependencyGraph {
	return &dependencyGraph{edges: make(map[string][]string)}
}

func (g *dependencyGraph) add(key string, deps []string) {
	g.edges[key] = append(g.edges[key], deps...)
}

func (g *dependencyGraph) merge(known map[string][]string) {
	for k, v := range known {
		if _, exists := g.edges[k]; !exists {
			g.edges[k] = v
		}
	}
}

// detectCycles runs a DFS from every known node (visiting-set + path slice,
// mirroring the teacher's detectRecursion), returning one canonicalized
// cycle per distinct rotation-invariant-with-direction cycle found. A cycle
// is canonicalized by rotating it so its lexicographically smallest node
// comes first, without reversing direction, so A->B->C and A->C->B remain
// distinct even though they visit the same nodes.
func (g *dependencyGraph) detectCycles() [][]string {
	keys := make([]string, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]bool)
	var cycles [][]string

	for _, start := range keys {
		g.walkForCycles(start, nil, make(map[string]bool), &cycles, seen)
	}
	return cycles
}

func (g *dependencyGraph) walkForCycles(node string, path []string, visiting map[string]bool, cycles *[][]string, seenCanonical map[string]bool) {
	if visiting[node] {
		cycleStart := -1
		for i, n := range path {
			if n == node {
				cycleStart = i
				break
			}
		}
		if cycleStart == -1 {
			return
		}
		cycle := append(append([]string{}, path[cycleStart:]...), node)
		canon := canonicalizeCycle(cycle)
		key := joinCycle(canon)
		if !seenCanonical[key] {
			seenCanonical[key] = true
			*cycles = append(*cycles, canon)
		}
		return
	}

	visiting[node] = true
	newPath := append(append([]string{}, path...), node)
	for _, dep := range g.edges[node] {
		g.walkForCycles(dep, newPath, visiting, cycles, seenCanonical)
	}
	delete(visiting, node)
}

// canonicalizeCycle rotates cycle (a closed walk ending where it started,
// e.g. ["A","B","C","A"]) so its minimum element leads, preserving
// direction and dropping the now-redundant repeated final element.
func canonicalizeCycle(cycle []string) []string {
	body := cycle[:len(cycle)-1]
	if len(body) == 0 {
		return body
	}
	minIdx := 0
	for i, n := range body {
		if n < body[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(body))
	out = append(out, body[minIdx:]...)
	out = append(out, body[:minIdx]...)
	return out
}

func joinCycle(cycle []string) string {
	out := ""
	for _, c := range cycle {
		out += c + ">"
	}
	return out
}

// longestChain computes, for every node with an entry in g.edges, the
// length of its longest outgoing dependency chain via memoized DFS. A node
// reached while already on the current path (a cycle) is assigned a
// sentinel length far beyond any configured limit, so a cyclical chain
// always reports as exceeded rather than recursing forever; cycles are
// already reported separately by detectCycles.
const cyclicChainSentinel = 1 << 30

func (g *dependencyGraph) longestChain() map[string]int {
	memo := make(map[string]int)
	for node := range g.edges {
		g.chainLength(node, make(map[string]bool), memo)
	}
	return memo
}

func (g *dependencyGraph) chainLength(node string, visiting map[string]bool, memo map[string]int) int {
	if visiting[node] {
		return cyclicChainSentinel
	}
	if v, ok := memo[node]; ok {
		return v
	}
	visiting[node] = true
	best := 0
	for _, dep := range g.edges[node] {
		if l := 1 + g.chainLength(dep, visiting, memo); l > best {
			best = l
		}
	}
	delete(visiting, node)
	memo[node] = best
	return best
}
