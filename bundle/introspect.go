package bundle

import (
	"sort"
	"sync"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/internal/cursor"
)

// Introspection is the static shape summary IntrospectMessage/
// IntrospectTerm return: every variable, message/term reference, and
// function name a pattern (value plus attributes) touches, plus whether
// it contains a SelectExpression anywhere. Fields are sorted and
// deduplicated so two calls against the same entry always compare equal.
type Introspection struct {
	Variables         []string
	MessageReferences []string
	TermReferences    []string
	Functions         []string
	HasSelectors      bool
}

// introspectCache amortizes repeated IntrospectMessage/IntrospectTerm calls
// against the same id. Each Bundle owns one; it is read-mostly and is
// only read under the Bundle's read lock, while invalidate runs under its
// write lock. Two goroutines missing on the same entry at once may both
// compute it — redundant work, never a corrupted result — so a plain
// sync.Map needs no further coordination here.
type introspectCache struct {
	messages sync.Map // id string -> Introspection
	terms    sync.Map
}

func newIntrospectCache() *introspectCache {
	return &introspectCache{}
}

func (c *introspectCache) message(id string, value *ast.Pattern, attrs []*ast.Attribute) Introspection {
	if v, ok := c.messages.Load(id); ok {
		return v.(Introspection)
	}
	ins := introspectEntry(value, attrs)
	c.messages.Store(id, ins)
	return ins
}

func (c *introspectCache) term(id string, value *ast.Pattern, attrs []*ast.Attribute) Introspection {
	if v, ok := c.terms.Load(id); ok {
		return v.(Introspection)
	}
	ins := introspectEntry(value, attrs)
	c.terms.Store(id, ins)
	return ins
}

func (c *introspectCache) invalidate() {
	c.messages = sync.Map{}
	c.terms = sync.Map{}
}

func introspectEntry(value *ast.Pattern, attrs []*ast.Attribute) Introspection {
	vars := map[string]bool{}
	msgs := map[string]bool{}
	terms := map[string]bool{}
	funcs := map[string]bool{}
	hasSelect := false

	visit := func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.VariableReference:
			vars[string(v.ID)] = true
		case *ast.MessageReference:
			msgs[string(v.ID)] = true
		case *ast.TermReference:
			terms[string(v.ID)] = true
		case *ast.FunctionReference:
			funcs[string(v.ID)] = true
		case *ast.SelectExpression:
			hasSelect = true
		}
		return true
	}

	guard := cursor.NewDepthGuard(cursor.DefaultMaxNestingDepth)
	if value != nil {
		_ = ast.Inspect(value, visit, guard)
	}
	for _, a := range attrs {
		if a.Value != nil {
			_ = ast.Inspect(a.Value, visit, guard)
		}
	}

	return Introspection{
		Variables:         sortedKeys(vars),
		MessageReferences: sortedKeys(msgs),
		TermReferences:    sortedKeys(terms),
		Functions:         sortedKeys(funcs),
		HasSelectors:      hasSelect,
	}
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
