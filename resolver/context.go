package resolver

import (
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/internal/cursor"
	"github.com/fluentcore/ftl/registry"
)

// msgKey and termKey match the unified graph-node naming the validator uses
// for cycle detection, so a message and a term sharing a bare identifier
// never collide in the resolver's own cycle-tracking set either.
func msgKey(id string) string  { return "msg:" + id }
func termKey(id string) string { return "term:" + id }

// errorSink accumulates diagnostics across a whole format_pattern call,
// including across the isolated scope a term reference evaluates in — a
// pointer, not a slice value, so every context derived from the same top
// level call (isolated or not) appends to the one list the caller ultimately
// reads back.
type errorSink struct {
	list []diagnostics.Diagnostic
}

func (s *errorSink) add(code diagnostics.Code, message string, args ...string) {
	s.list = append(s.list, diagnostics.Diagnostic{
		Code:     code,
		Severity: diagnostics.Warning,
		Message:  message,
		Args:     args,
	})
}

// context carries everything a single format_pattern call threads through
// pattern evaluation: the caller's argument scope, the shared diagnostics
// sink, the shared ambient depth guard, and the in-flight resolution path
// used for cycle detection. One top-level context is built per
// FormatMessage/FormatTerm call and is not shared across goroutines;
// isolated term scopes derive a child context that shares everything except
// the argument map.
type context struct {
	args         map[string]registry.Value
	errs         *errorSink
	guard        *cursor.DepthGuard
	seen         map[string]bool
	useIsolating bool
}

func newContext(args map[string]registry.Value, guard *cursor.DepthGuard, useIsolating bool) *context {
	if args == nil {
		args = map[string]registry.Value{}
	}
	return &context{
		args:         args,
		errs:         &errorSink{},
		guard:        guard,
		seen:         make(map[string]bool),
		useIsolating: useIsolating,
	}
}

func (c *context) addError(code diagnostics.Code, message string, args ...string) {
	c.errs.add(code, message, args...)
}

// isolatedScope returns a context sharing c's depth guard, diagnostics
// sink, and cycle-detection set, but with a fresh argument scope built
// solely from named — the bindings a term reference's call site supplied —
// never the caller's own args, per the "a term sees only the named
// arguments passed to it" scoping rule.
func (c *context) isolatedScope(named map[string]registry.Value) *context {
	return &context{
		args:         named,
		errs:         c.errs,
		guard:        c.guard,
		seen:         c.seen,
		useIsolating: c.useIsolating,
	}
}
