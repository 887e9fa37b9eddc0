package resolver_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/locale"
	"github.com/fluentcore/ftl/parser"
	"github.com/fluentcore/ftl/registry"
	"github.com/fluentcore/ftl/resolver"
)

// newResolver parses src, indexes its Messages/Terms by id, and builds a
// Resolver wired to locale.NewCLDROracle() plus the default built-in
// function registry, for tests that only care about resolution behavior
// and not bundle-level registration/caching.
func newResolver(t *testing.T, src string, useIsolating bool) *resolver.Resolver {
	t.Helper()
	res, _, err := parser.Parse(src)
	require.NoError(t, err)

	messages := map[string]*ast.Message{}
	for _, m := range res.Messages() {
		messages[string(m.ID)] = m
	}
	terms := map[string]*ast.Term{}
	for _, tm := range res.Terms() {
		terms[string(tm.ID)] = tm
	}

	oracle := locale.NewCLDROracle()
	reg := registry.NewDefaultRegistry(oracle)

	return resolver.New("en", func(id string) (*ast.Message, bool) {
		m, ok := messages[id]
		return m, ok
	}, func(id string) (*ast.Term, bool) {
		tm, ok := terms[id]
		return tm, ok
	}, reg, oracle, useIsolating, 100)
}

func TestFormatMessage_PlainText(t *testing.T) {
	r := newResolver(t, "hello = hello\n", false)
	text, errs := r.FormatMessage("hello", "", nil)
	assert.Equal(t, "hello", text)
	assert.Empty(t, errs)
}

func TestFormatMessage_VariableSelectPlural(t *testing.T) {
	src := "items = { $n ->\n  [one] one item\n *[other] { $n } items\n}\n"
	r := newResolver(t, src, false)
	text, errs := r.FormatMessage("items", "", map[string]registry.Value{
		"n": registry.DecimalValue{D: decimal.NewFromInt(5)},
	})
	assert.Equal(t, "5 items", text)
	assert.Empty(t, errs)
}

func TestFormatMessage_SelectOneCategory(t *testing.T) {
	src := "items = { $n ->\n  [one] one item\n *[other] { $n } items\n}\n"
	r := newResolver(t, src, false)
	text, errs := r.FormatMessage("items", "", map[string]registry.Value{
		"n": registry.DecimalValue{D: decimal.NewFromInt(1)},
	})
	assert.Equal(t, "one item", text)
	assert.Empty(t, errs)
}

func TestFormatMessage_BlankLinePrefixStripped(t *testing.T) {
	src := "msg =\n\n    value\n"
	r := newResolver(t, src, false)
	text, errs := r.FormatMessage("msg", "", nil)
	assert.Equal(t, "value", text)
	assert.Empty(t, errs)
}

func TestFormatMessage_LastWinsAttribute(t *testing.T) {
	src := "-brand = X\n    .legal = Old\n    .legal = New\n"
	res, _, err := parser.Parse(src)
	require.NoError(t, err)
	terms := map[string]*ast.Term{}
	for _, tm := range res.Terms() {
		terms[string(tm.ID)] = tm
	}
	oracle := locale.NewCLDROracle()
	reg := registry.NewDefaultRegistry(oracle)
	r := resolver.New("en", func(string) (*ast.Message, bool) { return nil, false },
		func(id string) (*ast.Term, bool) { tm, ok := terms[id]; return tm, ok },
		reg, oracle, false, 100)

	text, errs := r.FormatTerm("brand", "legal", nil)
	assert.Equal(t, "New", text)
	assert.Empty(t, errs)
}

func TestFormatMessage_Cycle(t *testing.T) {
	src := "a = { b }\nb = { a }\n"
	r := newResolver(t, src, false)
	text, errs := r.FormatMessage("a", "", nil)
	assert.NotEmpty(t, errs)
	assert.Contains(t, text, "a")
	found := false
	for _, d := range errs {
		if d.Code == diagnostics.CyclicReference || d.Code == diagnostics.MaxDepthExceeded {
			found = true
		}
	}
	assert.True(t, found, "expected CYCLIC_REFERENCE or MAX_DEPTH_EXCEEDED, got %+v", errs)
}

func TestFormatMessage_MissingMessageFallback(t *testing.T) {
	r := newResolver(t, "a = hi\n", false)
	text, errs := r.FormatMessage("missing", "", nil)
	assert.Equal(t, "{missing}", text)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ReferenceNotFound, errs[0].Code)
}

func TestFormatMessage_MissingVariableFallback(t *testing.T) {
	r := newResolver(t, "a = { $x }\n", false)
	text, errs := r.FormatMessage("a", "", nil)
	assert.Equal(t, "{$x}", text)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.VariableNotFound, errs[0].Code)
}

func TestFormatMessage_UnknownFunctionSuggestsClosestName(t *testing.T) {
	r := newResolver(t, "a = { NUMBR(1) }\n", false)
	text, errs := r.FormatMessage("a", "", nil)
	assert.Equal(t, "{!NUMBR}", text)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.FunctionNotFound, errs[0].Code)
	require.Len(t, errs[0].Args, 2)
	assert.Equal(t, "NUMBR", errs[0].Args[0])
	assert.Equal(t, "NUMBER", errs[0].Args[1])
}

func TestFormatMessage_UnknownFunctionNoCloseMatch(t *testing.T) {
	r := newResolver(t, "a = { ZZZZZZZZ(1) }\n", false)
	_, errs := r.FormatMessage("a", "", nil)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.FunctionNotFound, errs[0].Code)
	assert.Len(t, errs[0].Args, 1)
}

func TestFormatMessage_TermScopeIsolation(t *testing.T) {
	src := "greet = { -thing }\n-thing = { $x }\n"
	r := newResolver(t, src, false)
	text, errs := r.FormatMessage("greet", "", map[string]registry.Value{
		"x": registry.StringValue("caller-value"),
	})
	// The term sees no variables from greet's scope, so $x is unbound
	// inside -thing and falls back to {$x}.
	assert.Equal(t, "{$x}", text)
	require.NotEmpty(t, errs)
}

func TestFormatMessage_TermScopeExplicitArgument(t *testing.T) {
	src := "greet = { -thing(x: $x) }\n-thing = { $x }\n"
	r := newResolver(t, src, false)
	text, errs := r.FormatMessage("greet", "", map[string]registry.Value{
		"x": registry.StringValue("hi"),
	})
	assert.Equal(t, "hi", text)
	assert.Empty(t, errs)
}

func TestFormatMessage_BoolSelectorBypassesPlural(t *testing.T) {
	src := "msg = { $flag ->\n  [true] yes\n  [false] no\n *[other] unknown\n}\n"
	r := newResolver(t, src, false)

	text, errs := r.FormatMessage("msg", "", map[string]registry.Value{"flag": registry.BoolValue(true)})
	assert.Equal(t, "yes", text)
	assert.Empty(t, errs)

	text, errs = r.FormatMessage("msg", "", map[string]registry.Value{"flag": registry.BoolValue(false)})
	assert.Equal(t, "no", text)
	assert.Empty(t, errs)
}

func TestFormatMessage_UseIsolatingWrapsVariable(t *testing.T) {
	r := newResolver(t, "greet = Hi, { $name }!\n", true)
	text, _ := r.FormatMessage("greet", "", map[string]registry.Value{
		"name": registry.StringValue("Amy"),
	})
	assert.Contains(t, text, "⁨Amy⁩")
}

func TestFormatMessage_DateTimeBuiltin(t *testing.T) {
	r := newResolver(t, "msg = { DATETIME($d) }\n", false)
	text, errs := r.FormatMessage("msg", "", map[string]registry.Value{
		"d": registry.DateTimeValue{T: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	assert.NotEmpty(t, text)
	assert.Empty(t, errs)
}
