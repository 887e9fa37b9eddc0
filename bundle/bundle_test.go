package bundle_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentcore/ftl/bundle"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/locale"
	"github.com/fluentcore/ftl/registry"
)

func newBundle(t *testing.T, opts ...bundle.Option) *bundle.Bundle {
	t.Helper()
	b, _, err := bundle.New("en", locale.NewCLDROracle(), opts...)
	require.NoError(t, err)
	return b
}

func TestNew_RejectsMalformedLocale(t *testing.T) {
	_, _, err := bundle.New("not a locale!!", locale.NewCLDROracle())
	require.Error(t, err)
	var localeErr *bundle.LocaleError
	assert.ErrorAs(t, err, &localeErr)
}

func TestNew_WarnsOnExtendedLocaleLength(t *testing.T) {
	long := "x-" + strings.Repeat("a", 40)
	b, diags, err := bundle.New(long, locale.NewCLDROracle())
	require.NoError(t, err)
	require.NotNil(t, b)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.LocaleCodeExtended, diags[0].Code)
	assert.Equal(t, diagnostics.Warning, diags[0].Severity)
}

func TestAddResource_RegistersMessagesAndTerms(t *testing.T) {
	b := newBundle(t)
	diags, err := b.AddResource("hello = Hello, world!\n-brand = Acme\n")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.True(t, b.HasMessage("hello"))
	assert.True(t, b.HasTerm("brand"))
}

func TestAddResource_OverwriteWarning(t *testing.T) {
	b := newBundle(t)
	_, err := b.AddResource("hello = first\n")
	require.NoError(t, err)
	diags, err := b.AddResource("hello = second\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.DuplicateID, diags[0].Code)

	text, errs, err := b.FormatPattern("hello", nil, "")
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "second", text)
}

func TestAddResource_StrictModeJunkRaises(t *testing.T) {
	b := newBundle(t, bundle.WithStrict(true))
	_, err := b.AddResource("not a valid = = = entry\nok = fine\n")
	require.Error(t, err)
	var syntaxErr *diagnostics.SyntaxIntegrityError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Greater(t, syntaxErr.Junk, 0)
}

func TestFormatPattern_MissingMessageFallback(t *testing.T) {
	b := newBundle(t)
	text, errs, err := b.FormatPattern("nope", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "{nope}", text)
	require.Len(t, errs, 1)
}

func TestFormatPattern_StrictModeRaisesOnError(t *testing.T) {
	b := newBundle(t, bundle.WithStrict(true))
	_, err := b.AddResource("ok = fine\n")
	require.NoError(t, err)

	_, _, err = b.FormatPattern("missing", nil, "")
	require.Error(t, err)
	var fmtErr *diagnostics.FormattingIntegrityError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, "missing", fmtErr.MessageID)
}

func TestFormatPattern_CacheHitReturnsSameResult(t *testing.T) {
	b := newBundle(t)
	_, err := b.AddResource("greet = Hi, { $name }!\n")
	require.NoError(t, err)

	args := map[string]registry.Value{"name": registry.StringValue("Amy")}
	first, _, err := b.FormatPattern("greet", args, "")
	require.NoError(t, err)
	second, _, err := b.FormatPattern("greet", args, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, b.CacheStats().Size)
}

func TestAddFunction_CopyOnWriteDoesNotMutateOtherBundles(t *testing.T) {
	a := newBundle(t)
	bOther := newBundle(t)

	err := a.AddFunction(registry.Signature{
		FTLName:         "SHOUT",
		PositionalArity: 1,
	}, func(positional []registry.Value, named map[string]registry.Value, loc string) (registry.Value, error) {
		s, _ := positional[0].(registry.StringValue)
		return registry.StringValue(fmt.Sprintf("%s!!!", s)), nil
	})
	require.NoError(t, err)

	_, err = a.AddResource(`msg = { SHOUT("hi") }` + "\n")
	require.NoError(t, err)
	text, errs, err := a.FormatPattern("msg", nil, "")
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "⁨hi!!!⁩", text)

	_, err = bOther.AddResource(`msg = { SHOUT("hi") }` + "\n")
	require.NoError(t, err)
	_, errs, err = bOther.FormatPattern("msg", nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
}

func TestIntrospectMessage_CollectsReferences(t *testing.T) {
	b := newBundle(t)
	_, err := b.AddResource("msg = { $count ->\n  [one] { -brand } has { $count } item\n *[other] { -brand } has { $count } items\n}\n-brand = Acme\n")
	require.NoError(t, err)

	ins, ok := b.IntrospectMessage("msg")
	require.True(t, ok)
	assert.True(t, ins.HasSelectors)
	assert.Contains(t, ins.Variables, "count")
	assert.Contains(t, ins.TermReferences, "brand")
}

func TestWithScope_ClearsCacheOnlyWhenMutated(t *testing.T) {
	b := newBundle(t)
	_, err := b.AddResource("msg = hi\n")
	require.NoError(t, err)
	_, _, err = b.FormatPattern("msg", nil, "")
	require.NoError(t, err)
	require.Equal(t, 1, b.CacheStats().Size)

	err = b.WithScope(func(bb *bundle.Bundle) error {
		_, e := bb.IntrospectMessage("msg")
		_ = e
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.CacheStats().Size, "cache should survive an unmutated scope")

	err = b.WithScope(func(bb *bundle.Bundle) error {
		_, e := bb.AddResource("msg = bye\n")
		return e
	})
	require.NoError(t, err)
	assert.Equal(t, 0, b.CacheStats().Size, "cache should be cleared after a mutated scope")
}

func TestFormatPattern_ConcurrentCallsAreConsistent(t *testing.T) {
	b := newBundle(t, bundle.WithUseIsolating(false))
	_, err := b.AddResource("items = { $n ->\n  [one] one item\n *[other] { $n } items\n}\n")
	require.NoError(t, err)

	const n = 1000
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text, _, err := b.FormatPattern("items", map[string]registry.Value{
				"n": registry.DecimalValue{D: decimal.NewFromInt(5)},
			}, "")
			require.NoError(t, err)
			results[i] = text
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, "5 items", r)
	}
}
