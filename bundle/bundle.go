// Package bundle ties the parser, validator, registry, locale, and
// resolver packages together into the thread-safe runtime container spec
// section 4.9 describes: a locale-scoped set of messages/terms/functions,
// an optional format-result cache, and the introspection surface built on
// top of it. Bundle is the only package in this module that callers
// outside the engine are expected to import directly.
package bundle

import (
	"sync"

	"github.com/fluentcore/ftl/ast"
	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/internal/ftllog"
	"github.com/fluentcore/ftl/locale"
	"github.com/fluentcore/ftl/parser"
	"github.com/fluentcore/ftl/registry"
	"github.com/fluentcore/ftl/resolver"
)

var log = ftllog.For("bundle")

// Bundle is safe for concurrent use. Reads (FormatPattern, HasMessage,
// HasAttribute, Introspect*) take a shared lock; writes (AddResource,
// AddFunction, ClearCache) take an exclusive one. Messages and terms are
// stored as plain maps swapped wholesale on every write (copy-on-write at
// the map level) specifically so readers that have already taken a
// snapshot under RLock never need to re-acquire the lock while evaluating
// a pattern — avoiding the reentrant-RLock hazard Go's sync.RWMutex does
// not support (a goroutine that calls RLock twice can deadlock against a
// blocked writer). Every method that needs consistent cross-map state
// takes exactly one lock for the duration of its own body and never nests
// a second acquisition inside it.
type Bundle struct {
	mu sync.RWMutex

	locale string
	oracle locale.Oracle
	cfg    Config

	messages map[string]*ast.Message
	terms    map[string]*ast.Term

	functions        *registry.Registry
	functionsMutated bool

	cache      *formatCache
	introspect *introspectCache

	mutatedInScope bool
}

// New validates locale against oracle's shape check and builds an empty
// Bundle backed by a frozen default function registry (NUMBER, DATETIME,
// CURRENCY). The registry is only cloned into a mutable copy on this
// Bundle's first AddFunction call — copy-on-write per spec section 4.9 —
// so a Bundle that never registers a custom function never pays for a
// second registry allocation. The returned Diagnostic slice carries a
// single LocaleCodeExtended warning when loc is well-formed but falls in
// the 36-1000 char "extended" length range (spec section 4.6); it is empty
// for the common, "standard" (<=35 char) case.
func New(loc string, oracle locale.Oracle, opts ...Option) (*Bundle, []diagnostics.Diagnostic, error) {
	wellFormed, _, extended := oracle.ValidateLocale(loc)
	if !wellFormed {
		return nil, nil, &LocaleError{Locale: loc, Reason: "does not match the BCP-47-shaped locale code grammar"}
	}
	var diags []diagnostics.Diagnostic
	if extended {
		diags = append(diags, extendedLocaleWarning(loc))
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Bundle{
		locale:     loc,
		oracle:     oracle,
		cfg:        cfg,
		messages:   make(map[string]*ast.Message),
		terms:      make(map[string]*ast.Term),
		functions:  registry.NewDefaultRegistry(oracle),
		introspect: newIntrospectCache(),
	}
	if cfg.CacheEnabled {
		b.cache = newFormatCache(cfg)
	}
	return b, diags, nil
}

// Locale returns the Bundle's validated locale code.
func (b *Bundle) Locale() string { return b.locale }

// AddResource parses src and registers its Messages and Terms. Parsing
// happens before any lock is taken — the parser is a pure function of its
// input, so there is no reason to hold the exclusive lock across it; only
// the registration step that follows needs exclusive access. Returns one
// Diagnostic per Junk entry plus one OverwriteWarning per id collision
// with an already-registered message or term; never raises except a
// source-size *diagnostics.SizeLimitError, a depth/token-length
// *diagnostics.ParseErr, or — in strict mode — a
// *diagnostics.SyntaxIntegrityError when the parsed resource contains Junk.
func (b *Bundle) AddResource(src string) ([]diagnostics.Diagnostic, error) {
	res, parseDiags, err := parser.Parse(src,
		parser.WithMaxSourceSize(b.cfg.MaxSourceSize),
		parser.WithMaxNestingDepth(b.cfg.MaxNestingDepth),
	)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	diags := append([]diagnostics.Diagnostic{}, parseDiags...)

	newMessages := make(map[string]*ast.Message, len(b.messages))
	for k, v := range b.messages {
		newMessages[k] = v
	}
	for _, m := range res.Messages() {
		id := string(m.ID)
		if _, exists := newMessages[id]; exists {
			diags = append(diags, overwriteWarning("message", id))
		}
		newMessages[id] = m
	}

	newTerms := make(map[string]*ast.Term, len(b.terms))
	for k, v := range b.terms {
		newTerms[k] = v
	}
	for _, t := range res.Terms() {
		id := string(t.ID)
		if _, exists := newTerms[id]; exists {
			diags = append(diags, overwriteWarning("term", id))
		}
		newTerms[id] = t
	}

	b.messages = newMessages
	b.terms = newTerms
	b.mutatedInScope = true
	if b.cache != nil {
		b.cache.clear()
	}
	b.introspect.invalidate()
	b.mu.Unlock()

	log.WithFields(map[string]interface{}{
		"locale":   b.locale,
		"messages": len(res.Messages()),
		"terms":    len(res.Terms()),
		"junk":     len(res.Junks()),
	}).Debug("resource registered")

	if b.cfg.Strict {
		if junk := res.Junks(); len(junk) > 0 {
			return diags, &diagnostics.SyntaxIntegrityError{
				Junk:        len(junk),
				Diagnostics: diags,
			}
		}
	}
	return diags, nil
}

// AddFunction registers a user-supplied function under sig. The first call
// on a Bundle clones the shared default registry (copy-on-write); every
// call after that mutates the Bundle's own clone directly.
func (b *Bundle) AddFunction(sig registry.Signature, fn registry.Callable) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.functionsMutated {
		b.functions = b.functions.Clone()
		b.functionsMutated = true
	}
	if err := b.functions.Register(sig, fn); err != nil {
		return err
	}
	b.mutatedInScope = true
	if b.cache != nil {
		b.cache.clear()
	}
	return nil
}

// HasMessage reports whether id is registered as a message.
func (b *Bundle) HasMessage(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.messages[id]
	return ok
}

// HasTerm reports whether id is registered as a term.
func (b *Bundle) HasTerm(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.terms[id]
	return ok
}

// HasAttribute reports whether message id exists and declares an
// attribute named attr.
func (b *Bundle) HasAttribute(id, attr string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.messages[id]
	if !ok {
		return false
	}
	for _, a := range m.Attributes {
		if string(a.ID) == attr {
			return true
		}
	}
	return false
}

// FormatPattern resolves message id (or one of its attributes) against
// args. In non-strict mode (the default) it always returns a string and
// never an error, substituting the documented fallback text for any
// unresolvable reference and reporting every such substitution in the
// returned diagnostic slice. In strict mode, a non-empty diagnostic list
// is instead raised as a *diagnostics.FormattingIntegrityError carrying
// the fallback string non-strict mode would have returned.
func (b *Bundle) FormatPattern(id string, args map[string]registry.Value, attribute string) (string, []diagnostics.Diagnostic, error) {
	b.mu.RLock()
	messages, terms, functions, cfg := b.messages, b.terms, b.functions, b.cfg
	cache := b.cache
	b.mu.RUnlock()

	var key cacheKey
	cacheable := false
	if cache != nil {
		if k, ok := hashCall(id, attribute, cfg.UseIsolating, cfg.Strict, args); ok {
			key = k
			cacheable = true
			if entry, hit := cache.get(key); hit {
				return entry.text, entry.errors, nil
			}
		}
	}

	compute := func() cacheEntry {
		r := resolver.New(b.locale,
			func(mid string) (*ast.Message, bool) { m, ok := messages[mid]; return m, ok },
			func(tid string) (*ast.Term, bool) { t, ok := terms[tid]; return t, ok },
			functions, b.oracle, cfg.UseIsolating, cfg.MaxNestingDepth,
		)
		text, errs := r.FormatMessage(id, attribute, args)
		return cacheEntry{text: text, errors: errs}
	}

	var entry cacheEntry
	if cacheable {
		v, _, _ := cache.group.Do(singleflightKey(key), func() (interface{}, error) {
			e := compute()
			cache.put(key, e)
			return e, nil
		})
		entry = v.(cacheEntry)
	} else {
		entry = compute()
	}

	if cfg.Strict && len(entry.errors) > 0 {
		return "", entry.errors, &diagnostics.FormattingIntegrityError{
			MessageID:     id,
			Diagnostics:   entry.errors,
			FallbackValue: entry.text,
		}
	}
	return entry.text, entry.errors, nil
}

// IntrospectMessage walks message id's pattern and attributes, returning
// every variable, reference, and function name it touches.
func (b *Bundle) IntrospectMessage(id string) (Introspection, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.messages[id]
	if !ok {
		return Introspection{}, false
	}
	return b.introspect.message(id, m.Value, m.Attributes), true
}

// IntrospectTerm is IntrospectMessage's term-namespace counterpart.
func (b *Bundle) IntrospectTerm(id string) (Introspection, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.terms[id]
	if !ok {
		return Introspection{}, false
	}
	return b.introspect.term(id, t.Value, t.Attributes), true
}

// ClearCache empties the format-result cache. Exposed directly in addition
// to the implicit clear on every AddResource/AddFunction call, for callers
// that want to reclaim memory without registering anything new.
func (b *Bundle) ClearCache() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cache != nil {
		b.cache.clear()
	}
}

// CacheStats reports the format cache's bookkeeping counters, or the zero
// Stats if caching is disabled.
func (b *Bundle) CacheStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.cache == nil {
		return Stats{}
	}
	return b.cache.stats()
}

// WithScope runs fn against b and clears the format cache afterward only
// if fn (or any concurrent caller) mutated the Bundle during the call —
// the Go rendition of spec section 4.9's "on __exit__ of the bundle as a
// scoped resource, the cache is cleared only if the bundle was mutated
// during the scope", since Go has no context-manager protocol to hook
// into directly.
func (b *Bundle) WithScope(fn func(*Bundle) error) error {
	b.mu.Lock()
	b.mutatedInScope = false
	b.mu.Unlock()

	err := fn(b)

	b.mu.Lock()
	mutated := b.mutatedInScope
	b.mu.Unlock()

	if mutated && b.cache != nil {
		b.cache.clear()
	}
	return err
}
