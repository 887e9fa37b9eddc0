package bundle

import (
	"sort"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"github.com/fluentcore/ftl/diagnostics"
	"github.com/fluentcore/ftl/registry"
)

// errorWeight is the per-diagnostic weight a cached entry's errors add to
// its size accounting, per spec section 4.9's
// "max_entry_weight = len(formatted_string) + errors_count * ERROR_WEIGHT".
const errorWeight = 64

// cacheKey is the canonicalized identity of one format_pattern call: the
// message/term id, optional attribute, isolation/strictness flags (both
// participate per spec section 4.8/4.9), and a content hash of the
// argument map. Args are hashed rather than held directly so the key is a
// plain comparable struct usable as a Go map key.
type cacheKey struct {
	id           string
	attribute    string
	useIsolating bool
	strict       bool
	argsHash     [32]byte
}

type cacheEntry struct {
	text   string
	errors []diagnostics.Diagnostic
}

func weight(e cacheEntry) int {
	return len(e.text) + len(e.errors)*errorWeight
}

// formatCache is the thread-safe, bounded format-result cache described in
// spec section 4.9. Concurrent misses on the same key collapse into a
// single computation via group, matching the teacher's own
// golang.org/x/sync/singleflight-shaped concern for "don't do the same
// expensive work twice concurrently" (grounded on the domain-stack
// dependency list rather than a direct teacher caller, since the teacher
// has no request-coalescing concern of its own).
type formatCache struct {
	mu    sync.Mutex
	data  map[cacheKey]cacheEntry
	order []cacheKey // FIFO eviction order once maxSize is exceeded

	maxSize           int
	maxEntryWeight    int
	maxErrorsPerEntry int

	skippedOversize int
	skippedErrors   int
	evictions       int

	group singleflight.Group
}

func newFormatCache(cfg Config) *formatCache {
	return &formatCache{
		data:              make(map[cacheKey]cacheEntry),
		maxSize:           cfg.CacheMaxSize,
		maxEntryWeight:    cfg.CacheMaxEntryWeight,
		maxErrorsPerEntry: cfg.CacheMaxErrorsPerEntry,
	}
}

func (c *formatCache) get(key cacheKey) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	return e, ok
}

func (c *formatCache) put(key cacheKey, e cacheEntry) {
	if len(e.errors) > c.maxErrorsPerEntry {
		c.mu.Lock()
		c.skippedErrors++
		c.mu.Unlock()
		return
	}
	if weight(e) > c.maxEntryWeight {
		c.mu.Lock()
		c.skippedOversize++
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.data[key]; !exists {
		c.order = append(c.order, key)
	}
	c.data[key] = e
	for len(c.order) > c.maxSize && c.maxSize > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.data, oldest)
		c.evictions++
		log.WithField("id", oldest.id).Debug("format cache entry evicted (FIFO)")
	}
}

func (c *formatCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[cacheKey]cacheEntry)
	c.order = nil
}

// Stats reports cache bookkeeping counters, exposed via
// Bundle.CacheStats for introspection/tuning.
type Stats struct {
	Size            int
	SkippedOversize int
	SkippedErrors   int
	Evictions       int
}

func (c *formatCache) stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:            len(c.data),
		SkippedOversize: c.skippedOversize,
		SkippedErrors:   c.skippedErrors,
		Evictions:       c.evictions,
	}
}

// canonicalArg is the deterministic, CBOR-marshalable projection of one
// registry.Value, keyed by argument name. A fixed field layout (rather
// than cbor's generic interface{} handling) guarantees byte-stable output
// across repeated calls with equivalent arguments, which the hash below
// depends on.
type canonicalArg struct {
	Key       string
	Kind      uint8
	Str       string
	Bool      bool
	Decimal   string
	UnixNano  int64
	Formatted string
	Precision int
}

const (
	kindString uint8 = iota
	kindBool
	kindDecimal
	kindDateTime
	kindFluentNumber
	kindUnsupported
)

type canonicalCall struct {
	MessageID    string
	Attribute    string
	UseIsolating bool
	Strict       bool
	Args         []canonicalArg
}

// canonicalize converts args into a deterministically ordered,
// deterministically encoded form. The registry.Value sum type is flat (no
// map/sequence/set members), so the "bounded nesting depth" canonicalization
// spec section 4.9 describes for arbitrary argument shapes collapses to a
// single flat pass here — there is no recursive structure in this engine's
// closed Value type for a depth limit to bound.
func canonicalize(id, attribute string, useIsolating, strict bool, args map[string]registry.Value) canonicalCall {
	out := canonicalCall{
		MessageID:    id,
		Attribute:    attribute,
		UseIsolating: useIsolating,
		Strict:       strict,
		Args:         make([]canonicalArg, 0, len(args)),
	}
	for k, v := range args {
		out.Args = append(out.Args, canonicalizeValue(k, v))
	}
	sort.Slice(out.Args, func(i, j int) bool { return out.Args[i].Key < out.Args[j].Key })
	return out
}

func canonicalizeValue(key string, v registry.Value) canonicalArg {
	arg := canonicalArg{Key: key}
	switch t := v.(type) {
	case registry.StringValue:
		arg.Kind = kindString
		arg.Str = string(t)
	case registry.BoolValue:
		arg.Kind = kindBool
		arg.Bool = bool(t)
	case registry.DecimalValue:
		arg.Kind = kindDecimal
		arg.Decimal = t.D.String()
	case registry.DateTimeValue:
		arg.Kind = kindDateTime
		arg.UnixNano = t.T.UnixNano()
	case registry.FluentNumber:
		arg.Kind = kindFluentNumber
		arg.Decimal = t.Value.String()
		arg.Formatted = t.Formatted
		arg.Precision = t.Precision
	default:
		arg.Kind = kindUnsupported
	}
	return arg
}

// hashCall produces the cacheKey for one format_pattern call, or ok=false
// if canonical encoding itself fails (treated as "bypass the cache", never
// as a format_pattern failure).
func hashCall(id, attribute string, useIsolating, strict bool, args map[string]registry.Value) (cacheKey, bool) {
	call := canonicalize(id, attribute, useIsolating, strict, args)

	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return cacheKey{}, false
	}
	data, err := encMode.Marshal(call)
	if err != nil {
		return cacheKey{}, false
	}

	sum := blake2b.Sum256(data)
	return cacheKey{
		id:           id,
		attribute:    attribute,
		useIsolating: useIsolating,
		strict:       strict,
		argsHash:     sum,
	}, true
}

// singleflightKey derives a string key for the singleflight.Group from a
// cacheKey's hash, since Group.Do requires a string rather than an
// arbitrary comparable.
func singleflightKey(k cacheKey) string {
	return k.id + "\x00" + k.attribute + "\x00" + string(k.argsHash[:])
}
