package bundle

import "github.com/fluentcore/ftl/internal/cursor"

// Config is the closed set of per-Bundle tunables spec section 6
// enumerates: isolation, strictness, size/depth ceilings, and cache
// sizing. The zero value is never used directly; New always starts from
// DefaultConfig and layers Option values on top.
type Config struct {
	UseIsolating bool
	Strict       bool

	MaxSourceSize   int
	MaxNestingDepth int

	CacheEnabled           bool
	CacheMaxSize           int
	CacheMaxEntryWeight    int
	CacheMaxErrorsPerEntry int
}

// DefaultConfig matches spec section 6's defaults: isolating on, strict
// off, a 10MiB/100-deep ceiling, and caching on with generous bounds.
func DefaultConfig() Config {
	return Config{
		UseIsolating:           true,
		Strict:                 false,
		MaxSourceSize:          cursor.DefaultMaxSourceSize,
		MaxNestingDepth:        cursor.DefaultMaxNestingDepth,
		CacheEnabled:           true,
		CacheMaxSize:           2048,
		CacheMaxEntryWeight:    4096,
		CacheMaxErrorsPerEntry: 4,
	}
}

// Option configures a Bundle at construction time.
type Option func(*Config)

func WithUseIsolating(v bool) Option { return func(c *Config) { c.UseIsolating = v } }
func WithStrict(v bool) Option       { return func(c *Config) { c.Strict = v } }
func WithMaxSourceSize(n int) Option { return func(c *Config) { c.MaxSourceSize = n } }
func WithMaxNestingDepth(n int) Option {
	return func(c *Config) { c.MaxNestingDepth = n }
}
func WithCache(enabled bool) Option { return func(c *Config) { c.CacheEnabled = enabled } }
func WithCacheMaxSize(n int) Option { return func(c *Config) { c.CacheMaxSize = n } }
func WithCacheMaxEntryWeight(n int) Option {
	return func(c *Config) { c.CacheMaxEntryWeight = n }
}
func WithCacheMaxErrorsPerEntry(n int) Option {
	return func(c *Config) { c.CacheMaxErrorsPerEntry = n }
}
