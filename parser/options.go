package parser

import "github.com/fluentcore/ftl/internal/cursor"

// Config bounds a single parse: source size, recursion depth, and the
// per-token length ceilings that keep a pathological input from running
// unbounded work before any size/depth guard would otherwise trip.
type Config struct {
	MaxSourceSize          int
	MaxNestingDepth        int
	MaxIdentifierLength    int
	MaxNumberRawLength     int
	MaxStringLiteralLength int
}

func defaultConfig() Config {
	return Config{
		MaxSourceSize:          cursor.DefaultMaxSourceSize,
		MaxNestingDepth:        cursor.DefaultMaxNestingDepth,
		MaxIdentifierLength:    cursor.MaxIdentifierLength,
		MaxNumberRawLength:     cursor.MaxNumberRawLength,
		MaxStringLiteralLength: cursor.MaxStringLiteralLength,
	}
}

// Option configures a Parser at construction time.
type Option func(*Config)

func WithMaxSourceSize(n int) Option {
	return func(c *Config) { c.MaxSourceSize = n }
}

func WithMaxNestingDepth(n int) Option {
	return func(c *Config) { c.MaxNestingDepth = n }
}

func WithMaxIdentifierLength(n int) Option {
	return func(c *Config) { c.MaxIdentifierLength = n }
}

func WithMaxNumberRawLength(n int) Option {
	return func(c *Config) { c.MaxNumberRawLength = n }
}

func WithMaxStringLiteralLength(n int) Option {
	return func(c *Config) { c.MaxStringLiteralLength = n }
}
