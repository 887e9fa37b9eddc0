package validator

import "github.com/fluentcore/ftl/internal/cursor"

// config holds the bundle-provided context a single resource is validated
// against, plus tunables. The zero value validates a resource in isolation
// (as if it were the only content ever registered).
type config struct {
	knownMessages map[string]bool
	knownTerms    map[string]bool
	knownDeps     map[string][]string
	maxChainDepth int
}

// Option configures a single Validate call.
type Option func(*config)

func defaultConfig() config {
	return config{maxChainDepth: cursor.DefaultMaxNestingDepth}
}

// WithKnownMessages supplies the ids of messages already registered
// elsewhere in the bundle, so references to them don't report
// UNDEFINED_REFERENCE and so new ids that collide with them report
// SHADOW_WARNING instead.
func WithKnownMessages(ids map[string]bool) Option {
	return func(c *config) { c.knownMessages = ids }
}

// WithKnownTerms is WithKnownMessages for the term namespace.
func WithKnownTerms(ids map[string]bool) Option {
	return func(c *config) { c.knownTerms = ids }
}

// WithKnownDependencies supplies the already-computed dependency edges of
// entries registered elsewhere in the bundle, keyed and valued in the same
// "msg:{id}"/"term:{id}" form used internally, so cycle and chain-depth
// analysis can see across resource boundaries without re-walking every
// previously registered resource on each call.
func WithKnownDependencies(deps map[string][]string) Option {
	return func(c *config) { c.knownDeps = deps }
}

// WithMaxChainDepth overrides the longest-dependency-chain threshold past
// which CHAIN_DEPTH_EXCEEDED is reported. Defaults to
// cursor.DefaultMaxNestingDepth, matching the resolver's own nesting budget.
func WithMaxChainDepth(n int) Option {
	return func(c *config) { c.maxChainDepth = n }
}
