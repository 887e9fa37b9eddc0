package registry

import "strings"

// ParamMapping pairs the FTL-visible named-argument spelling with the
// native parameter name the Callable binds it to — Fluent named arguments
// are free-form identifiers, but a Go function's parameters are fixed, so
// registration records the mapping once rather than re-deriving it on
// every call.
type ParamMapping struct {
	FTLName    string
	NativeName string
}

// Signature is the registration record for one callable: the name it's
// invoked as from FTL source, how many positional arguments it takes,
// its named-argument mapping, and whether the resolver must inject the
// active locale as an implicit argument.
type Signature struct {
	FTLName         string
	PositionalArity int
	ParamMapping    []ParamMapping
	InjectLocale    bool
}

// Callable is the native implementation behind a registered function.
// The resolver passes the bundle's locale as locale only when the
// Signature sets InjectLocale; otherwise locale is the empty string.
type Callable func(positional []Value, named map[string]Value, locale string) (Value, error)

// canonicalizeParam normalizes underscore/hyphen differences so "min_width"
// and "min-width" are recognized as the same parameter name, per the
// collision rule in the registration contract.
func canonicalizeParam(name string) string {
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return strings.ToLower(name)
}

// validate checks the signature's internal consistency: inject_locale
// requires at least a (value, locale) arity, and no two parameter mappings
// may canonicalize to the same native or FTL name.
func (s Signature) validate() error {
	if s.InjectLocale && s.PositionalArity < 2 {
		return &ArityError{FTLName: s.FTLName, Reason: "inject_locale requires positional_arity >= 2 (value, locale)"}
	}

	seenFTL := make(map[string]string)
	seenNative := make(map[string]string)
	for _, p := range s.ParamMapping {
		cftl := canonicalizeParam(p.FTLName)
		if prior, ok := seenFTL[cftl]; ok {
			return &CollisionError{FTLName: s.FTLName, ParamA: prior, ParamB: p.FTLName}
		}
		seenFTL[cftl] = p.FTLName

		cnative := canonicalizeParam(p.NativeName)
		if prior, ok := seenNative[cnative]; ok {
			return &CollisionError{FTLName: s.FTLName, ParamA: prior, ParamB: p.NativeName}
		}
		seenNative[cnative] = p.NativeName
	}
	return nil
}
