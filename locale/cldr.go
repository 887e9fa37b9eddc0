package locale

// CLDROracle is the default Oracle implementation, backed by
// golang.org/x/text's language/currency/number/message packages for
// locale-symbol knowledge and this package's own CLDR-rule tables for
// plural category selection. It holds no per-call state; every exported
// method is a pure function of its arguments plus the package-level caches
// in currency.go/number.go, so a single CLDROracle is safe to share across
// every Bundle in a process.
type CLDROracle struct{}

// NewCLDROracle returns the default Oracle.
func NewCLDROracle() *CLDROracle {
	return &CLDROracle{}
}
