package domain

// SymbolPolicy validates a phoneme symbol and returns its canonical form.
// Implementations return an *InvalidSymbolError for rejected symbols.
type SymbolPolicy interface {
	Canonical(symbol string) (string, error)
}

// SymbolPolicyFunc adapts a function to SymbolPolicy.
type SymbolPolicyFunc func(symbol string) (string, error)

// Canonical calls f.
func (f SymbolPolicyFunc) Canonical(symbol string) (string, error) {
	return f(symbol)
}

// AnySymbol accepts any non-empty token unchanged.
var AnySymbol SymbolPolicy = SymbolPolicyFunc(func(symbol string) (string, error) {
	if symbol == "" {
		return "", &InvalidSymbolError{Symbol: symbol, Reason: "symbol is empty"}
	}
	return symbol, nil
})
