package domain

// Phoneme is one distinct speech sound of a language. The zero value is not
// a valid phoneme; construct with NewPhoneme or NewPhonemeWithPolicy.
type Phoneme struct {
	symbol string
	class  Class
}

// NewPhoneme creates a phoneme using the AnySymbol policy.
func NewPhoneme(symbol string, class Class) (Phoneme, error) {
	return NewPhonemeWithPolicy(AnySymbol, symbol, class)
}

// NewPhonemeWithPolicy creates a phoneme whose symbol is validated and
// canonicalised by policy. A nil policy means AnySymbol.
func NewPhonemeWithPolicy(policy SymbolPolicy, symbol string, class Class) (Phoneme, error) {
	if policy == nil {
		policy = AnySymbol
	}
	if !class.Valid() {
		return Phoneme{}, &InvalidClassError{Class: string(class)}
	}
	canonical, err := policy.Canonical(symbol)
	if err != nil {
		return Phoneme{}, err
	}
	if canonical == "" {
		return Phoneme{}, &InvalidSymbolError{Symbol: symbol, Reason: "symbol is empty"}
	}
	return Phoneme{symbol: canonical, class: class}, nil
}

// MustPhoneme is like NewPhoneme but panics on error. Intended for
// literals in tests and built-in tables.
func MustPhoneme(symbol string, class Class) Phoneme {
	p, err := NewPhoneme(symbol, class)
	if err != nil {
		panic(err)
	}
	return p
}

// Symbol returns the phoneme's symbol, which is also its identity.
func (p Phoneme) Symbol() string {
	return p.symbol
}

// Class returns the phonetic class.
func (p Phoneme) Class() Class {
	return p.class
}

// Equal reports whether p and other denote the same sound. Class is not
// part of identity.
func (p Phoneme) Equal(other Phoneme) bool {
	return p.symbol == other.symbol
}

// IsZero reports whether p is the zero value.
func (p Phoneme) IsZero() bool {
	return p.symbol == ""
}

// String returns the symbol.
func (p Phoneme) String() string {
	return p.symbol
}
