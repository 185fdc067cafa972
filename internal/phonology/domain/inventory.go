package domain

import (
	"iter"
	"slices"
)

// Inventory is the phonetic inventory of one language: a set of phonemes
// unique by symbol, kept in insertion order.
//
// An Inventory is not safe for concurrent mutation; each language owns its
// own inventory.
type Inventory struct {
	language string
	order    []string
	bySymbol map[string]Phoneme
}

// NewInventory creates an empty inventory for the given language.
func NewInventory(language string) *Inventory {
	return &Inventory{
		language: language,
		bySymbol: make(map[string]Phoneme),
	}
}

// NewInventoryFrom creates an inventory seeded with phonemes in order.
// It fails on the first duplicate symbol.
func NewInventoryFrom(language string, phonemes ...Phoneme) (*Inventory, error) {
	inv := NewInventory(language)
	for _, p := range phonemes {
		if err := inv.Add(p); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// Language returns the language identifier.
func (inv *Inventory) Language() string {
	return inv.language
}

// Add inserts p. It returns a *DuplicatePhonemeError when a phoneme with
// the same symbol is already present, leaving the inventory unchanged.
func (inv *Inventory) Add(p Phoneme) error {
	if p.IsZero() {
		return &InvalidSymbolError{Symbol: "", Reason: "symbol is empty"}
	}
	if existing, ok := inv.bySymbol[p.symbol]; ok {
		return &DuplicatePhonemeError{Language: inv.language, Symbol: p.symbol, Existing: existing.class}
	}
	inv.bySymbol[p.symbol] = p
	inv.order = append(inv.order, p.symbol)
	return nil
}

// Remove deletes the phoneme with the given symbol.
func (inv *Inventory) Remove(symbol string) error {
	if _, ok := inv.bySymbol[symbol]; !ok {
		return &PhonemeNotFoundError{Language: inv.language, Symbol: symbol}
	}
	delete(inv.bySymbol, symbol)
	if i := slices.Index(inv.order, symbol); i >= 0 {
		inv.order = slices.Delete(inv.order, i, i+1)
	}
	return nil
}

// Contains reports whether a phoneme with the symbol is present.
func (inv *Inventory) Contains(symbol string) bool {
	_, ok := inv.bySymbol[symbol]
	return ok
}

// Get returns the phoneme with the symbol.
func (inv *Inventory) Get(symbol string) (Phoneme, error) {
	p, ok := inv.bySymbol[symbol]
	if !ok {
		return Phoneme{}, &PhonemeNotFoundError{Language: inv.language, Symbol: symbol}
	}
	return p, nil
}

// Size returns the number of phonemes.
func (inv *Inventory) Size() int {
	return len(inv.order)
}

// Count returns the number of phonemes of class c.
func (inv *Inventory) Count(c Class) int {
	n := 0
	for range inv.AllOfClass(c) {
		n++
	}
	return n
}

// Phonemes yields every phoneme in insertion order.
func (inv *Inventory) Phonemes() iter.Seq[Phoneme] {
	return func(yield func(Phoneme) bool) {
		for _, sym := range inv.order {
			if !yield(inv.bySymbol[sym]) {
				return
			}
		}
	}
}

// AllOfClass yields the phonemes of class c in insertion order. The
// sequence is lazy and can be ranged over any number of times; each pass
// reflects the inventory at the time of iteration.
func (inv *Inventory) AllOfClass(c Class) iter.Seq[Phoneme] {
	return func(yield func(Phoneme) bool) {
		for _, sym := range inv.order {
			p := inv.bySymbol[sym]
			if p.class != c {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the inventory.
func (inv *Inventory) Clone() *Inventory {
	out := &Inventory{
		language: inv.language,
		order:    slices.Clone(inv.order),
		bySymbol: make(map[string]Phoneme, len(inv.bySymbol)),
	}
	for k, v := range inv.bySymbol {
		out.bySymbol[k] = v
	}
	return out
}
