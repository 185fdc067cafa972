// Package lexicon generates roots and derived words for a constructed
// language from its phonetic inventory.
//
// A Generator reads the inventory only through its query surface: it
// snapshots AllOfClass for consonants and vowels once, in insertion order,
// so output depends only on the inventory, the Rules and the seed.
//
//	gen, err := lexicon.NewGenerator(inv, rules, 42)
//	roots, err := gen.Lexicon(20, vocab)
//	word := gen.Derive(roots[0], morphology)
package lexicon
