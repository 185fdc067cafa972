// Package domain implements the phonology domain layer: phonemes and the
// phonetic inventory of a constructed language.
//
// This package follows the same layering as the rest of lexicon:
//   - Contains only pure Go code with standard library imports
//   - Defines the Phoneme value type and the Inventory aggregate
//   - Enforces symbol uniqueness and answers classification queries
//   - Has no knowledge of persistence, files or the CLI
//
// # Core Types
//
// Phoneme is an immutable sound unit: a symbol such as "p", "tʃ" or "a" and
// a Class (consonant or vowel). Identity is the symbol alone.
//
// Inventory holds the phonemes of one language in insertion order.
// AllOfClass, Contains and Get form the query surface consumed by the
// generator.
//
// # Symbol Policies
//
// SymbolPolicy decides which symbols are acceptable and what their
// canonical spelling is. AnySymbol accepts any non-empty token; stricter
// policies live in the policy package.
//
// # Import Aliasing
//
// The application layer is also called application. When importing both,
// alias them:
//
//	import (
//	    phon "github.com/lexicon-lang/lexicon/internal/phonology/domain"
//	    appphon "github.com/lexicon-lang/lexicon/internal/phonology/application"
//	)
package domain
