package lexicon

import (
	"fmt"
	"strings"

	phon "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// Pattern is a syllable template over C (consonant) and V (vowel) slots.
type Pattern string

// InvalidPatternError reports a syllable pattern that is empty or contains
// a slot other than C or V.
type InvalidPatternError struct {
	Pattern string
}

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid syllable pattern %q (use only C and V)", e.Pattern)
}

// ParsePattern upper-cases s and checks it only contains C and V.
func ParsePattern(s string) (Pattern, error) {
	p := strings.ToUpper(strings.TrimSpace(s))
	if p == "" {
		return "", &InvalidPatternError{Pattern: s}
	}
	for _, r := range p {
		if r != 'C' && r != 'V' {
			return "", &InvalidPatternError{Pattern: s}
		}
	}
	return Pattern(p), nil
}

// ParsePatterns parses every entry of ss.
func ParsePatterns(ss []string) ([]Pattern, error) {
	out := make([]Pattern, 0, len(ss))
	for _, s := range ss {
		p, err := ParsePattern(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// VowelOnly reports whether every slot is V.
func (p Pattern) VowelOnly() bool {
	return p != "" && strings.Trim(string(p), "V") == ""
}

// Needs reports whether the pattern has a slot of class c.
func (p Pattern) Needs(c phon.Class) bool {
	switch c {
	case phon.ClassConsonant:
		return strings.ContainsRune(string(p), 'C')
	case phon.ClassVowel:
		return strings.ContainsRune(string(p), 'V')
	}
	return false
}
