package lexicon

import (
	"errors"
	"fmt"
)

// DefaultMaxAttempts bounds how many candidates Root tries before giving up.
const DefaultMaxAttempts = 100

// NoVowelRunLimit lets any number of vowel-only syllables follow each other.
const NoVowelRunLimit = -1

// Rules are the phonotactic and shape constraints for generated roots.
type Rules struct {
	Patterns     []Pattern
	MinSyllables int
	MaxSyllables int
	// IllegalSequences are substrings a root may not contain.
	IllegalSequences []string
	// MaxVowelSyllablesInARow caps consecutive vowel-only syllables. Zero
	// allows none; NoVowelRunLimit removes the cap. Vowel-only patterns are
	// still used when no other pattern exists.
	MaxVowelSyllablesInARow int
	// MaxAttempts defaults to DefaultMaxAttempts when zero.
	MaxAttempts int
}

// Validate checks the rules are internally consistent.
func (r Rules) Validate() error {
	var errs []error
	if len(r.Patterns) == 0 {
		errs = append(errs, errors.New("at least one syllable pattern is required"))
	}
	for _, p := range r.Patterns {
		if _, err := ParsePattern(string(p)); err != nil {
			errs = append(errs, err)
		}
	}
	if r.MinSyllables < 1 {
		errs = append(errs, fmt.Errorf("min syllables must be at least 1, got %d", r.MinSyllables))
	}
	if r.MaxSyllables < r.MinSyllables {
		errs = append(errs, fmt.Errorf("max syllables (%d) is less than min syllables (%d)", r.MaxSyllables, r.MinSyllables))
	}
	if r.MaxVowelSyllablesInARow < NoVowelRunLimit {
		errs = append(errs, fmt.Errorf("max vowel syllables in a row must be %d (no limit) or at least 0, got %d",
			NoVowelRunLimit, r.MaxVowelSyllablesInARow))
	}
	if r.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("max attempts must not be negative, got %d", r.MaxAttempts))
	}
	for _, s := range r.IllegalSequences {
		if s == "" {
			errs = append(errs, errors.New("illegal sequences must not be empty strings"))
			break
		}
	}
	return errors.Join(errs...)
}

func (r Rules) attempts() int {
	if r.MaxAttempts == 0 {
		return DefaultMaxAttempts
	}
	return r.MaxAttempts
}
