package domain

import "strings"

// Class is the phonetic class of a phoneme.
type Class string

const (
	ClassConsonant Class = "consonant"
	ClassVowel     Class = "vowel"
)

// Classes returns every valid class in display order.
func Classes() []Class {
	return []Class{ClassConsonant, ClassVowel}
}

// Valid reports whether c is one of the known classes.
func (c Class) Valid() bool {
	return c == ClassConsonant || c == ClassVowel
}

// String returns the class name.
func (c Class) String() string {
	return string(c)
}

// ParseClass accepts "consonant"/"vowel" in any case, the single-letter
// pattern forms "C"/"V", and returns ErrInvalidClass otherwise.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "consonant", "c":
		return ClassConsonant, nil
	case "vowel", "v":
		return ClassVowel, nil
	default:
		return "", &InvalidClassError{Class: s}
	}
}
