package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	// ErrInvalidSymbol indicates a phoneme symbol was rejected.
	ErrInvalidSymbol = errors.New("invalid phoneme symbol")

	// ErrInvalidClass indicates an unknown phonetic class.
	ErrInvalidClass = errors.New("invalid phonetic class")

	// ErrDuplicatePhoneme indicates the inventory already holds the symbol.
	ErrDuplicatePhoneme = errors.New("duplicate phoneme")

	// ErrPhonemeNotFound indicates the inventory has no phoneme with the symbol.
	ErrPhonemeNotFound = errors.New("phoneme not found")
)

// InvalidSymbolError reports a symbol rejected by a SymbolPolicy.
type InvalidSymbolError struct {
	Symbol string
	Reason string
}

// Error implements the error interface.
func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid phoneme symbol %q: %s", e.Symbol, e.Reason)
}

// Is matches ErrInvalidSymbol.
func (e *InvalidSymbolError) Is(target error) bool {
	return target == ErrInvalidSymbol
}

// InvalidClassError reports an unknown class name.
type InvalidClassError struct {
	Class string
}

// Error implements the error interface.
func (e *InvalidClassError) Error() string {
	return fmt.Sprintf("invalid phonetic class %q (want consonant or vowel)", e.Class)
}

// Is matches ErrInvalidClass.
func (e *InvalidClassError) Is(target error) bool {
	return target == ErrInvalidClass
}

// DuplicatePhonemeError indicates an attempt to add a symbol that the
// inventory already holds.
type DuplicatePhonemeError struct {
	Language string
	Symbol   string
	Existing Class
}

// Error implements the error interface.
func (e *DuplicatePhonemeError) Error() string {
	return fmt.Sprintf("duplicate phoneme: symbol=%q language=%q (already a %s)", e.Symbol, e.Language, e.Existing)
}

// Is matches ErrDuplicatePhoneme.
func (e *DuplicatePhonemeError) Is(target error) bool {
	return target == ErrDuplicatePhoneme
}

// PhonemeNotFoundError indicates a lookup or removal of an absent symbol.
type PhonemeNotFoundError struct {
	Language string
	Symbol   string
}

// Error implements the error interface.
func (e *PhonemeNotFoundError) Error() string {
	return fmt.Sprintf("phoneme not found: symbol=%q language=%q", e.Symbol, e.Language)
}

// Is matches ErrPhonemeNotFound.
func (e *PhonemeNotFoundError) Is(target error) bool {
	return target == ErrPhonemeNotFound
}

// InventoryNotFoundError indicates that no inventory is stored for the
// language.
type InventoryNotFoundError struct {
	Language string
}

// Error implements the error interface.
func (e *InventoryNotFoundError) Error() string {
	return fmt.Sprintf("inventory not found: language=%q", e.Language)
}

// InventoryExistsError indicates an attempt to create an inventory for a
// language that already has one.
type InventoryExistsError struct {
	Language string
}

// Error implements the error interface.
func (e *InventoryExistsError) Error() string {
	return fmt.Sprintf("inventory already exists: language=%q", e.Language)
}
