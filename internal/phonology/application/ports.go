package application

import domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"

// InventoryReader reads persisted inventories.
type InventoryReader interface {
	// Load returns the inventory for language or *domain.InventoryNotFoundError.
	Load(language string) (*domain.Inventory, error)
	// Exists reports whether an inventory is stored for language.
	Exists(language string) (bool, error)
	// List returns the stored language identifiers in name order.
	List() ([]string, error)
}

// InventoryWriter persists inventories.
type InventoryWriter interface {
	// Save replaces the stored inventory for inv.Language(), creating it
	// if needed. Phoneme order is preserved.
	Save(inv *domain.Inventory) error
	// Delete removes the inventory or returns *domain.InventoryNotFoundError.
	Delete(language string) error
}

// InventoryRepository combines read and write access.
type InventoryRepository interface {
	InventoryReader
	InventoryWriter
}
