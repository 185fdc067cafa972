package sqlite

import (
	"fmt"

	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// InventoryModel is a row of the inventories table.
type InventoryModel struct {
	ID        int64
	Language  string
	CreatedAt int64 // Unix timestamp
	UpdatedAt int64 // Unix timestamp
}

// PhonemeModel is a row of the phonemes table.
type PhonemeModel struct {
	ID          int64
	InventoryID int64
	Symbol      string
	Class       string
	Position    int
}

// toPhonemeModels flattens inv into rows, numbering positions in insertion
// order.
func toPhonemeModels(inventoryID int64, inv *domain.Inventory) []PhonemeModel {
	models := make([]PhonemeModel, 0, inv.Size())
	for p := range inv.Phonemes() {
		models = append(models, PhonemeModel{
			InventoryID: inventoryID,
			Symbol:      p.Symbol(),
			Class:       string(p.Class()),
			Position:    len(models),
		})
	}
	return models
}

// toDomain rebuilds an inventory from rows already sorted by position.
// Stored symbols were validated on the way in, so they are not run through a
// symbol policy again.
func toDomain(inv InventoryModel, rows []PhonemeModel) (*domain.Inventory, error) {
	out := domain.NewInventory(inv.Language)
	for _, row := range rows {
		p, err := domain.NewPhoneme(row.Symbol, domain.Class(row.Class))
		if err != nil {
			return nil, fmt.Errorf("corrupt phoneme row %d: %w", row.ID, err)
		}
		if err := out.Add(p); err != nil {
			return nil, fmt.Errorf("corrupt phoneme row %d: %w", row.ID, err)
		}
	}
	return out, nil
}
