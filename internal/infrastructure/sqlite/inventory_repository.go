package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lexicon-lang/lexicon/internal/log"
	"github.com/lexicon-lang/lexicon/internal/phonology/application"
	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// inventoryRepository implements application.InventoryRepository using SQLite.
type inventoryRepository struct {
	db  *sql.DB
	now func() time.Time
}

func newInventoryRepository(db *sql.DB) *inventoryRepository {
	return &inventoryRepository{db: db, now: time.Now}
}

var _ application.InventoryRepository = (*inventoryRepository)(nil)

// Save upserts the inventory row and rewrites its phonemes in one
// transaction. created_at survives a replace; updated_at does not.
func (r *inventoryRepository) Save(inv *domain.Inventory) (retErr error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			retErr = errors.Join(retErr, ignoreDone(tx.Rollback()))
		}
	}()

	now := r.now().Unix()
	var id int64
	err = tx.QueryRow(
		`INSERT INTO inventories (language, created_at, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(language) DO UPDATE SET updated_at = excluded.updated_at
		 RETURNING id`,
		inv.Language(), now, now,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to upsert inventory: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM phonemes WHERE inventory_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear phonemes: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO phonemes (inventory_id, symbol, class, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare phoneme insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range toPhonemeModels(id, inv) {
		if _, err := stmt.Exec(m.InventoryID, m.Symbol, m.Class, m.Position); err != nil {
			return fmt.Errorf("failed to insert phoneme %q: %w", m.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit inventory: %w", err)
	}
	log.Debug(log.CatDB, "Saved inventory", "language", inv.Language(), "id", id, "phonemes", inv.Size())
	return nil
}

// Load returns the inventory for language with phonemes in insertion order.
// Returns InventoryNotFoundError if no inventory is stored.
func (r *inventoryRepository) Load(language string) (*domain.Inventory, error) {
	var model InventoryModel
	err := r.db.QueryRow(
		`SELECT id, language, created_at, updated_at FROM inventories WHERE language = ?`,
		language,
	).Scan(&model.ID, &model.Language, &model.CreatedAt, &model.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.InventoryNotFoundError{Language: language}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory: %w", err)
	}

	rows, err := r.db.Query(
		`SELECT id, inventory_id, symbol, class, position
		 FROM phonemes
		 WHERE inventory_id = ?
		 ORDER BY position`,
		model.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query phonemes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var phonemes []PhonemeModel
	for rows.Next() {
		var p PhonemeModel
		if err := rows.Scan(&p.ID, &p.InventoryID, &p.Symbol, &p.Class, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan phoneme: %w", err)
		}
		phonemes = append(phonemes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phonemes: %w", err)
	}

	return toDomain(model, phonemes)
}

// Exists reports whether an inventory is stored for language.
func (r *inventoryRepository) Exists(language string) (bool, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM inventories WHERE language = ?`, language).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check inventory: %w", err)
	}
	return n > 0, nil
}

// List returns the stored language identifiers ordered by name.
func (r *inventoryRepository) List() ([]string, error) {
	rows, err := r.db.Query(`SELECT language FROM inventories ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	languages := []string{}
	for rows.Next() {
		var language string
		if err := rows.Scan(&language); err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		languages = append(languages, language)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventories: %w", err)
	}
	return languages, nil
}

// Delete removes the inventory and, through the foreign key cascade, its
// phonemes. Returns InventoryNotFoundError if no inventory is stored.
func (r *inventoryRepository) Delete(language string) error {
	result, err := r.db.Exec(`DELETE FROM inventories WHERE language = ?`, language)
	if err != nil {
		return fmt.Errorf("failed to delete inventory: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &domain.InventoryNotFoundError{Language: language}
	}
	log.Debug(log.CatDB, "Deleted inventory", "language", language)
	return nil
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
