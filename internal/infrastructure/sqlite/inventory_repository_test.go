package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

func protoX(t *testing.T) *domain.Inventory {
	t.Helper()
	var phonemes []domain.Phoneme
	for _, s := range []string{"p", "t", "k", "m", "s"} {
		phonemes = append(phonemes, domain.MustPhoneme(s, domain.ClassConsonant))
	}
	for _, s := range []string{"a", "i", "u", "e", "o"} {
		phonemes = append(phonemes, domain.MustPhoneme(s, domain.ClassVowel))
	}
	inv, err := domain.NewInventoryFrom("Proto-X", phonemes...)
	require.NoError(t, err)
	return inv
}

func symbols(inv *domain.Inventory) []string {
	var out []string
	for p := range inv.Phonemes() {
		out = append(out, p.Symbol())
	}
	return out
}

func TestInventoryRepository_RoundTripPreservesOrder(t *testing.T) {
	repo := newTestDB(t).InventoryRepository()
	inv := protoX(t)

	require.NoError(t, repo.Save(inv))

	got, err := repo.Load("Proto-X")
	require.NoError(t, err)
	assert.Equal(t, "Proto-X", got.Language())
	assert.Equal(t, symbols(inv), symbols(got))
	assert.Equal(t, 5, got.Count(domain.ClassVowel))

	a, err := got.Get("a")
	require.NoError(t, err)
	assert.Equal(t, domain.ClassVowel, a.Class())
}

func TestInventoryRepository_SaveReplacesPhonemes(t *testing.T) {
	repo := newTestDB(t).InventoryRepository()
	inv := protoX(t)
	require.NoError(t, repo.Save(inv))

	require.NoError(t, inv.Remove("p"))
	require.NoError(t, inv.Add(domain.MustPhoneme("tʃ", domain.ClassConsonant)))
	require.NoError(t, repo.Save(inv))

	got, err := repo.Load("Proto-X")
	require.NoError(t, err)
	assert.Equal(t, []string{"t", "k", "m", "s", "a", "i", "u", "e", "o", "tʃ"}, symbols(got))
}

func TestInventoryRepository_SaveKeepsCreatedAt(t *testing.T) {
	db := newTestDB(t)
	repo := newInventoryRepository(db.Connection())

	first := time.Unix(1_700_000_000, 0)
	repo.now = func() time.Time { return first }
	require.NoError(t, repo.Save(domain.NewInventory("Kalari")))

	repo.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, repo.Save(domain.NewInventory("Kalari")))

	var created, updated int64
	err := db.Connection().QueryRow(`SELECT created_at, updated_at FROM inventories WHERE language = 'Kalari'`).Scan(&created, &updated)
	require.NoError(t, err)
	assert.Equal(t, first.Unix(), created)
	assert.Equal(t, first.Add(time.Hour).Unix(), updated)
}

func TestInventoryRepository_EmptyInventory(t *testing.T) {
	repo := newTestDB(t).InventoryRepository()
	require.NoError(t, repo.Save(domain.NewInventory("Empty")))

	got, err := repo.Load("Empty")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Size())
}

func TestInventoryRepository_LoadNotFound(t *testing.T) {
	repo := newTestDB(t).InventoryRepository()

	_, err := repo.Load("Nowhere")
	var notFound *domain.InventoryNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Nowhere", notFound.Language)
}

func TestInventoryRepository_ExistsAndList(t *testing.T) {
	repo := newTestDB(t).InventoryRepository()

	langs, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, langs)

	ok, err := repo.Exists("Proto-X")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Save(protoX(t)))
	require.NoError(t, repo.Save(domain.NewInventory("Kalari")))

	ok, err = repo.Exists("Proto-X")
	require.NoError(t, err)
	assert.True(t, ok)

	langs, err = repo.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Kalari", "Proto-X"}, langs)
}

func TestInventoryRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := db.InventoryRepository()
	require.NoError(t, repo.Save(protoX(t)))

	require.NoError(t, repo.Delete("Proto-X"))

	var n int
	require.NoError(t, db.Connection().QueryRow(`SELECT COUNT(*) FROM phonemes`).Scan(&n))
	assert.Zero(t, n)

	var notFound *domain.InventoryNotFoundError
	require.ErrorAs(t, repo.Delete("Proto-X"), &notFound)
}

func TestInventoryRepository_SymbolsAreCaseSensitive(t *testing.T) {
	repo := newTestDB(t).InventoryRepository()
	inv, err := domain.NewInventoryFrom("Case",
		domain.MustPhoneme("a", domain.ClassVowel),
		domain.MustPhoneme("A", domain.ClassVowel),
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(inv))

	got, err := repo.Load("Case")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "A"}, symbols(got))
}
