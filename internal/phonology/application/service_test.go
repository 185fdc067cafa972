package application

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// memRepository is an in-memory InventoryRepository. Each call is atomic;
// sequences of calls are not.
type memRepository struct {
	mu     sync.Mutex
	stored map[string]*domain.Inventory
	saves  int
	loads  int
}

func newMemRepository() *memRepository {
	return &memRepository{stored: map[string]*domain.Inventory{}}
}

func (r *memRepository) Save(inv *domain.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.stored[inv.Language()] = inv.Clone()
	return nil
}

func (r *memRepository) Load(language string) (*domain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	inv, ok := r.stored[language]
	if !ok {
		return nil, &domain.InventoryNotFoundError{Language: language}
	}
	return inv.Clone(), nil
}

func (r *memRepository) Exists(language string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.stored[language]
	return ok, nil
}

func (r *memRepository) List() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.stored))
	for k := range r.stored {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func (r *memRepository) Delete(language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stored[language]; !ok {
		return &domain.InventoryNotFoundError{Language: language}
	}
	delete(r.stored, language)
	return nil
}

// mockRepository is a testify mock for failure injection.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Save(inv *domain.Inventory) error {
	return m.Called(inv).Error(0)
}

func (m *mockRepository) Load(language string) (*domain.Inventory, error) {
	args := m.Called(language)
	inv, _ := args.Get(0).(*domain.Inventory)
	return inv, args.Error(1)
}

func (m *mockRepository) Exists(language string) (bool, error) {
	args := m.Called(language)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) List() ([]string, error) {
	args := m.Called()
	langs, _ := args.Get(0).([]string)
	return langs, args.Error(1)
}

func (m *mockRepository) Delete(language string) error {
	return m.Called(language).Error(0)
}

func TestService_CreateAndGet(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)

	inv, err := svc.Create("Proto-X")
	require.NoError(t, err)
	require.Equal(t, "Proto-X", inv.Language())
	require.Equal(t, 0, inv.Size())

	_, err = svc.Create("Proto-X")
	var exists *domain.InventoryExistsError
	require.True(t, errors.As(err, &exists))

	got, err := svc.Get("Proto-X")
	require.NoError(t, err)
	require.Equal(t, 0, got.Size())
}

func TestService_CreateBlankLanguage(t *testing.T) {
	svc := NewService(newMemRepository())
	_, err := svc.Create("   ")
	require.ErrorIs(t, err, ErrLanguageRequired)
}

func TestService_ProtoXScenario(t *testing.T) {
	svc := NewService(newMemRepository())
	_, err := svc.Create("Proto-X")
	require.NoError(t, err)

	_, err = svc.AddPhoneme("Proto-X", "p", domain.ClassConsonant)
	require.NoError(t, err)
	_, err = svc.AddPhoneme("Proto-X", "t", domain.ClassConsonant)
	require.NoError(t, err)
	_, err = svc.AddPhoneme("Proto-X", "a", domain.ClassVowel)
	require.NoError(t, err)

	inv, err := svc.Get("Proto-X")
	require.NoError(t, err)
	require.Equal(t, 3, inv.Size())

	tee, err := svc.Phoneme("Proto-X", "t")
	require.NoError(t, err)
	require.Equal(t, domain.ClassConsonant, tee.Class())

	_, err = svc.AddPhoneme("Proto-X", "p", domain.ClassVowel)
	require.ErrorIs(t, err, domain.ErrDuplicatePhoneme)

	inv, err = svc.Get("Proto-X")
	require.NoError(t, err)
	require.Equal(t, 3, inv.Size())
}

func TestService_RemovePhoneme(t *testing.T) {
	svc := NewService(newMemRepository())
	_, err := svc.Create("x")
	require.NoError(t, err)
	_, err = svc.AddPhoneme("x", "k", domain.ClassConsonant)
	require.NoError(t, err)

	require.NoError(t, svc.RemovePhoneme("x", "k"))
	require.ErrorIs(t, svc.RemovePhoneme("x", "k"), domain.ErrPhonemeNotFound)

	_, err = svc.Phoneme("x", "k")
	require.ErrorIs(t, err, domain.ErrPhonemeNotFound)
}

func TestService_AppliesPolicy(t *testing.T) {
	noUpper := domain.SymbolPolicyFunc(func(s string) (string, error) {
		for _, r := range s {
			if r >= 'A' && r <= 'Z' {
				return "", &domain.InvalidSymbolError{Symbol: s, Reason: "uppercase"}
			}
		}
		return domain.AnySymbol.Canonical(s)
	})
	svc := NewService(newMemRepository(), WithPolicy(noUpper))
	_, err := svc.Create("x")
	require.NoError(t, err)

	_, err = svc.AddPhoneme("x", "P", domain.ClassConsonant)
	require.ErrorIs(t, err, domain.ErrInvalidSymbol)

	_, err = svc.AddPhoneme("x", "", domain.ClassConsonant)
	require.ErrorIs(t, err, domain.ErrInvalidSymbol)
}

func TestService_GetReturnsIndependentCopies(t *testing.T) {
	svc := NewService(newMemRepository())
	_, err := svc.Create("x")
	require.NoError(t, err)
	_, err = svc.AddPhoneme("x", "a", domain.ClassVowel)
	require.NoError(t, err)

	inv, err := svc.Get("x")
	require.NoError(t, err)
	require.NoError(t, inv.Remove("a"))

	again, err := svc.Get("x")
	require.NoError(t, err)
	require.True(t, again.Contains("a"))
}

func TestService_CacheAvoidsReloads(t *testing.T) {
	repo := newMemRepository()
	require.NoError(t, repo.Save(domain.NewInventory("x")))
	svc := NewService(repo)

	for i := 0; i < 3; i++ {
		_, err := svc.Get("x")
		require.NoError(t, err)
	}
	require.Equal(t, 1, repo.loads)
}

func TestService_CacheDisabled(t *testing.T) {
	repo := newMemRepository()
	require.NoError(t, repo.Save(domain.NewInventory("x")))
	svc := NewService(repo, WithCacheTTL(0))

	for i := 0; i < 3; i++ {
		_, err := svc.Get("x")
		require.NoError(t, err)
	}
	require.Equal(t, 3, repo.loads)
}

func TestService_DeleteInvalidatesCache(t *testing.T) {
	svc := NewService(newMemRepository())
	_, err := svc.Create("x")
	require.NoError(t, err)
	_, err = svc.Get("x")
	require.NoError(t, err)

	require.NoError(t, svc.Delete("x"))

	_, err = svc.Get("x")
	var notFound *domain.InventoryNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestService_Import(t *testing.T) {
	svc := NewService(newMemRepository())
	inv, err := domain.NewInventoryFrom("Kala",
		domain.MustPhoneme("k", domain.ClassConsonant),
		domain.MustPhoneme("a", domain.ClassVowel),
	)
	require.NoError(t, err)

	require.NoError(t, svc.Import(inv, false))

	var exists *domain.InventoryExistsError
	require.True(t, errors.As(svc.Import(inv, false), &exists))

	require.NoError(t, inv.Add(domain.MustPhoneme("l", domain.ClassConsonant)))
	require.NoError(t, svc.Import(inv, true))

	got, err := svc.Get("Kala")
	require.NoError(t, err)
	require.Equal(t, 3, got.Size())

	langs, err := svc.List()
	require.NoError(t, err)
	require.Equal(t, []string{"Kala"}, langs)
}

func TestService_ImportTrimsLanguage(t *testing.T) {
	svc := NewService(newMemRepository())
	inv, err := domain.NewInventoryFrom(" X ", domain.MustPhoneme("a", domain.ClassVowel))
	require.NoError(t, err)

	require.NoError(t, svc.Import(inv, false))

	got, err := svc.Get(" X ")
	require.NoError(t, err)
	require.Equal(t, "X", got.Language())
	require.True(t, got.Contains("a"))

	langs, err := svc.List()
	require.NoError(t, err)
	require.Equal(t, []string{"X"}, langs)
	require.Equal(t, " X ", inv.Language(), "the caller's inventory is not renamed")
}

func TestService_ConcurrentAddPhoneme(t *testing.T) {
	for _, ttl := range []time.Duration{DefaultCacheTTL, 0} {
		t.Run(fmt.Sprintf("ttl=%s", ttl), func(t *testing.T) {
			svc := NewService(newMemRepository(), WithCacheTTL(ttl))
			_, err := svc.Create("X")
			require.NoError(t, err)

			const n = 50
			errs := make([]error, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = svc.AddPhoneme("X", fmt.Sprintf("s%d", i), domain.ClassConsonant)
				}(i)
			}
			wg.Wait()

			for _, err := range errs {
				require.NoError(t, err)
			}
			inv, err := svc.Get("X")
			require.NoError(t, err)
			require.Equal(t, n, inv.Size())
		})
	}
}

func TestService_ConcurrentMixedOperations(t *testing.T) {
	repo := newMemRepository()
	svc := NewService(repo)
	for _, lang := range []string{"A", "B"} {
		_, err := svc.Create(lang)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, lang := range []string{"A", "B"} {
		for i := 0; i < 20; i++ {
			wg.Add(3)
			go func() {
				defer wg.Done()
				sym := fmt.Sprintf("k%d", i)
				_, err := svc.AddPhoneme(lang, sym, domain.ClassConsonant)
				assert.NoError(t, err)
				assert.NoError(t, svc.RemovePhoneme(lang, sym))
			}()
			go func() {
				defer wg.Done()
				_, err := svc.AddPhoneme(lang, fmt.Sprintf("a%d", i), domain.ClassVowel)
				assert.NoError(t, err)
			}()
			go func() {
				defer wg.Done()
				_, err := svc.Get(lang)
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	for _, lang := range []string{"A", "B"} {
		inv, err := svc.Get(lang)
		require.NoError(t, err)
		require.Equal(t, 20, inv.Size())
		require.Equal(t, 20, inv.Count(domain.ClassVowel))

		stored, err := repo.Load(lang)
		require.NoError(t, err)
		require.Equal(t, 20, stored.Size())
	}
}

// deleteHookRepository runs onDelete before removing the inventory.
type deleteHookRepository struct {
	*memRepository
	onDelete func()
}

func (r *deleteHookRepository) Delete(language string) error {
	r.onDelete()
	return r.memRepository.Delete(language)
}

func TestService_GetDuringDeleteDoesNotRestoreCache(t *testing.T) {
	repo := &deleteHookRepository{memRepository: newMemRepository()}
	svc := NewService(repo)
	_, err := svc.Create("x")
	require.NoError(t, err)

	result := make(chan error, 1)
	repo.onDelete = func() {
		go func() {
			_, err := svc.Get("x")
			result <- err
		}()
	}
	require.NoError(t, svc.Delete("x"))

	var notFound *domain.InventoryNotFoundError
	require.ErrorAs(t, <-result, &notFound)
	_, err = svc.Get("x")
	require.ErrorAs(t, err, &notFound)
}

func TestService_SaveFailureInvalidatesCache(t *testing.T) {
	repo := &mockRepository{}
	inv := domain.NewInventory("x")
	repo.On("Load", "x").Return(inv, nil)
	repo.On("Save", mock.Anything).Return(errors.New("disk full")).Once()

	svc := NewService(repo)
	_, err := svc.AddPhoneme("x", "a", domain.ClassVowel)
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")

	// The failed write must not leave the phoneme visible through the cache.
	got, err := svc.Get("x")
	require.NoError(t, err)
	require.False(t, got.Contains("a"))
	repo.AssertNumberOfCalls(t, "Load", 2)
}

func TestService_ListError(t *testing.T) {
	repo := &mockRepository{}
	repo.On("List").Return(nil, errors.New("boom"))

	_, err := NewService(repo).List()
	require.ErrorContains(t, err, "listing inventories")
	repo.AssertExpectations(t)
}
