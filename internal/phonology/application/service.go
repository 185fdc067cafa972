package application

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/lexicon-lang/lexicon/internal/log"
	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// DefaultCacheTTL is how long a loaded inventory stays cached.
const DefaultCacheTTL = 5 * time.Minute

// ErrLanguageRequired is returned when a language identifier is blank.
var ErrLanguageRequired = errors.New("language is required")

// Service exposes inventory use cases on top of an InventoryRepository.
// It is safe for concurrent use as long as the repository is. Operations
// on the same language are serialised so that each load-change-save runs
// against the latest stored inventory.
type Service struct {
	repo   InventoryRepository
	policy domain.SymbolPolicy
	cache  *cache.Cache
	locks  sync.Map // language -> *sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the symbol policy applied to phonemes added through the
// service. The default is domain.AnySymbol.
func WithPolicy(p domain.SymbolPolicy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithCacheTTL overrides DefaultCacheTTL. A non-positive ttl disables
// caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.New(ttl, 2*ttl)
	}
}

// NewService creates a Service.
func NewService(repo InventoryRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		policy: domain.AnySymbol,
		cache:  cache.New(DefaultCacheTTL, 2*DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the symbol policy in effect.
func (s *Service) Policy() domain.SymbolPolicy {
	return s.policy
}

// Create stores a new empty inventory. It returns
// *domain.InventoryExistsError if the language already has one.
func (s *Service) Create(language string) (*domain.Inventory, error) {
	language, err := normalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	defer s.lock(language)()

	exists, err := s.repo.Exists(language)
	if err != nil {
		return nil, fmt.Errorf("checking inventory %q: %w", language, err)
	}
	if exists {
		return nil, &domain.InventoryExistsError{Language: language}
	}

	inv := domain.NewInventory(language)
	if err := s.save(inv); err != nil {
		return nil, err
	}
	log.Info(log.CatInventory, "Created inventory", "language", language)
	return inv.Clone(), nil
}

// Get returns a copy of the stored inventory.
func (s *Service) Get(language string) (*domain.Inventory, error) {
	language, err := normalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	defer s.lock(language)()

	inv, err := s.load(language)
	if err != nil {
		return nil, err
	}
	return inv.Clone(), nil
}

// Phoneme looks up one phoneme in a stored inventory.
func (s *Service) Phoneme(language, symbol string) (domain.Phoneme, error) {
	language, err := normalizeLanguage(language)
	if err != nil {
		return domain.Phoneme{}, err
	}
	defer s.lock(language)()

	inv, err := s.load(language)
	if err != nil {
		return domain.Phoneme{}, err
	}
	canonical, err := s.policy.Canonical(symbol)
	if err != nil {
		return domain.Phoneme{}, err
	}
	return inv.Get(canonical)
}

// AddPhoneme validates symbol with the service policy and appends it to the
// stored inventory.
func (s *Service) AddPhoneme(language, symbol string, class domain.Class) (domain.Phoneme, error) {
	language, err := normalizeLanguage(language)
	if err != nil {
		return domain.Phoneme{}, err
	}
	p, err := domain.NewPhonemeWithPolicy(s.policy, symbol, class)
	if err != nil {
		return domain.Phoneme{}, err
	}
	defer s.lock(language)()

	inv, err := s.load(language)
	if err != nil {
		return domain.Phoneme{}, err
	}
	inv = inv.Clone()
	if err := inv.Add(p); err != nil {
		return domain.Phoneme{}, err
	}
	if err := s.save(inv); err != nil {
		return domain.Phoneme{}, err
	}
	log.Debug(log.CatInventory, "Added phoneme", "language", inv.Language(), "symbol", p.Symbol(), "class", p.Class())
	return p, nil
}

// RemovePhoneme deletes symbol from the stored inventory.
func (s *Service) RemovePhoneme(language, symbol string) error {
	language, err := normalizeLanguage(language)
	if err != nil {
		return err
	}
	defer s.lock(language)()

	inv, err := s.load(language)
	if err != nil {
		return err
	}
	canonical, err := s.policy.Canonical(symbol)
	if err != nil {
		return err
	}
	inv = inv.Clone()
	if err := inv.Remove(canonical); err != nil {
		return err
	}
	if err := s.save(inv); err != nil {
		return err
	}
	log.Debug(log.CatInventory, "Removed phoneme", "language", inv.Language(), "symbol", canonical)
	return nil
}

// List returns the stored language identifiers.
func (s *Service) List() ([]string, error) {
	langs, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("listing inventories: %w", err)
	}
	return langs, nil
}

// Delete removes a stored inventory.
func (s *Service) Delete(language string) error {
	language, err := normalizeLanguage(language)
	if err != nil {
		return err
	}
	defer s.lock(language)()

	err = s.repo.Delete(language)
	s.invalidate(language)
	if err != nil {
		return err
	}
	log.Info(log.CatInventory, "Deleted inventory", "language", language)
	return nil
}

// Import stores inv under its trimmed language. Unless replace is set, an
// existing inventory for the same language is left untouched and
// *domain.InventoryExistsError is returned.
func (s *Service) Import(inv *domain.Inventory, replace bool) error {
	language, err := normalizeLanguage(inv.Language())
	if err != nil {
		return err
	}
	defer s.lock(language)()

	if !replace {
		exists, err := s.repo.Exists(language)
		if err != nil {
			return fmt.Errorf("checking inventory %q: %w", language, err)
		}
		if exists {
			return &domain.InventoryExistsError{Language: language}
		}
	}
	if err := s.save(withLanguage(inv, language)); err != nil {
		return err
	}
	log.Info(log.CatInventory, "Imported inventory", "language", language, "phonemes", inv.Size(), "replace", replace)
	return nil
}

// lock acquires the mutex for language and returns its release.
func (s *Service) lock(language string) func() {
	mu, _ := s.locks.LoadOrStore(language, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// load expects a normalised language and the caller to hold its lock.
func (s *Service) load(language string) (*domain.Inventory, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(language); ok {
			return v.(*domain.Inventory), nil
		}
	}
	inv, err := s.repo.Load(language)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetDefault(language, inv)
	}
	return inv, nil
}

func (s *Service) save(inv *domain.Inventory) error {
	if err := s.repo.Save(inv); err != nil {
		s.invalidate(inv.Language())
		return fmt.Errorf("saving inventory %q: %w", inv.Language(), err)
	}
	if s.cache != nil {
		s.cache.SetDefault(inv.Language(), inv)
	}
	return nil
}

func (s *Service) invalidate(language string) {
	if s.cache != nil {
		s.cache.Delete(language)
	}
}

// withLanguage copies inv, renamed to language when they differ.
func withLanguage(inv *domain.Inventory, language string) *domain.Inventory {
	if inv.Language() == language {
		return inv.Clone()
	}
	out := domain.NewInventory(language)
	for p := range inv.Phonemes() {
		_ = out.Add(p)
	}
	return out
}

func normalizeLanguage(language string) (string, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return "", ErrLanguageRequired
	}
	return language, nil
}
