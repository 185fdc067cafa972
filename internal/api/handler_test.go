package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexicon-lang/lexicon/internal/infrastructure/sqlite"
	"github.com/lexicon-lang/lexicon/internal/lexicon"
	"github.com/lexicon-lang/lexicon/internal/phonology/application"
	"github.com/lexicon-lang/lexicon/internal/phonology/policy"
)

type inventoryBody struct {
	Language   string   `json:"language"`
	Size       int      `json:"size"`
	Consonants []string `json:"consonants"`
	Vowels     []string `json:"vowels"`
}

type lexiconBody struct {
	Language string         `json:"language"`
	Seed     uint64         `json:"seed"`
	Roots    []lexicon.Root `json:"roots"`
	Words    []lexicon.Word `json:"words"`
}

// newTestHandler builds a handler over a fresh database. The definitions
// directory is returned for tests that add user languages.
func newTestHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.NewDB(filepath.Join(dir, "lexicon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	defsDir := filepath.Join(dir, "languages")
	svc := application.NewService(db.InventoryRepository(), application.WithPolicy(policy.Normalized{}))
	return NewHandler(svc, Options{DefinitionsDir: defsDir, DefaultCount: 4, MaxAttempts: 100}), defsDir
}

func newTestMux(t *testing.T) (http.Handler, string) {
	t.Helper()
	h, defsDir := newTestHandler(t)
	return NewMux(h), defsDir
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// === Health ===

func TestHandler_Health(t *testing.T) {
	h, _ := newTestMux(t)
	w := do(t, h, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode[HealthResponse](t, w).Status)
}

// === Inventories ===

func TestHandler_InventoryLifecycle(t *testing.T) {
	h, _ := newTestMux(t)

	w := do(t, h, http.MethodPost, "/api/inventories", CreateInventoryRequest{Language: "Proto-X"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Proto-X", decode[inventoryBody](t, w).Language)

	for _, p := range []AddPhonemeRequest{
		{Symbol: "p", Class: "consonant"},
		{Symbol: "t", Class: "consonant"},
		{Symbol: "a", Class: "vowel"},
		{Symbol: "i", Class: "v"},
	} {
		w = do(t, h, http.MethodPost, "/api/inventories/Proto-X/phonemes", p)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/api/inventories/Proto-X", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inv := decode[inventoryBody](t, w)
	assert.Equal(t, 4, inv.Size)
	assert.Equal(t, []string{"p", "t"}, inv.Consonants)
	assert.Equal(t, []string{"a", "i"}, inv.Vowels)

	w = do(t, h, http.MethodGet, "/api/inventories/Proto-X?class=vowel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inv = decode[inventoryBody](t, w)
	assert.Equal(t, 2, inv.Size)
	assert.Empty(t, inv.Consonants)

	w = do(t, h, http.MethodDelete, "/api/inventories/Proto-X/phonemes/p", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/inventories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Proto-X"}, decode[InventoryListResponse](t, w).Inventories)

	w = do(t, h, http.MethodDelete, "/api/inventories/Proto-X", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/inventories", nil)
	assert.Empty(t, decode[InventoryListResponse](t, w).Inventories)
}

func TestHandler_InventoryErrors(t *testing.T) {
	h, _ := newTestMux(t)
	do(t, h, http.MethodPost, "/api/inventories", CreateInventoryRequest{Language: "Kalari"})
	do(t, h, http.MethodPost, "/api/inventories/Kalari/phonemes", AddPhonemeRequest{Symbol: "k", Class: "consonant"})

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing inventory", http.MethodGet, "/api/inventories/Nowhere", nil, http.StatusNotFound, "not_found"},
		{"delete missing inventory", http.MethodDelete, "/api/inventories/Nowhere", nil, http.StatusNotFound, "not_found"},
		{"duplicate inventory", http.MethodPost, "/api/inventories", CreateInventoryRequest{Language: "Kalari"}, http.StatusConflict, "conflict"},
		{"blank language", http.MethodPost, "/api/inventories", CreateInventoryRequest{Language: " "}, http.StatusBadRequest, "validation_error"},
		{"duplicate phoneme", http.MethodPost, "/api/inventories/Kalari/phonemes", AddPhonemeRequest{Symbol: "k", Class: "vowel"}, http.StatusConflict, "conflict"},
		{"bad class", http.MethodPost, "/api/inventories/Kalari/phonemes", AddPhonemeRequest{Symbol: "r", Class: "liquid"}, http.StatusBadRequest, "validation_error"},
		{"whitespace symbol", http.MethodPost, "/api/inventories/Kalari/phonemes", AddPhonemeRequest{Symbol: "t s", Class: "consonant"}, http.StatusBadRequest, "validation_error"},
		{"missing phoneme", http.MethodDelete, "/api/inventories/Kalari/phonemes/z", nil, http.StatusNotFound, "not_found"},
		{"bad class filter", http.MethodGet, "/api/inventories/Kalari?class=tone", nil, http.StatusBadRequest, "validation_error"},
		{"unknown field", http.MethodPost, "/api/inventories", map[string]string{"lang": "X"}, http.StatusBadRequest, "invalid_json"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, decode[APIError](t, w).Code)
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newTestMux(t)
	w := do(t, h, http.MethodPut, "/api/inventories", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// === Languages ===

func TestHandler_ListLanguages(t *testing.T) {
	h, defsDir := newTestMux(t)
	require.NoError(t, os.MkdirAll(defsDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(defsDir, "toy.yaml"), []byte(`
language: Toy
description: Two phonemes
phonemes:
  - { symbol: b, class: consonant }
  - { symbol: o, class: vowel }
syllable_rules: [CV]
min_syllables: 1
max_syllables: 3
`), 0o600))

	w := do(t, h, http.MethodGet, "/api/languages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	sources := map[string]string{}
	for _, l := range decode[LanguageListResponse](t, w).Languages {
		sources[l.Language] = l.Source
	}
	assert.Equal(t, "built-in", sources["Kalari"])
	assert.Equal(t, "built-in", sources["Proto-X"])
	assert.Equal(t, "user", sources["Toy"])
}

// === Generate ===

func TestHandler_Generate(t *testing.T) {
	h, _ := newTestMux(t)

	w := do(t, h, http.MethodPost, "/api/generate", GenerateRequest{Language: "kalari", Seed: 9, Derive: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[lexiconBody](t, w)
	assert.Equal(t, "Kalari", first.Language)
	assert.Equal(t, uint64(9), first.Seed)
	assert.Len(t, first.Roots, 4, "default count")
	assert.Len(t, first.Words, 4)

	w = do(t, h, http.MethodPost, "/api/generate", GenerateRequest{Language: "Kalari", Seed: 9, Derive: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, decode[lexiconBody](t, w))
}

func TestHandler_GenerateErrors(t *testing.T) {
	h, _ := newTestMux(t)

	testCases := []struct {
		name   string
		body   GenerateRequest
		status int
		code   string
	}{
		{"missing language", GenerateRequest{}, http.StatusBadRequest, "validation_error"},
		{"unknown language", GenerateRequest{Language: "../../etc/passwd"}, http.StatusNotFound, "not_found"},
		{"negative count", GenerateRequest{Language: "proto-x", Count: -1}, http.StatusBadRequest, "validation_error"},
		{"too many roots", GenerateRequest{Language: "proto-x", Count: 101, Seed: 1}, http.StatusUnprocessableEntity, "exhausted"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/generate", tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, decode[APIError](t, w).Code)
		})
	}
}
