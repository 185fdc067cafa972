package api

import (
	"github.com/lexicon-lang/lexicon/internal/language"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// APIError is the body of every non-2xx response.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// InventoryListResponse is returned by GET /api/inventories.
type InventoryListResponse struct {
	Inventories []string `json:"inventories"`
}

// CreateInventoryRequest is the body of POST /api/inventories.
type CreateInventoryRequest struct {
	Language string `json:"language"`
}

// AddPhonemeRequest is the body of POST /api/inventories/{language}/phonemes.
type AddPhonemeRequest struct {
	Symbol string `json:"symbol"`
	Class  string `json:"class"`
}

// PhonemeResponse describes one stored phoneme.
type PhonemeResponse struct {
	Symbol string `json:"symbol"`
	Class  string `json:"class"`
}

// LanguageSummary describes one available language definition.
type LanguageSummary struct {
	Language    string `json:"language"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

// LanguageListResponse is returned by GET /api/languages.
type LanguageListResponse struct {
	Languages []LanguageSummary `json:"languages"`
}

// GenerateRequest is the body of POST /api/generate. Zero Count and Seed
// fall back to the handler defaults.
type GenerateRequest struct {
	Language string `json:"language"`
	Count    int    `json:"count,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
	Derive   bool   `json:"derive,omitempty"`
}

func newLanguageSummary(d *language.Definition) LanguageSummary {
	return LanguageSummary{Language: d.Language, Description: d.Description, Source: d.Source.String()}
}
