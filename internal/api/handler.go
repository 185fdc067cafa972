// Package api serves inventories and vocabulary generation over HTTP as
// JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/lexicon-lang/lexicon/internal/export"
	"github.com/lexicon-lang/lexicon/internal/language"
	"github.com/lexicon-lang/lexicon/internal/lexicon"
	"github.com/lexicon-lang/lexicon/internal/log"
	"github.com/lexicon-lang/lexicon/internal/phonology/application"
	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// maxBodySize bounds request bodies.
const maxBodySize = 64 * 1024

// maxCount bounds the roots generated by one request.
const maxCount = 10000

// Options configures a Handler.
type Options struct {
	// DefinitionsDir is searched for user language definitions.
	DefinitionsDir string
	// DefaultCount applies when a generate request has no count.
	DefaultCount int
	// MaxAttempts applies when a definition sets none.
	MaxAttempts int
}

// Handler provides the HTTP endpoints.
type Handler struct {
	svc  *application.Service
	opts Options
	json export.Exporter
}

// NewHandler creates a Handler over svc.
func NewHandler(svc *application.Service, opts Options) *Handler {
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 10
	}
	exp, _ := export.New(string(export.FormatJSON))
	return &Handler{svc: svc, opts: opts, json: exp}
}

// RegisterRoutes registers the API routes on the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("GET /api/inventories", h.ListInventories)
	mux.HandleFunc("POST /api/inventories", h.CreateInventory)
	mux.HandleFunc("GET /api/inventories/{language}", h.GetInventory)
	mux.HandleFunc("DELETE /api/inventories/{language}", h.DeleteInventory)
	mux.HandleFunc("POST /api/inventories/{language}/phonemes", h.AddPhoneme)
	mux.HandleFunc("DELETE /api/inventories/{language}/phonemes/{symbol}", h.RemovePhoneme)

	mux.HandleFunc("GET /api/languages", h.ListLanguages)
	mux.HandleFunc("POST /api/generate", h.Generate)
}

// Health returns a simple health check response.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ListInventories returns the stored language identifiers.
// GET /api/inventories
func (h *Handler) ListInventories(w http.ResponseWriter, _ *http.Request) {
	langs, err := h.svc.List()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, InventoryListResponse{Inventories: langs})
}

// CreateInventory stores a new empty inventory.
// POST /api/inventories
func (h *Handler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	var req CreateInventoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	inv, err := h.svc.Create(req.Language)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeInventory(w, http.StatusCreated, inv)
}

// GetInventory returns one inventory, optionally only one class of it.
// GET /api/inventories/{language}?class=vowel
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.PathValue("language"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if c := r.URL.Query().Get("class"); c != "" {
		class, err := domain.ParseClass(c)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		filtered := domain.NewInventory(inv.Language())
		for p := range inv.AllOfClass(class) {
			_ = filtered.Add(p)
		}
		inv = filtered
	}
	h.writeInventory(w, http.StatusOK, inv)
}

// DeleteInventory removes an inventory.
// DELETE /api/inventories/{language}
func (h *Handler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.PathValue("language")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPhoneme appends a phoneme to an inventory.
// POST /api/inventories/{language}/phonemes
func (h *Handler) AddPhoneme(w http.ResponseWriter, r *http.Request) {
	var req AddPhonemeRequest
	if !h.decode(w, r, &req) {
		return
	}
	class, err := domain.ParseClass(req.Class)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	p, err := h.svc.AddPhoneme(r.PathValue("language"), req.Symbol, class)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, PhonemeResponse{Symbol: p.Symbol(), Class: p.Class().String()})
}

// RemovePhoneme deletes a phoneme from an inventory.
// DELETE /api/inventories/{language}/phonemes/{symbol}
func (h *Handler) RemovePhoneme(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemovePhoneme(r.PathValue("language"), r.PathValue("symbol")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLanguages returns the built-in and user language definitions.
// GET /api/languages
func (h *Handler) ListLanguages(w http.ResponseWriter, _ *http.Request) {
	defs, err := language.Catalog(h.opts.DefinitionsDir)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "read_error", "Failed to load language definitions", err.Error())
		return
	}
	resp := LanguageListResponse{Languages: make([]LanguageSummary, 0, len(defs))}
	for _, d := range defs {
		resp.Languages = append(resp.Languages, newLanguageSummary(d))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Generate produces a lexicon for a built-in or user language.
// POST /api/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Language == "" {
		h.writeError(w, http.StatusBadRequest, "validation_error", "language is required", "")
		return
	}
	count := req.Count
	if count == 0 {
		count = h.opts.DefaultCount
	}
	if count < 0 || count > maxCount {
		h.writeError(w, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("count must be between 1 and %d", maxCount), "")
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	// Only named definitions are served; request data never reaches the
	// filesystem as a path.
	def, err := h.findLanguage(req.Language)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "read_error", "Failed to load language definitions", err.Error())
		return
	}
	if def == nil {
		h.writeError(w, http.StatusNotFound, "not_found", "Language not found", req.Language)
		return
	}

	lex, err := language.Generate(r.Context(), def, language.GenerateOptions{
		Count:       count,
		Seed:        seed,
		Derive:      req.Derive,
		MaxAttempts: h.opts.MaxAttempts,
		Policy:      h.svc.Policy(),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := h.json.Lexicon(w, lex); err != nil {
		log.ErrorErr(log.CatHTTP, "Failed to encode lexicon", err)
	}
}

func (h *Handler) findLanguage(name string) (*language.Definition, error) {
	defs, err := language.Catalog(h.opts.DefinitionsDir)
	if err != nil {
		return nil, err
	}
	// User definitions come last in the catalog and shadow built-ins.
	var found *language.Definition
	for _, d := range defs {
		if d.Matches(name) {
			found = d
		}
	}
	return found, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err.Error())
		return false
	}
	return true
}

func (h *Handler) writeInventory(w http.ResponseWriter, status int, inv *domain.Inventory) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := h.json.Inventory(w, inv); err != nil {
		log.ErrorErr(log.CatHTTP, "Failed to encode inventory", err)
	}
}

// writeDomainError maps service and generator errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		invNotFound *domain.InventoryNotFoundError
		invExists   *domain.InventoryExistsError
		badPattern  *lexicon.InvalidPatternError
	)
	switch {
	case errors.As(err, &invNotFound), errors.Is(err, domain.ErrPhonemeNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", err.Error(), "")
	case errors.As(err, &invExists), errors.Is(err, domain.ErrDuplicatePhoneme):
		h.writeError(w, http.StatusConflict, "conflict", err.Error(), "")
	case errors.Is(err, domain.ErrInvalidSymbol),
		errors.Is(err, domain.ErrInvalidClass),
		errors.Is(err, application.ErrLanguageRequired),
		errors.As(err, &badPattern):
		h.writeError(w, http.StatusBadRequest, "validation_error", err.Error(), "")
	case errors.Is(err, lexicon.ErrExhausted):
		h.writeError(w, http.StatusUnprocessableEntity, "exhausted", err.Error(), "")
	default:
		log.ErrorErr(log.CatHTTP, "Request failed", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Internal error", err.Error())
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(log.CatHTTP, "Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response in the standard APIError format.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, APIError{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
