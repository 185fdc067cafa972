package export

import (
	"encoding/json"
	"io"

	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

type jsonExporter struct{}

func (jsonExporter) Inventory(w io.Writer, inv *domain.Inventory) error {
	return writeJSON(w, newInventoryDoc(inv))
}

func (jsonExporter) Lexicon(w io.Writer, lex Lexicon) error {
	return writeJSON(w, newLexiconDoc(lex))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
