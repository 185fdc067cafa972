package export

import (
	"io"

	"gopkg.in/yaml.v3"

	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

type yamlExporter struct{}

func (yamlExporter) Inventory(w io.Writer, inv *domain.Inventory) error {
	return writeYAML(w, newInventoryDoc(inv))
}

func (yamlExporter) Lexicon(w io.Writer, lex Lexicon) error {
	return writeYAML(w, newLexiconDoc(lex))
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
