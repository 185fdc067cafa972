// Package export renders inventories and generated lexicons as text, JSON
// or YAML.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/lexicon-lang/lexicon/internal/lexicon"
	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// UnknownFormatError is returned for a format name New does not know.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("unknown format %q (want one of %s)", e.Format, strings.Join(names, ", "))
}

// Lexicon is a batch of generated roots and the words derived from them.
type Lexicon struct {
	Language string
	Seed     uint64
	Roots    []lexicon.Root
	Words    []lexicon.Word
}

// Exporter writes domain values to w.
type Exporter interface {
	Inventory(w io.Writer, inv *domain.Inventory) error
	Lexicon(w io.Writer, lex Lexicon) error
}

// New returns the exporter for format. Names are case-insensitive; "yml"
// is accepted for YAML.
func New(format string) (Exporter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case FormatText, "":
		return textExporter{}, nil
	case FormatJSON:
		return jsonExporter{}, nil
	case FormatYAML, "yml":
		return yamlExporter{}, nil
	default:
		return nil, &UnknownFormatError{Format: format}
	}
}

type phonemeDoc struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Class  string `json:"class" yaml:"class"`
}

type inventoryDoc struct {
	Language   string       `json:"language" yaml:"language"`
	Size       int          `json:"size" yaml:"size"`
	Consonants []string     `json:"consonants" yaml:"consonants"`
	Vowels     []string     `json:"vowels" yaml:"vowels"`
	Phonemes   []phonemeDoc `json:"phonemes" yaml:"phonemes"`
}

func newInventoryDoc(inv *domain.Inventory) inventoryDoc {
	doc := inventoryDoc{
		Language:   inv.Language(),
		Size:       inv.Size(),
		Consonants: collect(inv, domain.ClassConsonant),
		Vowels:     collect(inv, domain.ClassVowel),
		Phonemes:   make([]phonemeDoc, 0, inv.Size()),
	}
	for p := range inv.Phonemes() {
		doc.Phonemes = append(doc.Phonemes, phonemeDoc{Symbol: p.Symbol(), Class: p.Class().String()})
	}
	return doc
}

func collect(inv *domain.Inventory, c domain.Class) []string {
	out := []string{}
	for p := range inv.AllOfClass(c) {
		out = append(out, p.Symbol())
	}
	return out
}

type lexiconDoc struct {
	Language string         `json:"language" yaml:"language"`
	Seed     uint64         `json:"seed" yaml:"seed"`
	Roots    []lexicon.Root `json:"roots" yaml:"roots"`
	Words    []lexicon.Word `json:"words,omitempty" yaml:"words,omitempty"`
}

func newLexiconDoc(lex Lexicon) lexiconDoc {
	roots := lex.Roots
	if roots == nil {
		roots = []lexicon.Root{}
	}
	return lexiconDoc{Language: lex.Language, Seed: lex.Seed, Roots: roots, Words: lex.Words}
}
