// Package language loads language definition files: the phonemes,
// syllable rules, morphology and vocabulary of one constructed language.
//
// Definitions are YAML. JSON files are accepted too, since JSON is a
// subset of YAML. Key names follow the historical format, including its
// aliases (grapheme for symbol, sound_type for class,
// min_syllables_for_root for min_syllables).
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexicon-lang/lexicon/internal/lexicon"
	phon "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// PhonemeEntry is one phoneme as written in a definition file.
type PhonemeEntry struct {
	Symbol    string `yaml:"symbol"`
	Grapheme  string `yaml:"grapheme"`
	Class     string `yaml:"class"`
	SoundType string `yaml:"sound_type"`
}

func (e PhonemeEntry) symbol() string {
	if e.Symbol != "" {
		return e.Symbol
	}
	return e.Grapheme
}

func (e PhonemeEntry) class() string {
	if e.Class != "" {
		return e.Class
	}
	return e.SoundType
}

// AffixEntry is one affix as written in a definition file.
type AffixEntry struct {
	Form      string `yaml:"form"`
	Kind      string `yaml:"kind"`
	AffixType string `yaml:"affix_type"`
	Function  string `yaml:"function"`
	Meaning   string `yaml:"meaning"`
}

// SequenceRules holds limits on syllable sequences. A missing
// max_vowel_syllables_in_a_row is 0: no vowel-only syllables unless no
// other pattern exists. -1 removes the limit.
type SequenceRules struct {
	MaxVowelSyllablesInARow int `yaml:"max_vowel_syllables_in_a_row"`
}

// Definition is the parsed form of a language definition file.
type Definition struct {
	Language            string         `yaml:"language"`
	Description         string         `yaml:"description"`
	Phonemes            []PhonemeEntry `yaml:"phonemes"`
	SyllableRules       []string       `yaml:"syllable_rules"`
	MinSyllables        int            `yaml:"min_syllables"`
	MinSyllablesForRoot int            `yaml:"min_syllables_for_root"`
	MaxSyllables        int            `yaml:"max_syllables"`
	MaxSyllablesForRoot int            `yaml:"max_syllables_for_root"`
	IllegalPatterns     []string       `yaml:"illegal_patterns"`
	SequenceRules       SequenceRules  `yaml:"sequence_rules"`
	MaxAttempts         int            `yaml:"max_attempts"`
	Morphology          struct {
		Affixes []AffixEntry `yaml:"affixes"`
	} `yaml:"morphology"`
	LexiconGeneration lexicon.Vocabulary `yaml:"lexicon_generation"`

	// Path is the file the definition was read from, or its name inside
	// the built-in filesystem.
	Path   string `yaml:"-"`
	Source Source `yaml:"-"`
}

// Language is a definition turned into domain values.
type Language struct {
	Inventory  *phon.Inventory
	Rules      lexicon.Rules
	Morphology lexicon.Morphology
	Vocabulary lexicon.Vocabulary
}

// Parse decodes a definition. name is used for error messages and, when
// the document has no language key, to derive the language identifier
// from the file stem.
func Parse(data []byte, name string) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing language definition %s: %w", name, err)
	}
	if strings.TrimSpace(def.Language) == "" {
		def.Language = Stem(name)
	}
	def.Path = name
	return &def, nil
}

// Stem returns the file name of path without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d *Definition) minSyllables() int {
	if d.MinSyllables != 0 {
		return d.MinSyllables
	}
	return d.MinSyllablesForRoot
}

func (d *Definition) maxSyllables() int {
	if d.MaxSyllables != 0 {
		return d.MaxSyllables
	}
	return d.MaxSyllablesForRoot
}

// BuildInventory turns the phoneme list into an inventory, validating
// every symbol with policy. All problems are reported together.
func (d *Definition) BuildInventory(policy phon.SymbolPolicy) (*phon.Inventory, error) {
	inv := phon.NewInventory(d.Language)
	var errs []error
	for i, e := range d.Phonemes {
		class, err := phon.ParseClass(e.class())
		if err != nil {
			errs = append(errs, fmt.Errorf("phonemes[%d]: %w", i, err))
			continue
		}
		p, err := phon.NewPhonemeWithPolicy(policy, e.symbol(), class)
		if err != nil {
			errs = append(errs, fmt.Errorf("phonemes[%d]: %w", i, err))
			continue
		}
		if err := inv.Add(p); err != nil {
			errs = append(errs, fmt.Errorf("phonemes[%d]: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("language %q: %w", d.Language, err)
	}
	return inv, nil
}

// Build converts the definition into domain values.
func (d *Definition) Build(policy phon.SymbolPolicy) (*Language, error) {
	inv, err := d.BuildInventory(policy)
	if err != nil {
		return nil, err
	}

	patterns, err := lexicon.ParsePatterns(d.SyllableRules)
	if err != nil {
		return nil, fmt.Errorf("language %q: syllable_rules: %w", d.Language, err)
	}

	rules := lexicon.Rules{
		Patterns:                patterns,
		MinSyllables:            d.minSyllables(),
		MaxSyllables:            d.maxSyllables(),
		IllegalSequences:        d.IllegalPatterns,
		MaxVowelSyllablesInARow: d.SequenceRules.MaxVowelSyllablesInARow,
		MaxAttempts:             d.MaxAttempts,
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("language %q: %w", d.Language, err)
	}

	var morph lexicon.Morphology
	for i, e := range d.Morphology.Affixes {
		kind := e.Kind
		if kind == "" {
			kind = e.AffixType
		}
		a := lexicon.Affix{
			Form:     e.Form,
			Kind:     lexicon.AffixKind(strings.ToLower(kind)),
			Function: e.Function,
			Meaning:  e.Meaning,
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("language %q: morphology.affixes[%d]: %w", d.Language, i, err)
		}
		morph.Affixes = append(morph.Affixes, a)
	}

	return &Language{
		Inventory:  inv,
		Rules:      rules,
		Morphology: morph,
		Vocabulary: d.LexiconGeneration,
	}, nil
}
