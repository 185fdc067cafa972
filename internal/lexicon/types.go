package lexicon

import "fmt"

// AffixKind says where an affix attaches.
type AffixKind string

const (
	Prefix AffixKind = "prefix"
	Suffix AffixKind = "suffix"
)

// Affix is a bound morpheme with a grammatical function and a gloss.
type Affix struct {
	Form     string    `json:"form" yaml:"form"`
	Kind     AffixKind `json:"kind" yaml:"kind"`
	Function string    `json:"function,omitempty" yaml:"function,omitempty"`
	Meaning  string    `json:"meaning" yaml:"meaning"`
}

// Validate checks the affix kind and form.
func (a Affix) Validate() error {
	if a.Form == "" {
		return fmt.Errorf("affix %q: form is required", a.Meaning)
	}
	if a.Kind != Prefix && a.Kind != Suffix {
		return fmt.Errorf("affix %q: kind must be prefix or suffix, got %q", a.Form, a.Kind)
	}
	return nil
}

// Morphology is the set of affixes available for derivation.
type Morphology struct {
	Affixes []Affix `json:"affixes" yaml:"affixes"`
}

func (m Morphology) ofKind(k AffixKind) []Affix {
	var out []Affix
	for _, a := range m.Affixes {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// Vocabulary supplies parts of speech and the meanings available for each.
type Vocabulary struct {
	PartsOfSpeech []string            `json:"parts_of_speech" yaml:"parts_of_speech"`
	Meanings      map[string][]string `json:"meanings" yaml:"meanings"`
}

// Defaults used when a Vocabulary has nothing to offer.
const (
	DefaultPartOfSpeech = "noun"
	DefaultMeaning      = "placeholder"
)

// Root is a generated lexical root.
type Root struct {
	ID           string `json:"id" yaml:"id"`
	Form         string `json:"form" yaml:"form"`
	PartOfSpeech string `json:"part_of_speech" yaml:"part_of_speech"`
	Meaning      string `json:"meaning" yaml:"meaning"`
}

// Word is a root with zero or more affixes applied.
type Word struct {
	Form           string  `json:"form" yaml:"form"`
	Root           Root    `json:"root" yaml:"root"`
	Affixes        []Affix `json:"affixes,omitempty" yaml:"affixes,omitempty"`
	DerivedMeaning string  `json:"derived_meaning" yaml:"derived_meaning"`
}
