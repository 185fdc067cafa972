package lexicon

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/lexicon-lang/lexicon/internal/log"
	phon "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

// ErrExhausted is returned when the rules are too restrictive to produce
// the requested output within the attempt budget.
var ErrExhausted = errors.New("generation attempts exhausted")

// rootNamespace seeds the name-based UUIDs of generated roots.
var rootNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/lexicon-lang/lexicon/root"))

// RootID returns the stable identifier of a root form in a language.
func RootID(language, form string) string {
	return uuid.NewSHA1(rootNamespace, []byte(language+"\x00"+form)).String()
}

// Generator produces roots and words. It is not safe for concurrent use;
// its random source advances with every call.
type Generator struct {
	language   string
	rules      Rules
	consonants []string
	vowels     []string
	// nonVowel holds the patterns allowed once the vowel-only run limit
	// is reached.
	nonVowel []Pattern
	rng      *rand.Rand
}

// NewGenerator validates rules against inv and returns a generator seeded
// with seed. Identical inputs always produce identical output.
func NewGenerator(inv *phon.Inventory, rules Rules, seed uint64) (*Generator, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation rules: %w", err)
	}

	g := &Generator{
		language: inv.Language(),
		rules:    rules,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	for p := range inv.AllOfClass(phon.ClassConsonant) {
		g.consonants = append(g.consonants, p.Symbol())
	}
	for p := range inv.AllOfClass(phon.ClassVowel) {
		g.vowels = append(g.vowels, p.Symbol())
	}

	for _, p := range rules.Patterns {
		if p.Needs(phon.ClassConsonant) && len(g.consonants) == 0 {
			return nil, fmt.Errorf("pattern %q needs consonants but inventory %q has none", p, g.language)
		}
		if p.Needs(phon.ClassVowel) && len(g.vowels) == 0 {
			return nil, fmt.Errorf("pattern %q needs vowels but inventory %q has none", p, g.language)
		}
		if !p.VowelOnly() {
			g.nonVowel = append(g.nonVowel, p)
		}
	}

	log.Debug(log.CatGen, "Generator ready",
		"language", g.language,
		"consonants", len(g.consonants),
		"vowels", len(g.vowels),
		"patterns", len(rules.Patterns),
		"seed", seed)
	return g, nil
}

// Root generates one root form that contains none of the illegal
// sequences.
func (g *Generator) Root() (string, error) {
	attempts := g.rules.attempts()
	for i := 0; i < attempts; i++ {
		form := g.candidate()
		if !g.illegal(form) {
			return form, nil
		}
		log.Debug(log.CatGen, "Rejected root", "form", form, "attempt", i+1)
	}
	return "", fmt.Errorf("%w: no valid root after %d attempts; check illegal_patterns and syllable_rules", ErrExhausted, attempts)
}

func (g *Generator) candidate() string {
	span := g.rules.MaxSyllables - g.rules.MinSyllables + 1
	n := g.rules.MinSyllables + g.rng.IntN(span)
	limit := g.rules.MaxVowelSyllablesInARow

	var b strings.Builder
	run := 0
	for i := 0; i < n; i++ {
		choices := g.rules.Patterns
		if limit != NoVowelRunLimit && run >= limit && len(g.nonVowel) > 0 {
			choices = g.nonVowel
		}
		p := choices[g.rng.IntN(len(choices))]
		g.fill(&b, p)
		if p.VowelOnly() {
			run++
		} else {
			run = 0
		}
	}
	return b.String()
}

func (g *Generator) fill(b *strings.Builder, p Pattern) {
	for _, slot := range p {
		switch slot {
		case 'C':
			b.WriteString(g.consonants[g.rng.IntN(len(g.consonants))])
		case 'V':
			b.WriteString(g.vowels[g.rng.IntN(len(g.vowels))])
		}
	}
}

func (g *Generator) illegal(form string) bool {
	for _, s := range g.rules.IllegalSequences {
		if strings.Contains(form, s) {
			return true
		}
	}
	return false
}

// Lexicon generates count roots with distinct forms, assigning each a part
// of speech and meaning drawn from vocab.
func (g *Generator) Lexicon(count int, vocab Vocabulary) ([]Root, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}

	roots := make([]Root, 0, count)
	used := make(map[string]struct{}, count)
	budget := count * g.rules.attempts()
	collisions := 0

	for len(roots) < count {
		form, err := g.Root()
		if err != nil {
			return nil, err
		}
		if _, dup := used[form]; dup {
			collisions++
			if collisions > budget {
				return nil, fmt.Errorf("%w: only %d unique roots of %d requested", ErrExhausted, len(roots), count)
			}
			continue
		}
		used[form] = struct{}{}

		pos := DefaultPartOfSpeech
		if len(vocab.PartsOfSpeech) > 0 {
			pos = vocab.PartsOfSpeech[g.rng.IntN(len(vocab.PartsOfSpeech))]
		}
		meaning := DefaultMeaning
		if ms := vocab.Meanings[pos]; len(ms) > 0 {
			meaning = ms[g.rng.IntN(len(ms))]
		}

		roots = append(roots, Root{
			ID:           RootID(g.language, form),
			Form:         form,
			PartOfSpeech: pos,
			Meaning:      meaning,
		})
	}

	log.Info(log.CatGen, "Generated lexicon", "language", g.language, "roots", len(roots), "collisions", collisions)
	return roots, nil
}

// Derive builds a word from root by optionally attaching one prefix and one
// suffix, each with even odds. The derived meaning lists the affix meanings
// followed by the root meaning.
func (g *Generator) Derive(root Root, morph Morphology) Word {
	form := root.Form
	var applied []Affix

	if g.rng.IntN(2) == 0 {
		if prefixes := morph.ofKind(Prefix); len(prefixes) > 0 {
			a := prefixes[g.rng.IntN(len(prefixes))]
			form = a.Form + form
			applied = append(applied, a)
		}
	}
	if g.rng.IntN(2) == 0 {
		if suffixes := morph.ofKind(Suffix); len(suffixes) > 0 {
			a := suffixes[g.rng.IntN(len(suffixes))]
			form += a.Form
			applied = append(applied, a)
		}
	}

	parts := make([]string, 0, len(applied)+1)
	for _, a := range applied {
		if a.Meaning != "" {
			parts = append(parts, a.Meaning)
		}
	}
	parts = append(parts, root.Meaning)

	return Word{
		Form:           form,
		Root:           root,
		Affixes:        applied,
		DerivedMeaning: strings.Join(parts, " "),
	}
}
