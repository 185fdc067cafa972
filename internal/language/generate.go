package language

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/lexicon-lang/lexicon/internal/export"
	"github.com/lexicon-lang/lexicon/internal/lexicon"
	phon "github.com/lexicon-lang/lexicon/internal/phonology/domain"
	"github.com/lexicon-lang/lexicon/internal/tracing"
)

// GenerateOptions controls Generate.
type GenerateOptions struct {
	Count int
	Seed  uint64
	// Derive adds one derived word per root.
	Derive bool
	// MaxAttempts applies when the definition sets none.
	MaxAttempts int
	// Policy validates phoneme symbols. Nil means any symbol.
	Policy phon.SymbolPolicy
}

// Generate builds def and produces a lexicon of opts.Count unique roots.
// The generator is seeded afresh on every call, so the same definition and
// options always give the same result.
func Generate(ctx context.Context, def *Definition, opts GenerateOptions) (_ export.Lexicon, retErr error) {
	_, span := tracing.Start(ctx, "lexicon.generate")
	span.SetAttributes(
		attribute.String("language", def.Language),
		attribute.Int64("seed", int64(opts.Seed)), //nolint:gosec // attribute only
		attribute.Int("count", opts.Count),
		attribute.Bool("derive", opts.Derive),
	)
	defer func() { tracing.End(span, retErr) }()

	lang, err := def.Build(opts.Policy)
	if err != nil {
		return export.Lexicon{}, err
	}
	if lang.Rules.MaxAttempts == 0 {
		lang.Rules.MaxAttempts = opts.MaxAttempts
	}

	gen, err := lexicon.NewGenerator(lang.Inventory, lang.Rules, opts.Seed)
	if err != nil {
		return export.Lexicon{}, fmt.Errorf("language %q: %w", def.Language, err)
	}
	roots, err := gen.Lexicon(opts.Count, lang.Vocabulary)
	if errors.Is(err, lexicon.ErrExhausted) {
		return export.Lexicon{}, fmt.Errorf("%s: %w (relax the syllable rules or lower the count)", def.Language, err)
	}
	if err != nil {
		return export.Lexicon{}, err
	}

	lex := export.Lexicon{Language: def.Language, Seed: opts.Seed, Roots: roots}
	if opts.Derive {
		lex.Words = make([]lexicon.Word, 0, len(roots))
		for _, root := range roots {
			lex.Words = append(lex.Words, gen.Derive(root, lang.Morphology))
		}
	}
	return lex, nil
}
