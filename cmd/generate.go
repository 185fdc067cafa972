package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/lexicon-lang/lexicon/internal/export"
	"github.com/lexicon-lang/lexicon/internal/language"
	"github.com/lexicon-lang/lexicon/internal/log"
	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
	"github.com/lexicon-lang/lexicon/internal/phonology/policy"
)

var (
	genCount  int
	genSeed   uint64
	genDerive bool
	genFormat string
	genOutput string
	genWatch  bool
	genDiff   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <definition-file|language>",
	Short: "Generate roots and derived words for a language",
	Long: `Generate a lexicon of unique roots from a language definition. The
argument is a definition file path, or the name of a user or built-in
language (see 'lexicon languages').

The same definition and seed always produce the same output.`,
	Example: `  lexicon generate proto-x --count 5 --seed 7
  lexicon generate ./kalari.yaml --derive --format json --output kalari.json
  lexicon generate ./draft.yaml --watch --diff`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.IntVarP(&genCount, "count", "n", 0, "number of roots (default from config)")
	f.Uint64Var(&genSeed, "seed", 0, "random seed; 0 uses generation.seed, or a fresh seed")
	f.BoolVarP(&genDerive, "derive", "d", false, "derive one word from each root using the language's affixes")
	f.StringVarP(&genFormat, "format", "f", "", "output format: text, json, yaml (default from config)")
	f.StringVarP(&genOutput, "output", "o", "", "write to this file instead of stdout")
	f.BoolVarP(&genWatch, "watch", "w", false, "regenerate whenever the definition file changes")
	f.BoolVar(&genDiff, "diff", false, "with --watch, print only the lines that changed since the last run")
	rootCmd.AddCommand(generateCmd)
}

// genRequest is a fully resolved generate invocation.
type genRequest struct {
	count    int
	seed     uint64
	derive   bool
	exporter export.Exporter
	policy   domain.SymbolPolicy
	attempts int
	output   string
	stdout   io.Writer
	diff     bool

	// last is the previous rendering, kept for --diff.
	last    string
	hasLast bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := resolveGenRequest(cmd)
	if err != nil {
		return err
	}

	def, err := language.Resolve(args[0], cfg.DefinitionsDir)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if !genWatch {
		return req.run(ctx, def)
	}

	if def.Source != language.SourceUser {
		return fmt.Errorf("--watch needs a definition file; %q is built in", def.Language)
	}
	if err := req.run(ctx, def); err != nil {
		// Keep watching; the next save may fix the definition.
		fmt.Fprintf(cmd.ErrOrStderr(), "generate: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var mu sync.Mutex
	return language.Watch(ctx, def.Path, cfg.Watch.Debounce, func(d *language.Definition, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			err = req.run(ctx, d)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "generate: %v\n", err)
		}
	})
}

func resolveGenRequest(cmd *cobra.Command) (*genRequest, error) {
	flags := cmd.Flags()
	if genDiff && !genWatch {
		return nil, errors.New("--diff only makes sense with --watch")
	}

	count := cfg.Generation.Count
	if flags.Changed("count") {
		count = genCount
	}
	if count < 1 {
		return nil, fmt.Errorf("--count must be at least 1, got %d", count)
	}

	format := cfg.Generation.Format
	if flags.Changed("format") {
		format = genFormat
	}
	exp, err := export.New(format)
	if err != nil {
		return nil, err
	}

	seed := cfg.Generation.Seed
	if flags.Changed("seed") {
		seed = genSeed
	}
	if seed == 0 {
		seed = rand.Uint64()
	}

	pol, err := policy.FromConfig(cfg.Symbols.Policy, cfg.Symbols.MaxGraphemes)
	if err != nil {
		return nil, err
	}

	return &genRequest{
		count:    count,
		seed:     seed,
		derive:   genDerive,
		exporter: exp,
		policy:   pol,
		attempts: cfg.Generation.MaxAttempts,
		output:   genOutput,
		stdout:   cmd.OutOrStdout(),
		diff:     genDiff,
	}, nil
}

// run generates and writes one lexicon. In diff mode, every run after the
// first prints only the lines that changed on stdout.
func (r *genRequest) run(ctx context.Context, def *language.Definition) error {
	lex, err := language.Generate(ctx, def, language.GenerateOptions{
		Count:       r.count,
		Seed:        r.seed,
		Derive:      r.derive,
		MaxAttempts: r.attempts,
		Policy:      r.policy,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.exporter.Lexicon(&buf, lex); err != nil {
		return fmt.Errorf("rendering lexicon: %w", err)
	}
	rendered := buf.String()
	previous, hadPrevious := r.last, r.hasLast
	r.last, r.hasLast = rendered, true

	if r.output != "" {
		if err := os.WriteFile(r.output, buf.Bytes(), 0o644); err != nil { //nolint:gosec // generated vocabulary is not secret
			return fmt.Errorf("writing output file: %w", err)
		}
	}
	log.Debug(log.CatCLI, "Wrote lexicon", "language", lex.Language, "roots", len(lex.Roots), "words", len(lex.Words), "output", r.output)

	switch {
	case r.diff && hadPrevious:
		printChanges(r.stdout, export.Diff(previous, rendered))
	case r.output == "":
		if _, err := io.WriteString(r.stdout, rendered); err != nil {
			return fmt.Errorf("writing lexicon: %w", err)
		}
	}
	return nil
}

// printChanges writes removed lines in red and added lines in green when
// w is a color terminal, and plain "-"/"+" prefixed lines otherwise.
func printChanges(w io.Writer, changes []export.Change) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "(no changes)")
		return
	}
	out := termenv.NewOutput(w)
	for _, c := range changes {
		line := out.String("+ " + c.Line).Foreground(out.Color("2"))
		if c.Op == export.Removed {
			line = out.String("- " + c.Line).Foreground(out.Color("1"))
		}
		fmt.Fprintln(w, line)
	}
}
