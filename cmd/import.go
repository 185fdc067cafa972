package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexicon-lang/lexicon/internal/language"
	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <glob>...",
	Short: "Store the inventories of language definition files",
	Long: `Load every language definition matching the given patterns and store its
phoneme inventory. Patterns may use ** to match across directories and
{a,b} alternatives. Existing inventories are skipped unless --replace is
given.`,
	Example: `  lexicon import 'languages/**/*.yaml'
  lexicon import --replace kalari.yaml proto-x.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "overwrite inventories that already exist")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var defs []*language.Definition
	for _, pattern := range args {
		matched, err := language.LoadGlob(pattern)
		if err != nil {
			return err
		}
		defs = append(defs, matched...)
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	out := cmd.OutOrStdout()
	imported, skipped := 0, 0
	for _, def := range defs {
		inv, err := def.BuildInventory(svc.Policy())
		if err != nil {
			return fmt.Errorf("%s: %w", def.Path, err)
		}
		err = svc.Import(inv, importReplace)
		var exists *domain.InventoryExistsError
		if errors.As(err, &exists) {
			fmt.Fprintf(out, "Skipped %s: inventory %s exists\n", def.Path, inv.Language())
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", def.Path, err)
		}
		fmt.Fprintf(out, "Imported %s (%d phonemes) from %s\n", inv.Language(), inv.Size(), def.Path)
		imported++
	}
	fmt.Fprintf(out, "%d imported, %d skipped\n", imported, skipped)
	return nil
}
