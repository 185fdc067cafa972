package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lexicon-lang/lexicon/internal/language"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List available language definitions",
	Long:  `Display all language definitions usable with 'lexicon generate', including built-in and user-defined ones.`,
	Args:  cobra.NoArgs,
	RunE:  runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	defs, err := language.Catalog(cfg.DefinitionsDir)
	if err != nil {
		return fmt.Errorf("loading languages: %w", err)
	}

	var builtins, user []*language.Definition
	for _, d := range defs {
		if d.Source == language.SourceBuiltIn {
			builtins = append(builtins, d)
		} else {
			user = append(user, d)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Built-in Languages:")
	printLanguages(out, builtins)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "User Languages (%s):\n", cfg.DefinitionsDir)
	printLanguages(out, user)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Generate vocabulary with 'lexicon generate <language>'")
	return nil
}

func printLanguages(out io.Writer, defs []*language.Definition) {
	if len(defs) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	maxLen := maxNameLen(defs)
	for _, d := range defs {
		fmt.Fprintf(out, "  %-*s  %s\n", maxLen, d.Language, d.Description)
	}
}

// maxNameLen returns the length of the longest language identifier in the slice.
func maxNameLen(defs []*language.Definition) int {
	maxLen := 0
	for _, d := range defs {
		if len(d.Language) > maxLen {
			maxLen = len(d.Language)
		}
	}
	return maxLen
}
