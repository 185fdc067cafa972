package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexicon-lang/lexicon/internal/export"
	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

var (
	showClass  string
	showFormat string
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Aliases: []string{"inv"},
	Short:   "Manage stored phoneme inventories",
}

var inventoryCreateCmd = &cobra.Command{
	Use:   "create <language>",
	Short: "Create an empty inventory",
	Args:  cobra.ExactArgs(1),
	RunE:  runInventoryCreate,
}

var inventoryAddCmd = &cobra.Command{
	Use:   "add <language> <consonant|vowel> <symbol>...",
	Short: "Add phonemes of one class to an inventory",
	Long: `Add one or more phonemes of the given class. Symbols are validated by the
configured symbol policy. Adding stops at the first symbol already present.`,
	Example: `  lexicon inventory add Proto-X consonant p t k m s
  lexicon inventory add Proto-X v a i u e o`,
	Args: cobra.MinimumNArgs(3),
	RunE: runInventoryAdd,
}

var inventoryRemoveCmd = &cobra.Command{
	Use:   "remove <language> <symbol>...",
	Short: "Remove phonemes from an inventory",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runInventoryRemove,
}

var inventoryShowCmd = &cobra.Command{
	Use:   "show <language>",
	Short: "Print an inventory",
	Args:  cobra.ExactArgs(1),
	RunE:  runInventoryShow,
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored inventories",
	Args:  cobra.NoArgs,
	RunE:  runInventoryList,
}

var inventoryDeleteCmd = &cobra.Command{
	Use:   "delete <language>",
	Short: "Delete an inventory and its phonemes",
	Args:  cobra.ExactArgs(1),
	RunE:  runInventoryDelete,
}

func init() {
	inventoryShowCmd.Flags().StringVar(&showClass, "class", "", "only show phonemes of this class (consonant, vowel)")
	inventoryShowCmd.Flags().StringVar(&showFormat, "format", "text", "output format: text, json, yaml")

	inventoryCmd.AddCommand(
		inventoryCreateCmd,
		inventoryAddCmd,
		inventoryRemoveCmd,
		inventoryShowCmd,
		inventoryListCmd,
		inventoryDeleteCmd,
	)
	rootCmd.AddCommand(inventoryCmd)
}

func runInventoryCreate(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	inv, err := svc.Create(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created inventory %s\n", inv.Language())
	return nil
}

func runInventoryAdd(cmd *cobra.Command, args []string) error {
	class, err := domain.ParseClass(args[1])
	if err != nil {
		return err
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	for _, symbol := range args[2:] {
		p, err := svc.AddPhoneme(args[0], symbol, class)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", p)
	}
	return nil
}

func runInventoryRemove(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	for _, symbol := range args[1:] {
		if err := svc.RemovePhoneme(args[0], symbol); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", symbol)
	}
	return nil
}

func runInventoryShow(cmd *cobra.Command, args []string) error {
	exp, err := export.New(showFormat)
	if err != nil {
		return err
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	inv, err := svc.Get(args[0])
	if err != nil {
		return err
	}

	if showClass != "" {
		class, err := domain.ParseClass(showClass)
		if err != nil {
			return err
		}
		filtered := domain.NewInventory(inv.Language())
		for p := range inv.AllOfClass(class) {
			if err := filtered.Add(p); err != nil {
				return err
			}
		}
		inv = filtered
	}

	return exp.Inventory(cmd.OutOrStdout(), inv)
}

func runInventoryList(cmd *cobra.Command, _ []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	languages, err := svc.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(languages) == 0 {
		fmt.Fprintln(out, "No inventories. Create one with 'lexicon inventory create <language>'.")
		return nil
	}

	maxLen := 0
	for _, l := range languages {
		maxLen = max(maxLen, len(l))
	}
	for _, l := range languages {
		inv, err := svc.Get(l)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-*s  %2d consonants  %2d vowels\n",
			maxLen, l, inv.Count(domain.ClassConsonant), inv.Count(domain.ClassVowel))
	}
	return nil
}

func runInventoryDelete(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	if err := svc.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted inventory %s\n", args[0])
	return nil
}
