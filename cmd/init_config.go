package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexicon-lang/lexicon/internal/config"
	"github.com/lexicon-lang/lexicon/internal/paths"
)

var initConfigForce bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a commented default config file",
	Long: `Write the default configuration, with comments describing every key, to
path or to the default config location. An existing file is kept unless
--force is given.`,
	Args: cobra.MaximumNArgs(1),
	// The config being written may not exist or parse yet.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runInitConfig,
}

func init() {
	initConfigCmd.Flags().BoolVarP(&initConfigForce, "force", "f", false, "overwrite an existing file")
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := paths.ConfigFile()
	switch {
	case len(args) == 1:
		path = paths.Expand(args[0])
	case cfgFile != "":
		path = paths.Expand(cfgFile)
	}

	if _, err := os.Stat(path); err == nil && !initConfigForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
