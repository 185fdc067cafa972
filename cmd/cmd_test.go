package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/lexicon-lang/lexicon/internal/export"
	"github.com/lexicon-lang/lexicon/internal/language"
)

// resetFlags restores every flag to its default so that values parsed by
// one test do not leak into the next through the package-level commands.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// testEnv isolates configuration lookups and returns a fresh database path.
func testEnv(t *testing.T) (home, db string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	return home, home + "/lexicon.db"
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	require.NoError(t, finish(err))
	return stdout.String(), stderr.String(), err
}

// mustExecute runs the CLI and fails the test on error.
func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := execute(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return stdout
}

func mustExporter(t *testing.T, format string) export.Exporter {
	t.Helper()
	exp, err := export.New(format)
	require.NoError(t, err)
	return exp
}

func mustResolve(t *testing.T, ref string) *language.Definition {
	t.Helper()
	def, err := language.Resolve(ref, "")
	require.NoError(t, err)
	return def
}
