// Package cmd implements the lexicon command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/lexicon-lang/lexicon/internal/config"
	"github.com/lexicon-lang/lexicon/internal/infrastructure/sqlite"
	"github.com/lexicon-lang/lexicon/internal/log"
	"github.com/lexicon-lang/lexicon/internal/phonology/application"
	"github.com/lexicon-lang/lexicon/internal/phonology/policy"
	"github.com/lexicon-lang/lexicon/internal/tracing"
)

// shutdownTimeout bounds the final flush of buffered spans.
const shutdownTimeout = 5 * time.Second

var (
	cfgFile  string
	dbPath   string
	logLevel string
	logFile  string

	cfg           config.Config
	logCleanup    func() error
	traceShutdown tracing.ShutdownFunc
	commandSpan   trace.Span
)

var rootCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Phoneme inventories and vocabulary generation for constructed languages",
	Long: `lexicon stores phoneme inventories for constructed languages and generates
root words and derived vocabulary from language definition files.

Inventories live in a local SQLite database. Language definitions are YAML
(or JSON) files; a few samples are built in, see 'lexicon languages'.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initApp,
	PersistentPostRunE: closeApp,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/lexicon/config.yaml)")
	pf.StringVar(&dbPath, "db", "", "inventory database path")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

// Execute runs the root command and exits non-zero on failure. cobra has
// already printed the error by then.
func Execute() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	if finishErr := finish(err); err == nil {
		err = finishErr
	}
	if err != nil {
		os.Exit(1)
	}
}

func initApp(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	for key, flag := range map[string]string{
		"database_path": "db",
		"log.level":     "log-level",
		"log.file":      "log-file",
	} {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}

	loaded, used, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	cleanup, err := log.Init(log.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		JSON:   cfg.Log.JSON,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logCleanup = cleanup

	shutdown, err := tracing.Init(cmd.Context(), cfg.Tracing, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	traceShutdown = shutdown
	ctx, span := tracing.Start(cmd.Context(), cmd.CommandPath())
	commandSpan = span
	cmd.SetContext(ctx)

	log.Debug(log.CatConfig, "Configuration loaded", "file", used, "database", cfg.DatabasePath, "policy", cfg.Symbols.Policy)
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	return finish(nil)
}

// finish ends the command span, flushes traces and closes the log. It is
// safe to call more than once.
func finish(cmdErr error) error {
	var errs []error
	if commandSpan != nil {
		tracing.End(commandSpan, cmdErr)
		commandSpan = nil
	}
	if traceShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		errs = append(errs, traceShutdown(ctx))
		cancel()
		traceShutdown = nil
	}
	if logCleanup != nil {
		errs = append(errs, logCleanup())
		logCleanup = nil
	}
	return errors.Join(errs...)
}

// openService opens the inventory database and builds the service over it.
// The returned close function releases the database.
func openService() (*application.Service, func() error, error) {
	pol, err := policy.FromConfig(cfg.Symbols.Policy, cfg.Symbols.MaxGraphemes)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlite.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	svc := application.NewService(db.InventoryRepository(), application.WithPolicy(pol))
	return svc, db.Close, nil
}
