package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexicon-lang/lexicon/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve inventories and generation over HTTP",
	Long: `Start a JSON HTTP API over the inventory database and the available
language definitions. The server runs until interrupted.

Routes:
  GET    /api/health
  GET    /api/inventories
  POST   /api/inventories
  GET    /api/inventories/{language}[?class=consonant|vowel]
  DELETE /api/inventories/{language}
  POST   /api/inventories/{language}/phonemes
  DELETE /api/inventories/{language}/phonemes/{symbol}
  GET    /api/languages
  POST   /api/generate`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config serve.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := cfg.Serve.Addr
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := api.NewHandler(svc, api.Options{
		DefinitionsDir: cfg.DefinitionsDir,
		DefaultCount:   cfg.Generation.Count,
		MaxAttempts:    cfg.Generation.MaxAttempts,
	})
	return api.Serve(ctx, ln, h)
}
