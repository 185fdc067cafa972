// Package config provides configuration types and defaults for lexicon.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexicon-lang/lexicon/internal/export"
	"github.com/lexicon-lang/lexicon/internal/lexicon"
	"github.com/lexicon-lang/lexicon/internal/log"
	"github.com/lexicon-lang/lexicon/internal/paths"
	"github.com/lexicon-lang/lexicon/internal/phonology/policy"
	"github.com/lexicon-lang/lexicon/internal/tracing"
)

// Config holds all configuration options for lexicon.
type Config struct {
	DatabasePath   string           `mapstructure:"database_path"`
	DefinitionsDir string           `mapstructure:"definitions_dir"`
	Log            LogConfig        `mapstructure:"log"`
	Symbols        SymbolsConfig    `mapstructure:"symbols"`
	Generation     GenerationConfig `mapstructure:"generation"`
	Watch          WatchConfig      `mapstructure:"watch"`
	Serve          ServeConfig      `mapstructure:"serve"`
	Tracing        tracing.Config   `mapstructure:"tracing"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File receives log output. Empty means stderr.
	File string `mapstructure:"file"`
	// JSON switches the handler to JSON records.
	JSON bool `mapstructure:"json"`
}

// SymbolsConfig selects the phoneme symbol policy.
type SymbolsConfig struct {
	// Policy is one of any, normalized, ipa.
	Policy string `mapstructure:"policy"`
	// MaxGraphemes limits a symbol's length in grapheme clusters. 0 means
	// no limit. Ignored by the any policy.
	MaxGraphemes int `mapstructure:"max_graphemes"`
}

// GenerationConfig holds defaults for the generate command.
type GenerationConfig struct {
	// Seed makes output reproducible. 0 picks a fresh seed per run.
	Seed        uint64 `mapstructure:"seed"`
	MaxAttempts int    `mapstructure:"max_attempts"`
	Count       int    `mapstructure:"count"`
	Format      string `mapstructure:"format"`
}

// WatchConfig tunes definition file watching.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	// Addr is the host:port to listen on.
	Addr string `mapstructure:"addr"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DatabasePath:   paths.DatabaseFile(),
		DefinitionsDir: paths.DefinitionsDir(),
		Log: LogConfig{
			Level: "warn",
		},
		Symbols: SymbolsConfig{
			Policy: policy.NameAny,
		},
		Generation: GenerationConfig{
			MaxAttempts: lexicon.DefaultMaxAttempts,
			Count:       10,
			Format:      string(export.FormatText),
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
		},
		Tracing: tracing.Config{
			Exporter: tracing.ExporterStdout,
		},
	}
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Symbols.MaxGraphemes < 0 {
		errs = append(errs, fmt.Errorf("symbols.max_graphemes must be >= 0, got %d", c.Symbols.MaxGraphemes))
	}
	if _, err := policy.FromConfig(c.Symbols.Policy, c.Symbols.MaxGraphemes); err != nil {
		errs = append(errs, fmt.Errorf("symbols.policy: %w", err))
	}
	if c.Generation.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("generation.max_attempts must be >= 1, got %d", c.Generation.MaxAttempts))
	}
	if c.Generation.Count < 1 {
		errs = append(errs, fmt.Errorf("generation.count must be >= 1, got %d", c.Generation.Count))
	}
	if _, err := export.New(c.Generation.Format); err != nil {
		errs = append(errs, fmt.Errorf("generation.format: %w", err))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must be >= 0, got %s", c.Watch.Debounce))
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		errs = append(errs, errors.New("serve.addr is required"))
	}
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	return errors.Join(errs...)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Lexicon Configuration

# SQLite database holding phoneme inventories
# (default: $XDG_DATA_HOME/lexicon/lexicon.db or ~/.local/share/lexicon/lexicon.db)
# database_path: ~/.local/share/lexicon/lexicon.db

# Directory searched for user language definitions (*.yaml, *.yml, *.json)
# (default: $XDG_CONFIG_HOME/lexicon/languages or ~/.config/lexicon/languages)
# definitions_dir: ~/.config/lexicon/languages

# Diagnostic logging
log:
  level: warn          # debug, info, warn, error
  # file: /tmp/lexicon.log
  json: false

# Phoneme symbol validation
symbols:
  # Policies:
  #   any         - any non-empty symbol
  #   normalized  - NFC-normalised, no whitespace or control characters
  #   ipa         - normalized, restricted to Latin and IPA letters and diacritics
  policy: any
  max_graphemes: 0     # 0 = unlimited; ignored by "any"

# Defaults for 'lexicon generate'
generation:
  seed: 0              # 0 = new random seed each run
  max_attempts: 100    # attempts per root before giving up
  count: 10
  format: text         # text, json, yaml

# File watching for 'lexicon generate --watch'
watch:
  debounce: 300ms

# HTTP API for 'lexicon serve'
serve:
  addr: 127.0.0.1:8080

# OpenTelemetry spans for each command
tracing:
  enabled: false
  exporter: stdout     # stdout (JSON lines) or otlp (gRPC collector)
  # endpoint: localhost:4317
  # file: /tmp/lexicon-traces.json
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
