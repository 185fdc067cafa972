package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lexicon-lang/lexicon/internal/paths"
)

// EnvPrefix prefixes environment overrides, e.g. LEXICON_LOG_LEVEL.
const EnvPrefix = "LEXICON"

// SetDefaults registers every key of Defaults with v. Registering keys is
// also what lets AutomaticEnv overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("database_path", d.DatabasePath)
	v.SetDefault("definitions_dir", d.DefinitionsDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("symbols.policy", d.Symbols.Policy)
	v.SetDefault("symbols.max_graphemes", d.Symbols.MaxGraphemes)
	v.SetDefault("generation.seed", d.Generation.Seed)
	v.SetDefault("generation.max_attempts", d.Generation.MaxAttempts)
	v.SetDefault("generation.count", d.Generation.Count)
	v.SetDefault("generation.format", d.Generation.Format)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.file", d.Tracing.File)
}

// Load reads configuration into v and decodes it. An explicit configFile
// must exist; without one the default location is optional.
// It returns the config file actually used, or "" when none was read.
func Load(v *viper.Viper, configFile string) (Config, string, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(paths.Expand(configFile))
	} else {
		v.AddConfigPath(paths.ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	cfg.DatabasePath = paths.Expand(cfg.DatabasePath)
	cfg.DefinitionsDir = paths.Expand(cfg.DefinitionsDir)
	cfg.Log.File = paths.Expand(cfg.Log.File)
	cfg.Tracing.File = paths.Expand(cfg.Tracing.File)

	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}
