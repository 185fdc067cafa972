// Package paths resolves the on-disk locations lexicon uses by default.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "lexicon"

// fallbackDir is used when neither XDG variables nor a home directory are
// available.
const fallbackDir = ".lexicon"

// ConfigDir returns $XDG_CONFIG_HOME/lexicon, or ~/.config/lexicon.
func ConfigDir() string {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns $XDG_DATA_HOME/lexicon, or ~/.local/share/lexicon.
func DataDir() string {
	return baseDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ConfigFile is the default configuration file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DatabaseFile is the default inventory database path.
func DatabaseFile() string {
	return filepath.Join(DataDir(), "lexicon.db")
}

// DefinitionsDir is the default directory searched for user language
// definitions.
func DefinitionsDir() string {
	return filepath.Join(ConfigDir(), "languages")
}

// Expand replaces a leading "~" with the user's home directory and cleans
// the result. Empty input stays empty.
func Expand(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(path)
}

func baseDir(env, homeRel string) string {
	// Relative XDG values are ignored.
	if dir := os.Getenv(env); dir != "" && filepath.IsAbs(dir) {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return fallbackDir
	}
	return filepath.Join(home, homeRel, AppName)
}
