package language

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lexicon-lang/lexicon/internal/language/builtin"
	"github.com/lexicon-lang/lexicon/internal/log"
)

// definitionGlob matches definition files below a directory.
const definitionGlob = "**/*.{yaml,yml,json}"

// Load reads a definition file from disk.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("reading language definition: %w", err)
	}
	def, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	def.Source = SourceUser
	log.Debug(log.CatConfig, "Loaded language definition", "path", path, "language", def.Language)
	return def, nil
}

// LoadGlob loads every file matching pattern, which may use ** and {a,b}
// alternatives. Results are ordered by path. A pattern matching nothing is
// an error.
func LoadGlob(pattern string) ([]*Definition, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no language definitions match %q", pattern)
	}
	sort.Strings(matches)

	defs := make([]*Definition, 0, len(matches))
	for _, m := range matches {
		def, err := Load(m)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// BuiltIn returns the definitions embedded in the binary, ordered by
// language identifier.
func BuiltIn() ([]*Definition, error) {
	return loadFS(builtin.FS(), SourceBuiltIn)
}

// UserDefinitions returns the definitions found below dir. A missing
// directory yields no definitions and no error.
func UserDefinitions(dir string) ([]*Definition, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	return loadFS(os.DirFS(dir), SourceUser, dir)
}

func loadFS(fsys fs.FS, source Source, root ...string) ([]*Definition, error) {
	matches, err := doublestar.Glob(fsys, definitionGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	defs := make([]*Definition, 0, len(matches))
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", m, err)
		}
		name := m
		if len(root) > 0 {
			name = filepath.Join(root[0], filepath.FromSlash(m))
		}
		def, err := Parse(data, name)
		if err != nil {
			return nil, err
		}
		def.Source = source
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return strings.ToLower(defs[i].Language) < strings.ToLower(defs[j].Language)
	})
	return defs, nil
}

// Catalog lists built-in definitions followed by those in userDir.
func Catalog(userDir string) ([]*Definition, error) {
	defs, err := BuiltIn()
	if err != nil {
		return nil, fmt.Errorf("loading built-in languages: %w", err)
	}
	user, err := UserDefinitions(userDir)
	if err != nil {
		return nil, fmt.Errorf("loading user languages from %s: %w", userDir, err)
	}
	return append(defs, user...), nil
}

// Resolve finds a definition by file path, then by name among user
// definitions in userDir, then among the built-ins. Names match either the
// language identifier or the file stem, ignoring case. User definitions
// shadow built-ins of the same name.
func Resolve(ref, userDir string) (*Definition, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return Load(ref)
	}

	user, err := UserDefinitions(userDir)
	if err != nil {
		return nil, err
	}
	if def := findByName(user, ref); def != nil {
		return def, nil
	}

	builtins, err := BuiltIn()
	if err != nil {
		return nil, err
	}
	if def := findByName(builtins, ref); def != nil {
		return def, nil
	}
	return nil, fmt.Errorf("language definition %q not found (not a file, not in %s, not built in)", ref, userDir)
}

func findByName(defs []*Definition, name string) *Definition {
	for _, d := range defs {
		if d.Matches(name) {
			return d
		}
	}
	return nil
}

// Matches reports whether name is the definition's language identifier or
// file stem, ignoring case.
func (d *Definition) Matches(name string) bool {
	return strings.EqualFold(d.Language, name) || strings.EqualFold(Stem(d.Path), name)
}
