package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

const toyDefinition = `language: Toy
phonemes:
  - { grapheme: b, sound_type: consonant }
  - { grapheme: o, sound_type: vowel }
syllable_rules: [CV]
min_syllables_for_root: 1
max_syllables_for_root: 2
`

func TestImport_GlobAndReplace(t *testing.T) {
	home, db := testEnv(t)
	dir := filepath.Join(home, "defs")
	writeFile(t, filepath.Join(dir, "toy.yaml"), toyDefinition)
	writeFile(t, filepath.Join(dir, "nested", "mini.json"),
		`{"language": "Mini", "phonemes": [{"symbol": "m", "class": "consonant"}, {"symbol": "a", "class": "vowel"}]}`)

	out := mustExecute(t, "--db", db, "import", filepath.Join(dir, "**", "*.{yaml,json}"))
	assert.Contains(t, out, "Imported Mini (2 phonemes)")
	assert.Contains(t, out, "Imported Toy (2 phonemes)")
	assert.Contains(t, out, "2 imported, 0 skipped")

	out = mustExecute(t, "--db", db, "import", filepath.Join(dir, "toy.yaml"))
	assert.Contains(t, out, "Skipped")
	assert.Contains(t, out, "0 imported, 1 skipped")

	out = mustExecute(t, "--db", db, "import", "--replace", filepath.Join(dir, "toy.yaml"))
	assert.Contains(t, out, "1 imported, 0 skipped")

	out = mustExecute(t, "--db", db, "inventory", "show", "Toy")
	assert.Contains(t, out, "Consonants: b")
}

func TestImport_NoMatch(t *testing.T) {
	home, db := testEnv(t)
	_, _, err := execute(t, "--db", db, "import", filepath.Join(home, "*.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no language definitions match")
}

func TestImport_InvalidDefinition(t *testing.T) {
	home, db := testEnv(t)
	path := filepath.Join(home, "bad.yaml")
	writeFile(t, path, "language: Bad\nphonemes:\n  - { symbol: p, class: consonant }\n  - { symbol: p, class: vowel }\n")

	_, _, err := execute(t, "--db", db, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phonemes[1]")
}
