// Package builtin embeds the sample language definitions shipped with
// lexicon.
package builtin

import (
	"embed"
	"io/fs"
)

//go:embed languages
var languages embed.FS

// FS returns the embedded definitions rooted at the languages directory.
func FS() fs.FS {
	sub, err := fs.Sub(languages, "languages")
	if err != nil {
		panic(err)
	}
	return sub
}
