package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lexicon-lang/lexicon/internal/lexicon"
	domain "github.com/lexicon-lang/lexicon/internal/phonology/domain"
)

const columnGap = "  "

type textExporter struct{}

func (textExporter) Inventory(w io.Writer, inv *domain.Inventory) error {
	doc := newInventoryDoc(inv)
	rows := make([][]string, 0, len(doc.Phonemes))
	for _, p := range doc.Phonemes {
		rows = append(rows, []string{p.Symbol, p.Class})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Language:   %s\n", doc.Language)
	fmt.Fprintf(&b, "Consonants: %s\n", strings.Join(doc.Consonants, " "))
	fmt.Fprintf(&b, "Vowels:     %s\n", strings.Join(doc.Vowels, " "))
	fmt.Fprintf(&b, "Size:       %d\n", doc.Size)
	if len(rows) > 0 {
		b.WriteString("\n")
		writeTable(&b, []string{"SYMBOL", "CLASS"}, rows)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (textExporter) Lexicon(w io.Writer, lex Lexicon) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s (seed %d)\n\n", lex.Language, lex.Seed)

	roots := make([][]string, 0, len(lex.Roots))
	for _, r := range lex.Roots {
		roots = append(roots, []string{r.Form, r.PartOfSpeech, r.Meaning})
	}
	writeTable(&b, []string{"ROOT", "POS", "MEANING"}, roots)

	if len(lex.Words) > 0 {
		words := make([][]string, 0, len(lex.Words))
		for _, wd := range lex.Words {
			words = append(words, []string{wd.Form, wd.Root.Form, affixForms(wd.Affixes), wd.DerivedMeaning})
		}
		b.WriteString("\n")
		writeTable(&b, []string{"WORD", "ROOT", "AFFIXES", "MEANING"}, words)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func affixForms(affixes []lexicon.Affix) string {
	if len(affixes) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(affixes))
	for _, a := range affixes {
		if a.Kind == lexicon.Prefix {
			parts = append(parts, a.Form+"-")
		} else {
			parts = append(parts, "-"+a.Form)
		}
	}
	return strings.Join(parts, " ")
}

// writeTable pads columns by terminal display width, so symbols with
// combining marks or wide characters stay aligned. The last column is not
// padded.
func writeTable(b *strings.Builder, header []string, rows [][]string) {
	widths := make([]int, len(header))
	measure := func(cells []string) {
		for i, c := range cells {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	line := func(cells []string) {
		for i, c := range cells {
			if i == len(cells)-1 {
				b.WriteString(c)
				break
			}
			b.WriteString(runewidth.FillRight(c, widths[i]))
			b.WriteString(columnGap)
		}
		b.WriteString("\n")
	}
	line(header)
	for _, r := range rows {
		line(r)
	}
}
