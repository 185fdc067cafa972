package export

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeOp says whether a line was added or removed.
type ChangeOp int

const (
	Removed ChangeOp = iota
	Added
)

// Change is one line that differs between two renderings.
type Change struct {
	Op   ChangeOp
	Line string
}

// Diff compares two renderings line by line and returns the lines that
// were removed from before or added in after, in document order.
func Diff(before, after string) []Change {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var changes []Change
	for _, d := range diffs {
		var op ChangeOp
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = Added
		case diffmatchpatch.DiffDelete:
			op = Removed
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			changes = append(changes, Change{Op: op, Line: strings.TrimSuffix(line, "\n")})
		}
	}
	return changes
}
