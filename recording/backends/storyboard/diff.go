package storyboard

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff compares two storyboards line by line, ignoring session ids. It
// returns the changed lines prefixed with "-" (only in before) and "+"
// (only in after), and an empty string when the storyboards are equivalent.
func Diff(before, after *Storyboard) (string, error) {
	a, b := *before, *after
	a.ID, b.ID = "", ""
	oldText, err := a.Marshal()
	if err != nil {
		return "", err
	}
	newText, err := b.Marshal()
	if err != nil {
		return "", err
	}

	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(string(oldText), string(newText))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String(), nil
}
