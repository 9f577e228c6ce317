package voiceover

import (
	"fmt"
	"regexp"
	"strings"
)

var bookmarkTag = regexp.MustCompile(`<bookmark\s+mark\s*=\s*(?:"([^"]*)"|'([^']*)')\s*/>`)

// Mark is a bookmark position in plain text: the index of the word that
// follows it.
type Mark struct {
	Name string
	Word int
}

// Parse strips bookmark tags from markup. It returns the plain text, with
// whitespace collapsed, and the marks in order of appearance.
func Parse(markup string) (string, []Mark, error) {
	var (
		words []string
		marks []Mark
		seen  = make(map[string]struct{})
	)
	rest := markup
	for {
		loc := bookmarkTag.FindStringSubmatchIndex(rest)
		chunk := rest
		if loc != nil {
			chunk = rest[:loc[0]]
		}
		if i := strings.Index(chunk, "<bookmark"); i >= 0 {
			return "", nil, fmt.Errorf("%w: %q", ErrMalformedMarkup, excerpt(chunk[i:]))
		}
		words = append(words, strings.Fields(chunk)...)
		if loc == nil {
			break
		}

		var name string
		if loc[2] >= 0 {
			name = rest[loc[2]:loc[3]]
		} else {
			name = rest[loc[4]:loc[5]]
		}
		if _, dup := seen[name]; dup {
			return "", nil, fmt.Errorf("%w: %q", ErrDuplicateBookmark, name)
		}
		seen[name] = struct{}{}
		marks = append(marks, Mark{Name: name, Word: len(words)})
		rest = rest[loc[1]:]
	}
	return strings.Join(words, " "), marks, nil
}

func excerpt(s string) string {
	const n = 32
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
