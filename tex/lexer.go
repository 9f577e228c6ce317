package tex

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokChar
	tokCommand
	tokOpen  // {
	tokClose // }
	tokSup   // ^
	tokSub   // _
	tokAlign // &
	tokSpace
	tokMathShift // $
)

// token is one lexical unit. For tokCommand, text is the command name
// without the backslash; for tokChar it is the character.
type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokCommand:
		return `\` + t.text
	case tokSpace:
		return "space"
	default:
		return t.text
	}
}

// lex splits src into tokens. Runs of whitespace become one tokSpace and
// comments (% to end of line) are dropped.
func lex(src string) []token {
	var toks []token
	for i := 0; i < len(src); {
		r, w := utf8.DecodeRuneInString(src[i:])
		start := i
		i += w
		switch {
		case r == '%':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case unicode.IsSpace(r):
			for i < len(src) {
				r2, w2 := utf8.DecodeRuneInString(src[i:])
				if !unicode.IsSpace(r2) {
					break
				}
				i += w2
			}
			toks = append(toks, token{kind: tokSpace, text: " ", pos: start})
		case r == '{':
			toks = append(toks, token{kind: tokOpen, text: "{", pos: start})
		case r == '}':
			toks = append(toks, token{kind: tokClose, text: "}", pos: start})
		case r == '^':
			toks = append(toks, token{kind: tokSup, text: "^", pos: start})
		case r == '_':
			toks = append(toks, token{kind: tokSub, text: "_", pos: start})
		case r == '&':
			toks = append(toks, token{kind: tokAlign, text: "&", pos: start})
		case r == '$':
			toks = append(toks, token{kind: tokMathShift, text: "$", pos: start})
		case r == '\\':
			name, n := commandName(src[i:])
			i += n
			toks = append(toks, token{kind: tokCommand, text: name, pos: start})
		default:
			toks = append(toks, token{kind: tokChar, text: src[start:i], pos: start})
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)})
}

// commandName reads a control word (letters) or a control symbol (one
// character) and returns it with its byte length. Whitespace after a
// control word is part of the command.
func commandName(s string) (string, int) {
	if s == "" {
		return "", 0
	}
	n := 0
	for n < len(s) && isLetter(s[n]) {
		n++
	}
	if n == 0 {
		_, w := utf8.DecodeRuneInString(s)
		return s[:w], w
	}
	name := s[:n]
	for n < len(s) && (s[n] == ' ' || s[n] == '\t' || s[n] == '\n') {
		n++
	}
	return name, n
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
