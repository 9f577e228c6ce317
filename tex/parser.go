package tex

import (
	"fmt"
	"strings"
)

// node is an element of a parsed math or text list.
type node interface{ isNode() }

// atomNode is a single character.
type atomNode struct {
	r        rune
	fallback rune
	src      string
	class    class
	font     fontKind
	large    bool
}

// listNode is a braced group. It lays out as one atom of its class.
type listNode struct {
	items []node
	class class
}

// scriptsNode attaches a superscript and/or subscript to base.
type scriptsNode struct{ base, sup, sub node }

// fracNode is \frac (bar) or \binom (no bar, parenthesized).
type fracNode struct {
	num, den node
	bar      bool
}

// sqrtNode is \sqrt with an optional index.
type sqrtNode struct{ body, index node }

// textNode is a run shaped as text.
type textNode struct {
	s    string
	font fontKind
}

// spaceNode is explicit glue in mu.
type spaceNode struct{ mu float64 }

// delimNode is \left ... \right. A nil delimiter is the null delimiter.
type delimNode struct {
	left, right *atomNode
	body        node
}

// overlineNode draws a rule above body.
type overlineNode struct{ body node }

// mathNode is inline math inside text mode.
type mathNode struct{ items []node }

// breakNode (\\) ends a line; alignNode (&) separates cells.
type (
	breakNode struct{}
	alignNode struct{}
)

func (*atomNode) isNode()     {}
func (*listNode) isNode()     {}
func (*scriptsNode) isNode()  {}
func (*fracNode) isNode()     {}
func (*sqrtNode) isNode()     {}
func (*textNode) isNode()     {}
func (*spaceNode) isNode()    {}
func (*delimNode) isNode()    {}
func (*overlineNode) isNode() {}
func (*mathNode) isNode()     {}
func (breakNode) isNode()     {}
func (alignNode) isNode()     {}

type parser struct {
	src  string
	toks []token
	pos  int
}

func newParser(src string) *parser {
	return &parser{src: src, toks: lex(src)}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) skipSpace() {
	for p.peek().kind == tokSpace {
		p.pos++
	}
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Source: p.src, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) unknown(t token) error {
	return &SyntaxError{Source: p.src, Pos: t.pos, Msg: "unknown command " + t.String(), Err: ErrUnknownCommand}
}

// parseMath parses a math list up to EOF.
func (p *parser) parseMath() ([]node, error) {
	items, err := p.mathList(false)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s", t)
	}
	return items, nil
}

// mathList parses atoms until EOF, a closing brace, \right or, in inline
// math, a math shift. The terminator is not consumed.
func (p *parser) mathList(inline bool) ([]node, error) {
	var items []node
	for {
		p.skipSpace()
		t := p.peek()
		switch {
		case t.kind == tokEOF, t.kind == tokClose:
			return items, nil
		case t.kind == tokMathShift && inline:
			return items, nil
		case t.kind == tokCommand && t.text == "right":
			return items, nil
		case t.kind == tokSup || t.kind == tokSub:
			// A script with no base attaches to an empty group.
			n, err := p.scripts(&listNode{})
			if err != nil {
				return nil, err
			}
			items = append(items, n)
			continue
		}

		n, err := p.atom()
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		switch n.(type) {
		case breakNode, alignNode, *spaceNode:
			items = append(items, n)
			continue
		}
		n, err = p.scripts(n)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
}

// scripts parses any ^, _ and primes following base.
func (p *parser) scripts(base node) (node, error) {
	var sup, sub node
	var primes []node
	for {
		p.skipSpace()
		t := p.peek()
		switch {
		case t.kind == tokSup || t.kind == tokSub:
			p.next()
			arg, err := p.argument()
			if err != nil {
				return nil, err
			}
			if t.kind == tokSup {
				if sup != nil {
					return nil, p.errorf(t, "double superscript")
				}
				sup = arg
			} else {
				if sub != nil {
					return nil, p.errorf(t, "double subscript")
				}
				sub = arg
			}
		case t.kind == tokChar && t.text == "'":
			p.next()
			primes = append(primes, &atomNode{r: '′', fallback: '\'', src: "'", font: fontUpright})
		default:
			if len(primes) > 0 {
				if sup != nil {
					primes = append(primes, sup)
				}
				sup = &listNode{items: primes}
			}
			if sup == nil && sub == nil {
				return base, nil
			}
			return &scriptsNode{base: base, sup: sup, sub: sub}, nil
		}
	}
}

// argument parses a braced group or a single atom.
func (p *parser) argument() (node, error) {
	p.skipSpace()
	t := p.peek()
	switch t.kind {
	case tokOpen:
		return p.group()
	case tokEOF, tokClose:
		return nil, p.errorf(t, "missing argument")
	}
	n, err := p.atom()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, p.errorf(t, "missing argument")
	}
	return n, nil
}

// group parses {...}.
func (p *parser) group() (*listNode, error) {
	open := p.next()
	items, err := p.mathList(false)
	if err != nil {
		return nil, err
	}
	if t := p.next(); t.kind != tokClose {
		return nil, p.errorf(open, "unbalanced {")
	}
	return &listNode{items: items}, nil
}

// rawGroup returns the source text of a braced argument, for \text.
func (p *parser) rawGroup() (string, error) {
	p.skipSpace()
	open := p.next()
	if open.kind != tokOpen {
		return "", p.errorf(open, "expected {")
	}
	var b strings.Builder
	depth := 1
	for {
		t := p.next()
		switch t.kind {
		case tokEOF:
			return "", p.errorf(open, "unbalanced {")
		case tokOpen:
			depth++
		case tokClose:
			depth--
			if depth == 0 {
				return b.String(), nil
			}
		case tokCommand:
			if s, ok := symbols[t.text]; ok && len(t.text) == 1 {
				b.WriteRune(s.r)
				continue
			}
			if _, ok := spaces[t.text]; ok {
				b.WriteByte(' ')
				continue
			}
			return "", p.unknown(t)
		}
		if t.kind != tokOpen && t.kind != tokClose {
			b.WriteString(t.text)
		}
	}
}

// atom parses one atom. It returns nil for tokens that produce nothing.
func (p *parser) atom() (node, error) {
	t := p.next()
	switch t.kind {
	case tokOpen:
		p.pos--
		return p.group()
	case tokChar:
		if t.text == "~" {
			return &spaceNode{mu: 6}, nil
		}
		r := []rune(t.text)[0]
		return &atomNode{r: mathRune(r), fallback: r, src: t.text, class: charClass(r), font: mathFont(r)}, nil
	case tokAlign:
		return alignNode{}, nil
	case tokCommand:
		return p.command(t)
	case tokMathShift:
		return nil, p.errorf(t, "unexpected $ in math mode")
	}
	return nil, p.errorf(t, "unexpected %s", t)
}

func (p *parser) command(t token) (node, error) {
	name := t.text
	if s, ok := symbols[name]; ok {
		return &atomNode{r: s.r, fallback: s.fallback, src: `\` + name, class: s.class, font: s.font, large: s.large}, nil
	}
	if mu, ok := spaces[name]; ok {
		return &spaceNode{mu: mu}, nil
	}
	if functions[name] {
		return p.operatorName(name), nil
	}

	switch name {
	case "\\":
		return breakNode{}, nil
	case "frac", "dfrac", "tfrac", "binom":
		num, err := p.argument()
		if err != nil {
			return nil, err
		}
		den, err := p.argument()
		if err != nil {
			return nil, err
		}
		f := &fracNode{num: num, den: den, bar: name != "binom"}
		if name == "binom" {
			return &delimNode{
				left:  &atomNode{r: '(', src: "(", class: classOpen},
				right: &atomNode{r: ')', src: ")", class: classClose},
				body:  f,
			}, nil
		}
		return f, nil
	case "sqrt":
		var index node
		p.skipSpace()
		if nt := p.peek(); nt.kind == tokChar && nt.text == "[" {
			p.next()
			var items []node
			for {
				p.skipSpace()
				it := p.peek()
				if it.kind == tokEOF {
					return nil, p.errorf(nt, "unbalanced [")
				}
				if it.kind == tokChar && it.text == "]" {
					p.next()
					break
				}
				n, err := p.atom()
				if err != nil {
					return nil, err
				}
				if n != nil {
					items = append(items, n)
				}
			}
			index = &listNode{items: items}
		}
		body, err := p.argument()
		if err != nil {
			return nil, err
		}
		return &sqrtNode{body: body, index: index}, nil
	case "text", "textrm", "mbox":
		s, err := p.rawGroup()
		if err != nil {
			return nil, err
		}
		return &textNode{s: s, font: fontUpright}, nil
	case "textbf":
		s, err := p.rawGroup()
		if err != nil {
			return nil, err
		}
		return &textNode{s: s, font: fontBold}, nil
	case "textit":
		s, err := p.rawGroup()
		if err != nil {
			return nil, err
		}
		return &textNode{s: s, font: fontItalic}, nil
	case "mathrm", "mathbf", "operatorname":
		s, err := p.rawGroup()
		if err != nil {
			return nil, err
		}
		switch name {
		case "operatorname":
			return p.operatorName(s), nil
		case "mathbf":
			return restyle(s, fontBold), nil
		}
		return restyle(s, fontUpright), nil
	case "overline":
		body, err := p.argument()
		if err != nil {
			return nil, err
		}
		return &overlineNode{body: body}, nil
	case "left":
		return p.leftRight(t)
	case "displaystyle", "limits", "nolimits":
		return nil, nil
	}
	return nil, p.unknown(t)
}

// operatorName builds an upright op group such as \sin.
func (p *parser) operatorName(name string) node {
	items := make([]node, 0, len(name))
	for _, r := range name {
		items = append(items, &atomNode{r: r, src: string(r), font: fontUpright})
	}
	return &listNode{items: items, class: classOp}
}

// restyle sets s as ord atoms in font f, keeping literal glyphs.
func restyle(s string, f fontKind) node {
	var items []node
	for _, r := range s {
		if r == ' ' {
			continue
		}
		items = append(items, &atomNode{r: mathRune(r), fallback: r, src: string(r), class: charClass(r), font: f})
	}
	return &listNode{items: items}
}

// leftRight parses \left<delim> ... \right<delim>.
func (p *parser) leftRight(start token) (node, error) {
	left, err := p.delimiter(classOpen)
	if err != nil {
		return nil, err
	}
	body, err := p.mathList(false)
	if err != nil {
		return nil, err
	}
	t := p.next()
	if t.kind != tokCommand || t.text != "right" {
		return nil, p.errorf(start, `\left without \right`)
	}
	right, err := p.delimiter(classClose)
	if err != nil {
		return nil, err
	}
	return &delimNode{left: left, right: right, body: &listNode{items: body}}, nil
}

// delimiter reads the character after \left or \right; "." is nil.
func (p *parser) delimiter(c class) (*atomNode, error) {
	p.skipSpace()
	t := p.next()
	switch t.kind {
	case tokChar:
		if t.text == "." {
			return nil, nil
		}
		if strings.ContainsAny(t.text, "()[]|/") {
			r := []rune(t.text)[0]
			return &atomNode{r: r, src: t.text, class: c}, nil
		}
	case tokCommand:
		if s, ok := symbols[t.text]; ok && (s.class == classOpen || s.class == classClose || s.r == '|' || s.r == '‖') {
			return &atomNode{r: s.r, fallback: s.fallback, src: `\` + t.text, class: c}, nil
		}
	}
	return nil, p.errorf(t, "bad delimiter %s", t)
}

// parseText parses text-mode source: runs of text, inline $math$ and line
// breaks.
func (p *parser) parseText() ([]node, error) {
	var items []node
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			items = append(items, &textNode{s: run.String(), font: fontUpright})
			run.Reset()
		}
	}
	lineStart := true
	for {
		t := p.next()
		if t.kind == tokSpace && lineStart {
			continue
		}
		lineStart = false
		switch t.kind {
		case tokEOF:
			flush()
			return items, nil
		case tokMathShift:
			flush()
			math, err := p.mathList(true)
			if err != nil {
				return nil, err
			}
			if end := p.next(); end.kind != tokMathShift {
				return nil, p.errorf(t, "unterminated $")
			}
			items = append(items, &mathNode{items: math})
		case tokSpace:
			run.WriteByte(' ')
		case tokOpen, tokClose:
		case tokCommand:
			switch {
			case t.text == "\\":
				trimmed := strings.TrimRight(run.String(), " ")
				run.Reset()
				run.WriteString(trimmed)
				flush()
				items = append(items, breakNode{})
				lineStart = true
			case t.text == "textbf" || t.text == "textit":
				flush()
				n, err := p.command(t)
				if err != nil {
					return nil, err
				}
				items = append(items, n)
			case len(t.text) == 1 && symbols[t.text].r != 0:
				run.WriteRune(symbols[t.text].r)
			case spaces[t.text] != 0:
				run.WriteByte(' ')
			default:
				return nil, p.unknown(t)
			}
		default:
			run.WriteString(t.text)
		}
	}
}
