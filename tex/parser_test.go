package tex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{`x^2`, []string{"x", "^", "2"}},
		{`\frac {a}{b}`, []string{`\frac`, "{", "a", "}", "{", "b", "}"}},
		{`a\,b`, []string{"a", `\,`, "b"}},
		{`a \\ b`, []string{"a", "space", `\\`, "space", "b"}},
		{`x % comment` + "\n" + `y`, []string{"x", "space", "space", "y"}},
		{`α_i`, []string{"α", "_", "i"}},
		{`\alpha x`, []string{`\alpha`, "x"}},
		{`$x$ & y`, []string{"$", "x", "$", "space", "&", "space", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks := lex(tt.src)
			require.Equal(t, tokEOF, toks[len(toks)-1].kind)
			got := make([]string, 0, len(toks)-1)
			for _, tok := range toks[:len(toks)-1] {
				got = append(got, tok.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMath_Structure(t *testing.T) {
	nodes, err := newParser(`x_i^2 + \frac{1}{2}`).parseMath()
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	s, ok := nodes[0].(*scriptsNode)
	require.True(t, ok)
	assert.Equal(t, 'x', s.base.(*atomNode).r)
	assert.Equal(t, '2', s.sup.(*atomNode).r)
	assert.Equal(t, 'i', s.sub.(*atomNode).r)

	plus := nodes[1].(*atomNode)
	assert.Equal(t, classBin, plus.class)

	f, ok := nodes[2].(*fracNode)
	require.True(t, ok)
	assert.True(t, f.bar)
}

func TestParseMath_Primes(t *testing.T) {
	nodes, err := newParser(`f''(x)`).parseMath()
	require.NoError(t, err)
	s := nodes[0].(*scriptsNode)
	assert.Len(t, s.sup.(*listNode).items, 2)
}

func TestParseMath_Minus(t *testing.T) {
	nodes, err := newParser(`a-b`).parseMath()
	require.NoError(t, err)
	minus := nodes[1].(*atomNode)
	assert.Equal(t, '−', minus.r)
	assert.Equal(t, "-", minus.src)
}

func TestParseMath_Errors(t *testing.T) {
	tests := []struct {
		src     string
		wantErr error
	}{
		{`{a`, ErrSyntax},
		{`a}`, ErrSyntax},
		{`x^2^3`, ErrSyntax},
		{`x_1_2`, ErrSyntax},
		{`x^`, ErrSyntax},
		{`\frac{a}`, ErrSyntax},
		{`\left( x`, ErrSyntax},
		{`\left x \right)`, ErrSyntax},
		{`a $ b`, ErrSyntax},
		{`\sqrt[3 x`, ErrSyntax},
		{`\nosuchcommand`, ErrUnknownCommand},
		{`\text{a \nosuch b}`, ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := newParser(tt.src).parseMath()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.src, se.Source)
		})
	}
}

func TestParseText(t *testing.T) {
	nodes, err := newParser(`Let $x=2$ \\ be 50\%`).parseText()
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	assert.Equal(t, "Let ", nodes[0].(*textNode).s)
	assert.Len(t, nodes[1].(*mathNode).items, 3)
	assert.IsType(t, breakNode{}, nodes[2])
	assert.Equal(t, "be 50%", nodes[3].(*textNode).s)

	_, err = newParser(`a $x`).parseText()
	assert.ErrorIs(t, err, ErrSyntax)
	_, err = newParser(`\unknown`).parseText()
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestSpaceBetween(t *testing.T) {
	assert.Equal(t, 4.0, spaceBetween(classOrd, classBin, false))
	assert.Equal(t, 0.0, spaceBetween(classOrd, classBin, true))
	assert.Equal(t, 5.0, spaceBetween(classRel, classOrd, false))
	assert.Equal(t, 3.0, spaceBetween(classOp, classOrd, true))
	assert.Equal(t, 0.0, spaceBetween(classOpen, classOrd, false))
}
