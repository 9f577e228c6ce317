// Package tex is a small TeX typesetter for mathscroll.
//
// It parses the subset of TeX that tutorial equations use and lays it out
// with TeX's math styles and inter-atom spacing, drawing glyphs from the
// embedded Go fonts. Every glyph becomes a mathscroll.Glyph whose shape key
// is the hash of its outline, so a fragment typeset on its own matches the
// same fragment inside a larger expression:
//
//	ts := tex.New()
//	expr, err := ts.Typeset(`a^2+b^2=c^2`, mathscroll.MathTemplate)
//	r, err := mathscroll.NewLocator(ts).FindElement(expr, "b^2")
//
// Expressions are centered on the origin. Line breaks (\\) stack lines;
// math lines align at the first &, text lines are centered.
package tex
