// Package text loads fonts, shapes runs and exposes glyph outlines for the
// tex typesetter.
//
// The pipeline follows a separation of concerns:
//
//   - FontSource: heavyweight, shared font resource (parses TTF/OTF data)
//   - Face: lightweight font instance at a specific size
//   - Shaper: turns a run of text into positioned glyphs
//
// # Example usage
//
//	source, err := text.GoRegular()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	face := source.Face(1)
//	for _, g := range text.Shape("sin", face) {
//	    key, _ := source.OutlineKey(g.GID)
//	    _ = key
//	}
//
// # Coordinates
//
// Unlike screen-space font APIs, this package reports geometry y-up: the
// baseline is at y = 0, ascenders have positive y and descenders negative y.
// Sizes are in scene units per em.
//
// # Outline keys
//
// OutlineKey hashes a glyph's outline in font units, so the key of a glyph
// does not depend on the size it is drawn at. Two glyphs with the same key
// draw the same shape.
package text
