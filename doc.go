// Package mathscroll orchestrates narrated mathematics videos: typeset
// expressions are revealed, edited in place and scrolled off a virtual
// canvas by a ScrollManager.
//
// # Overview
//
// A script builds steps (a caption followed by one or more equation lines)
// with the Step builder, then drives the viewport with a sequence of
// commands. Every command emits exactly one animation batch through the
// Scene seam and blocks until the runtime has played it.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/mathscroll"
//	    "github.com/gogpu/mathscroll/recording"
//	    "github.com/gogpu/mathscroll/tex"
//	)
//
//	rec := recording.NewRecorder()
//	sm, err := mathscroll.New(
//	    mathscroll.WithTypesetter(tex.New()),
//	    mathscroll.WithScene(rec),
//	)
//
//	caption, _ := sm.CreateTex("Complete the square", mathscroll.TexLabel("cap"))
//	eq, _ := sm.CreateMathTex("x^2+6x+5=0", mathscroll.TexLabel("eq"))
//	sm.ConstructStep([]mathscroll.Mobject{caption, eq})
//
//	sm.PrepareNext(ctx, mathscroll.WithSteps(2))
//	sm.ScrollDown(ctx)
//
// # Canvas
//
// Scene coordinates are y-up units; the default frame is 14.22 by 8 units
// centered on the origin. Everything drawable is a Mobject built from
// Glyph atoms. Mobjects that share atoms (an Expression and a GlyphRange
// of it) move together.
//
// # Viewport
//
// The queue is append-only. Three cursors describe what is on screen:
// FirstInView, NextToReveal and ScrollCount, with
// 0 ≤ FirstInView ≤ NextToReveal ≤ Len() after every command.
//
//   - PrepareNext reveals queued items.
//   - ScrollDown slides the visible head up to the start position and
//     fades the scrolled items out, together with due callouts.
//   - FadeOutInView and FadeOutAllInView remove items without scrolling.
//   - ReplaceInPlace, ReplaceRangeInPlace, HighlightAndReplace,
//     CascadeUpdate and RestoreOriginal edit visible items.
//   - FadeInFromTarget and TransformFromCopy morph from an existing
//     mobject into a queued or free-floating one.
//
// # Addressing
//
// Items are addressed with a Target: ByLabel, ByIndex or ByMobject.
// Sub-expressions are found by shape with a Locator, which renders the
// needle with the haystack's template and matches glyph shape keys.
//
// # Errors
//
// Script mistakes are reported with the sentinel errors in this package
// (ErrInvalidTarget, ErrBackwardsReveal, ErrOutOfViewEdit, ...), usually
// wrapped in a *TargetError. Use errors.Is to test for them.
package mathscroll
