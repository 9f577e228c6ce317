package text

import (
	"encoding/binary"
	"errors"
	"hash/fnv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// OutlinePoint is a point of a glyph outline in font units, y-up.
type OutlinePoint struct {
	X, Y int32
}

// OutlineOp is the type of path operation.
type OutlineOp uint8

const (
	// OutlineOpMoveTo moves to a new point without drawing.
	OutlineOpMoveTo OutlineOp = iota

	// OutlineOpLineTo draws a line to the target point.
	OutlineOpLineTo

	// OutlineOpQuadTo draws a quadratic bezier curve.
	OutlineOpQuadTo

	// OutlineOpCubicTo draws a cubic bezier curve.
	OutlineOpCubicTo
)

// String returns a string representation of the operation.
func (op OutlineOp) String() string {
	switch op {
	case OutlineOpMoveTo:
		return "MoveTo"
	case OutlineOpLineTo:
		return "LineTo"
	case OutlineOpQuadTo:
		return "QuadTo"
	case OutlineOpCubicTo:
		return "CubicTo"
	default:
		return "Unknown"
	}
}

// points returns how many of a segment's points the op uses.
func (op OutlineOp) points() int {
	switch op {
	case OutlineOpQuadTo:
		return 2
	case OutlineOpCubicTo:
		return 3
	default:
		return 1
	}
}

// OutlineSegment represents a segment of a glyph outline.
//
//   - MoveTo, LineTo: Points[0] is the target point
//   - QuadTo: Points[0] is control, Points[1] is target
//   - CubicTo: Points[0], Points[1] are controls, Points[2] is target
type OutlineSegment struct {
	Op     OutlineOp
	Points [3]OutlinePoint
}

// GlyphOutline is the vector outline of a glyph in font units.
type GlyphOutline struct {
	GID      GlyphID
	Segments []OutlineSegment

	// Advance is the horizontal advance in font units.
	Advance int32
}

// IsEmpty returns true if the outline has no segments (a space, for example).
func (o *GlyphOutline) IsEmpty() bool {
	return len(o.Segments) == 0
}

// Outline loads the outline of gid in font units.
func (s *FontSource) Outline(gid GlyphID) (*GlyphOutline, error) {
	var out *GlyphOutline
	err := s.withFont(func(f *sfnt.Font, buf *sfnt.Buffer) error {
		segments, err := f.LoadGlyph(buf, sfnt.GlyphIndex(gid), s.upem, nil)
		if err != nil {
			return err
		}
		adv, err := f.GlyphAdvance(buf, sfnt.GlyphIndex(gid), s.upem, font.HintingNone)
		if err != nil {
			return err
		}

		out = &GlyphOutline{
			GID:      gid,
			Advance:  fontUnits(adv),
			Segments: make([]OutlineSegment, 0, len(segments)),
		}
		for _, seg := range segments {
			var o OutlineSegment
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				o.Op = OutlineOpMoveTo
			case sfnt.SegmentOpLineTo:
				o.Op = OutlineOpLineTo
			case sfnt.SegmentOpQuadTo:
				o.Op = OutlineOpQuadTo
			case sfnt.SegmentOpCubeTo:
				o.Op = OutlineOpCubicTo
			}
			for i := range o.Op.points() {
				o.Points[i] = OutlinePoint{X: fontUnits(seg.Args[i].X), Y: -fontUnits(seg.Args[i].Y)}
			}
			out.Segments = append(out.Segments, o)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSourceClosed) {
			return nil, err
		}
		return nil, &GlyphError{Font: s.name, GID: gid, Err: err}
	}
	return out, nil
}

// OutlineKey returns a hash of the glyph's outline. Glyphs with equal keys
// draw the same shape; the key does not depend on size or position.
// Keys are memoized per source.
func (s *FontSource) OutlineKey(gid GlyphID) (uint64, error) {
	return s.outlines.GetOrCreate(gid, func() (uint64, error) {
		o, err := s.Outline(gid)
		if err != nil {
			return 0, err
		}
		return o.Key(), nil
	})
}

// Key hashes the outline with FNV-1a. Empty outlines hash their advance so
// spaces of different widths stay distinct.
func (o *GlyphOutline) Key() uint64 {
	h := fnv.New64a()
	var b [4]byte
	put := func(v int32) {
		binary.LittleEndian.PutUint32(b[:], uint32(v)) //nolint:gosec // bit pattern only
		_, _ = h.Write(b[:])
	}
	if o.IsEmpty() {
		_, _ = h.Write([]byte("empty"))
		put(o.Advance)
		return h.Sum64()
	}
	for _, seg := range o.Segments {
		_, _ = h.Write([]byte{byte(seg.Op)})
		for i := range seg.Op.points() {
			put(seg.Points[i].X)
			put(seg.Points[i].Y)
		}
	}
	return h.Sum64()
}

// fontUnits rounds a 26.6 value measured at ppem = unitsPerEm to font units.
func fontUnits(v fixed.Int26_6) int32 {
	return int32(v.Round())
}
