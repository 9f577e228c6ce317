package mathscroll

import (
	"fmt"
	"math"
	"strings"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without '#'.
// Malformed input yields opaque black.
func Hex(hex string) RGBA {
	c, ok := parseHexColor(hex)
	if !ok {
		return RGBA{R: 0, G: 0, B: 0, A: 1}
	}
	return c
}

func parseHexColor(hex string) (RGBA, bool) {
	hex = strings.TrimPrefix(hex, "#")

	var r, g, b uint32
	a := uint32(255)
	ok := true

	switch len(hex) {
	case 3: // RGB
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8: // RRGGBBAA
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	default:
		return RGBA{}, false
	}
	if !ok {
		return RGBA{}, false
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, true
}

// parseHex accumulates the hex digits of s into val.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// ParseColor resolves a palette name ("yellow", "BLUE") or a hex string.
func ParseColor(s string) (RGBA, error) {
	if c, ok := palette[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	if c, ok := parseHexColor(strings.TrimSpace(s)); ok {
		return c, nil
	}
	return RGBA{}, fmt.Errorf("mathscroll: unknown color %q", s)
}

// Hex returns the color as "#rrggbb", or "#rrggbbaa" when not opaque.
func (c RGBA) Hex() string {
	r := uint8(math.Round(clamp01(c.R) * 255))
	g := uint8(math.Round(clamp01(c.G) * 255))
	b := uint8(math.Round(clamp01(c.B) * 255))
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	a := uint8(math.Round(clamp01(c.A) * 255))
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// String implements fmt.Stringer.
func (c RGBA) String() string {
	return c.Hex()
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Tutorial palette. The values follow the colors math video authors are
// used to, so scripts read the same as their storyboards.
var (
	White  = Hex("#FFFFFF")
	Black  = Hex("#000000")
	Gray   = Hex("#888888")
	Blue   = Hex("#58C4DD")
	Teal   = Hex("#5CD0B3")
	Green  = Hex("#83C167")
	Yellow = Hex("#FFFF00")
	Gold   = Hex("#F0AC5F")
	Red    = Hex("#FC6255")
	Maroon = Hex("#C55F73")
	Purple = Hex("#9A72AC")
	Pink   = Hex("#D147BD")
	Orange = Hex("#FF862F")
)

var palette = map[string]RGBA{
	"white":  White,
	"black":  Black,
	"gray":   Gray,
	"grey":   Gray,
	"blue":   Blue,
	"teal":   Teal,
	"green":  Green,
	"yellow": Yellow,
	"gold":   Gold,
	"red":    Red,
	"maroon": Maroon,
	"purple": Purple,
	"pink":   Pink,
	"orange": Orange,
}
