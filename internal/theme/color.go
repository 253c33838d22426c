package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHex parses #rgb, #rrggbb and #rrggbbaa. The leading # is optional.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// WithAlpha returns c as #rrggbbaa with the given alpha byte, e.g. 0x80 for
// the half-transparent badge and panel fills.
func WithAlpha(c string, alpha uint8) string {
	n, err := ParseHex(c)
	if err != nil {
		return c
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, alpha)
}
