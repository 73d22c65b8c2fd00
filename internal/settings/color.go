package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Color565 is a packed 16-bit RGB colour (5 bits red, 6 green, 5 blue).
type Color565 uint16

// RGB expands the packed channels to 8 bits each.
// The high bits are replicated into the low bits so that full-scale 5/6 bit
// values map to 0xFF and the low end of each channel does not band.
func (c Color565) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F

	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	return r, g, b
}

// Hex returns the colour as "#RRGGBB" with upper-case digits.
func (c Color565) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// String implements fmt.Stringer.
func (c Color565) String() string {
	return c.Hex()
}

// ColorFromRGB packs 8-bit channels, keeping the most significant bits.
func ColorFromRGB(r, g, b uint8) Color565 {
	return Color565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// ParseHexColor parses "#RRGGBB" (the leading '#' is optional).
func ParseHexColor(s string) (Color565, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid hex colour %q: want 6 digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return ColorFromRGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
