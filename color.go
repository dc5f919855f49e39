package xlsheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB value, e.g. 0xFF0000 for red.
type Color uint32

// Common colors.
const (
	ColorBlack  Color = 0x000000
	ColorWhite  Color = 0xFFFFFF
	ColorRed    Color = 0xFF0000
	ColorGreen  Color = 0x00FF00
	ColorBlue   Color = 0x0000FF
	ColorYellow Color = 0xFFFF00
)

// RGB builds a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseColor parses "#1F77B4" or "1F77B4".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("parse color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color(v), nil
}

// Hex returns the color as six upper-case hex digits without a leading '#'.
func (c Color) Hex() string {
	return fmt.Sprintf("%06X", uint32(c)&0xFFFFFF)
}

func (c Color) String() string {
	return "#" + c.Hex()
}
