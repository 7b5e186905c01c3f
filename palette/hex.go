package palette

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseHex parses a color written as "#rrggbb", "rrggbb" or the short "#rgb"
// form
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("palette: invalid color %q", s)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return Color{}, fmt.Errorf("palette: invalid color %q", s)
	}
	return Color{b[0], b[1], b[2]}, nil
}

// Hex returns c formatted as "#rrggbb"
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}
