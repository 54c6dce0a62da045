package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Theme defines the color scheme for rendered boards.
type Theme struct {
	LightSquare  color.RGBA
	DarkSquare   color.RGBA
	EnPassant    color.RGBA
	WhitePiece   color.RGBA
	BlackPiece   color.RGBA
	PieceOutline color.RGBA
	LabelColor   color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() Theme {
	return Theme{
		LightSquare:  color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:   color.RGBA{181, 136, 99, 255},  // Brown
		EnPassant:    color.RGBA{204, 51, 51, 255},   // Red ring
		WhitePiece:   color.RGBA{250, 250, 250, 255},
		BlackPiece:   color.RGBA{30, 30, 30, 255},
		PieceOutline: color.RGBA{20, 20, 20, 255},
		LabelColor:   color.RGBA{60, 44, 30, 255},
	}
}

// ParseHexColor parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if ok && len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// hexColor formats c as an SVG color, ignoring alpha.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
