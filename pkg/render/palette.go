package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/glyphtrace/pkg/math3d"
)

// Palette selects how linear colors are quantized for the terminal.
type Palette int

const (
	PaletteANSI256   Palette = iota // 6x6x6 color cube of the 256-color table
	PaletteTrueColor                // 24-bit color
)

func (p Palette) String() string {
	switch p {
	case PaletteANSI256:
		return "ansi256"
	case PaletteTrueColor:
		return "truecolor"
	default:
		return fmt.Sprintf("Palette(%d)", int(p))
	}
}

// ParsePalette maps a config or flag value to a Palette.
func ParsePalette(s string) (Palette, error) {
	switch s {
	case "ansi256", "256":
		return PaletteANSI256, nil
	case "truecolor", "24bit":
		return PaletteTrueColor, nil
	}
	return 0, fmt.Errorf("unknown palette %q", s)
}

// Next cycles to the other palette.
func (p Palette) Next() Palette {
	if p == PaletteANSI256 {
		return PaletteTrueColor
	}
	return PaletteANSI256
}

// Clamp01 clamps every channel into [0, 1]. NaN becomes 0.
func Clamp01(c math3d.Vec3) colorful.Color {
	return colorful.Color{R: finite(c.X), G: finite(c.Y), B: finite(c.Z)}.Clamped()
}

func finite(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// ANSI256Index returns the index into the 6x6x6 cube of the xterm 256-color
// table: 16 + 36r + 6g + b with each channel scaled to 0..5.
func ANSI256Index(c math3d.Vec3) uint8 {
	cc := Clamp01(c)
	r := int(cc.R * 5)
	g := int(cc.G * 5)
	b := int(cc.B * 5)
	return uint8(16 + 36*r + 6*g + b)
}

// Color converts a linear framebuffer color into a terminal color.
func (p Palette) Color(c math3d.Vec3) color.Color {
	if p == PaletteTrueColor {
		return Clamp01(c)
	}
	return ansi.IndexedColor(ANSI256Index(c))
}

// RGBA8 converts c to an opaque 8-bit color for image output.
func RGBA8(c math3d.Vec3) color.RGBA {
	r, g, b := Clamp01(c).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
