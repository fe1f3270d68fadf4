package render

import (
	"fmt"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// GlyphMode controls how framebuffer pixels map onto terminal cells.
type GlyphMode int

const (
	// GlyphSquare draws one pixel per double-width "⬛" glyph on black.
	GlyphSquare GlyphMode = iota
	// GlyphHalfBlock packs two pixels into one cell: ▀ with fg=top, bg=bottom.
	GlyphHalfBlock
)

const (
	squareGlyph    = "⬛"
	halfBlockGlyph = "▀"
)

func (g GlyphMode) String() string {
	switch g {
	case GlyphSquare:
		return "square"
	case GlyphHalfBlock:
		return "half"
	default:
		return fmt.Sprintf("GlyphMode(%d)", int(g))
	}
}

// ParseGlyphMode maps a config or flag value to a GlyphMode.
func ParseGlyphMode(s string) (GlyphMode, error) {
	switch s {
	case "square":
		return GlyphSquare, nil
	case "half", "halfblock":
		return GlyphHalfBlock, nil
	}
	return 0, fmt.Errorf("unknown glyph mode %q", s)
}

// Next cycles to the other glyph mode.
func (g GlyphMode) Next() GlyphMode {
	if g == GlyphSquare {
		return GlyphHalfBlock
	}
	return GlyphSquare
}

// FramebufferSize returns the framebuffer dimensions that exactly fill a
// cols x rows terminal area in this mode.
func (g GlyphMode) FramebufferSize(cols, rows int) (width, height int) {
	if g == GlyphHalfBlock {
		return cols, rows * 2
	}
	return cols / 2, rows
}

// DrawOptions selects glyph and palette for Draw.
type DrawOptions struct {
	Glyph   GlyphMode
	Palette Palette
}

var black = ansi.IndexedColor(16)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Pixel (0, 0) lands in the top-left cell of area; anything that does
// not fit is cut off.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle, opts DrawOptions) {
	if opts.Glyph == GlyphHalfBlock {
		fb.drawHalfBlock(scr, area, opts.Palette)
		return
	}
	fb.drawSquare(scr, area, opts.Palette)
}

func (fb *Framebuffer) drawSquare(scr uv.Screen, area uv.Rectangle, p Palette) {
	for y := 0; y < fb.Height && area.Min.Y+y < area.Max.Y; y++ {
		row := area.Min.Y + y
		for x := range fb.Width {
			col := area.Min.X + 2*x
			if col+2 > area.Max.X {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: squareGlyph,
				Width:   2,
				Style: uv.Style{
					Fg: p.Color(fb.At(x, y)),
					Bg: black,
				},
			})
		}
	}
}

func (fb *Framebuffer) drawHalfBlock(scr uv.Screen, area uv.Rectangle, p Palette) {
	for r := 0; 2*r < fb.Height && area.Min.Y+r < area.Max.Y; r++ {
		row := area.Min.Y + r
		topY := r * 2
		botY := topY + 1

		for x := 0; x < fb.Width && area.Min.X+x < area.Max.X; x++ {
			var bot color.Color = black
			if botY < fb.Height {
				bot = p.Color(fb.At(x, botY))
			}
			scr.SetCell(area.Min.X+x, row, &uv.Cell{
				Content: halfBlockGlyph,
				Width:   1,
				Style: uv.Style{
					Fg: p.Color(fb.At(x, topY)),
					Bg: bot,
				},
			})
		}
	}
}
