// Package render turns traced scenes into frames: per-pixel camera rays, a
// linear-color framebuffer, terminal glyph output and PNG snapshots.
package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/taigrr/glyphtrace/pkg/math3d"
)

// Framebuffer is a 2D array of linear colors. Values are left unclamped;
// quantization happens when the frame is drawn or saved.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []math3d.Vec3 // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]math3d.Vec3, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c math3d.Vec3) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// Set sets a pixel at (x, y). Out-of-bounds writes are ignored.
func (fb *Framebuffer) Set(x, y int, c math3d.Vec3) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// At returns the color at (x, y), or black if out of bounds.
func (fb *Framebuffer) At(x, y int) math3d.Vec3 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math3d.Vec3{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// Row returns the pixels of row y. The slice aliases the framebuffer.
func (fb *Framebuffer) Row(y int) []math3d.Vec3 {
	return fb.Pixels[y*fb.Width : (y+1)*fb.Width]
}

// ToImage converts the framebuffer to a clamped 8-bit image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, RGBA8(fb.Pixels[y*fb.Width+x]))
		}
	}
	return img
}

// SavePNG writes the framebuffer as a PNG with every pixel drawn as a
// scale x scale square.
func (fb *Framebuffer) SavePNG(path string, scale int) error {
	if fb.Width == 0 || fb.Height == 0 {
		return fmt.Errorf("save png: empty framebuffer")
	}
	scale = max(scale, 1)

	dc := gg.NewContext(fb.Width*scale, fb.Height*scale)
	s := float64(scale)
	for y := range fb.Height {
		for x := range fb.Width {
			dc.SetColor(RGBA8(fb.Pixels[y*fb.Width+x]))
			dc.DrawRectangle(float64(x)*s, float64(y)*s, s, s)
			dc.Fill()
		}
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}
