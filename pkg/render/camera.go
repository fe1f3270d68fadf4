package render

import (
	"math"

	"github.com/taigrr/glyphtrace/pkg/math3d"
	"github.com/taigrr/glyphtrace/pkg/trace"
)

// DefaultFOV is the vertical field of view in radians (about 60 degrees).
const DefaultFOV = 1.05

// Camera is a pinhole camera looking down -Z with +Y up.
type Camera struct {
	Origin math3d.Vec3
	FOV    float64 // Vertical field of view in radians
}

// NewCamera creates a camera at the origin with the given field of view.
func NewCamera(fov float64) *Camera {
	return &Camera{
		Origin: math3d.Zero3(),
		FOV:    fov,
	}
}

// Direction returns the normalized primary ray direction through the center
// of pixel (x, y) in a w x h image. Row 0 is the top of the image.
func (c *Camera) Direction(x, y, w, h int) math3d.Vec3 {
	dirX := (float64(x) + 0.5) - float64(w)/2
	dirY := -(float64(y) + 0.5) + float64(h)/2
	dirZ := -float64(h) / (2 * math.Tan(c.FOV/2))
	return math3d.V3(dirX, dirY, dirZ).Normalize()
}

// Ray returns the primary ray through pixel (x, y).
func (c *Camera) Ray(x, y, w, h int) trace.Ray {
	return trace.Ray{Origin: c.Origin, Direction: c.Direction(x, y, w, h)}
}
