// Package trace is the ray-tracing core of glyphtrace: nearest-hit
// intersection against the scene and recursive Whitted-style shading with
// hard shadows, mirror reflection and Snell refraction.
//
// Nothing in this package blocks, allocates per ray, or returns errors.
// Every input produces a color; degenerate cases resolve to the background.
package trace

import (
	"github.com/taigrr/glyphtrace/pkg/math3d"
	"github.com/taigrr/glyphtrace/pkg/scene"
)

// Defaults for Options.
const (
	DefaultMaxDepth = 4
	DefaultEpsilon  = 1e-3
)

// DefaultBackground is the sky color returned for rays that escape the scene.
var DefaultBackground = math3d.V3(0.2, 0.7, 0.8)

const (
	// farSentinel seeds the nearest-hit search.
	farSentinel = 1e10
	// horizon is the distance beyond which a hit counts as background.
	horizon = 1000
)

// Ray is a half-line. Direction should be normalized.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit is the result of an intersection query. When OK is false the other
// fields are zero.
type Hit struct {
	OK       bool
	Distance float64
	Point    math3d.Vec3
	Normal   math3d.Vec3 // unit length, outward
	Material scene.Material
}

// Options configures a Tracer.
type Options struct {
	MaxDepth   int         // deepest bounce that is still shaded
	Epsilon    float64     // self-intersection offset for every ray
	Background math3d.Vec3 // color of escaped rays
}

// DefaultOptions returns the reference configuration: four bounces, a
// 0.001 self-intersection epsilon and a light blue sky.
func DefaultOptions() Options {
	return Options{
		MaxDepth:   DefaultMaxDepth,
		Epsilon:    DefaultEpsilon,
		Background: DefaultBackground,
	}
}
