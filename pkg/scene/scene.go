// Package scene holds the static description of what glyphtrace renders:
// spheres, point lights and the checkerboard floor.
package scene

import (
	"math"

	"github.com/taigrr/glyphtrace/pkg/math3d"
)

// Sphere is an analytic sphere primitive. Center may move between frames;
// radius and material are fixed at creation.
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	Material Material
}

// Light is a point light of unit intensity.
type Light struct {
	Position math3d.Vec3
}

// Floor is the implicit checkerboard plane y = Height, bounded to the
// rectangle (MinX, MaxX) x (MinZ, MaxZ). It is intersected analytically and
// never stored as a primitive.
type Floor struct {
	Height     float64
	MinX, MaxX float64
	MinZ, MaxZ float64
	Light      math3d.Vec3 // odd cells
	Dark       math3d.Vec3 // even cells
}

// DefaultFloor returns the floor tile of the demo scene.
func DefaultFloor() Floor {
	return Floor{
		Height: -4,
		MinX:   -10,
		MaxX:   10,
		MinZ:   -30,
		MaxZ:   -10,
		Light:  math3d.V3(0.3, 0.3, 0.3),
		Dark:   math3d.V3(0.3, 0.2, 0.1),
	}
}

// Contains reports whether (x, z) lies strictly inside the floor tile.
func (f Floor) Contains(x, z float64) bool {
	return x > f.MinX && x < f.MaxX && z > f.MinZ && z < f.MaxZ
}

// Parity returns the checker class of (x, z): floor(x/2) + floor(z/2) mod 2.
// Cells are two units wide.
func Parity(x, z float64) int {
	return (int(math.Floor(0.5*x)) + int(math.Floor(0.5*z))) & 1
}

// ColorAt returns the checkerboard diffuse color at (x, z).
func (f Floor) ColorAt(x, z float64) math3d.Vec3 {
	if Parity(x, z) == 1 {
		return f.Light
	}
	return f.Dark
}

// Scene is everything the tracer reads while rendering a frame.
// Render passes must see a single consistent Scene; mutate it only between
// frames.
type Scene struct {
	Spheres []Sphere
	Lights  []Light
	Floor   Floor
}

// Default returns the demo scene: four spheres, three lights and the
// checkerboard floor.
func Default() *Scene {
	return &Scene{
		Spheres: []Sphere{
			{Center: math3d.V3(-3, 0, -16), Radius: 2, Material: Ivory},
			{Center: math3d.V3(-1.0, -1.5, -12), Radius: 2, Material: Glass},
			{Center: math3d.V3(1.5, -0.5, -18), Radius: 3, Material: RedRubber},
			{Center: math3d.V3(7, 5, -18), Radius: 4, Material: Mirror},
		},
		Lights: []Light{
			{Position: math3d.V3(-20, 20, 20)},
			{Position: math3d.V3(30, 50, -25)},
			{Position: math3d.V3(30, 20, 30)},
		},
		Floor: DefaultFloor(),
	}
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	c := &Scene{
		Spheres: make([]Sphere, len(s.Spheres)),
		Lights:  make([]Light, len(s.Lights)),
		Floor:   s.Floor,
	}
	copy(c.Spheres, s.Spheres)
	copy(c.Lights, s.Lights)
	return c
}
