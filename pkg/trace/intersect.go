package trace

import (
	"math"

	"github.com/taigrr/glyphtrace/pkg/math3d"
	"github.com/taigrr/glyphtrace/pkg/scene"
)

// IntersectSphere returns the distance along r to the first intersection
// with sp beyond eps. The near root wins if it is past eps; otherwise the
// far root (the ray starts inside the sphere).
func IntersectSphere(r Ray, sp scene.Sphere, eps float64) (float64, bool) {
	l := sp.Center.Sub(r.Origin)
	tca := l.Dot(r.Direction)
	d2 := l.LenSq() - tca*tca
	r2 := sp.Radius * sp.Radius
	if d2 > r2 {
		return 0, false
	}
	thc := math.Sqrt(r2 - d2)
	if t0 := tca - thc; t0 > eps {
		return t0, true
	}
	if t1 := tca + thc; t1 > eps {
		return t1, true
	}
	return 0, false
}

// IntersectFloor returns the distance along r to the checkerboard floor,
// if r crosses it inside the floor tile beyond eps. Rays nearly parallel to
// the floor never hit it.
func IntersectFloor(r Ray, f scene.Floor, eps float64) (float64, bool) {
	if math.Abs(r.Direction.Y) <= eps {
		return 0, false
	}
	d := -(r.Origin.Y - f.Height) / r.Direction.Y
	if d <= eps {
		return 0, false
	}
	p := r.At(d)
	if !f.Contains(p.X, p.Z) {
		return 0, false
	}
	return d, true
}

// Intersect finds the nearest surface hit by r: the floor first, then each
// sphere in order. A later candidate replaces the current best only when it
// is strictly closer, so ties keep the first one found.
func Intersect(s *scene.Scene, r Ray, eps float64) Hit {
	var hit Hit
	nearest := farSentinel

	if d, ok := IntersectFloor(r, s.Floor, eps); ok && d < nearest {
		nearest = d
		hit.Point = r.At(d)
		hit.Normal = math3d.Up()
		hit.Material = scene.FloorMaterial(s.Floor.ColorAt(hit.Point.X, hit.Point.Z))
	}

	for _, sp := range s.Spheres {
		d, ok := IntersectSphere(r, sp, eps)
		if !ok || d >= nearest {
			continue
		}
		nearest = d
		hit.Point = r.At(d)
		hit.Normal = hit.Point.Sub(sp.Center).Normalize()
		hit.Material = sp.Material
	}

	if nearest >= horizon {
		return Hit{}
	}
	hit.OK = true
	hit.Distance = nearest
	return hit
}

// Occluded reports whether anything in s lies strictly between p and the
// light at lightPos. It uses the same intersection routine as primary rays.
// A light sitting exactly on p is never occluded.
func Occluded(s *scene.Scene, p, lightPos math3d.Vec3, eps float64) bool {
	toLight := lightPos.Sub(p)
	h := Intersect(s, Ray{Origin: p, Direction: toLight.Normalize()}, eps)
	return h.OK && h.Point.Sub(p).LenSq() < toLight.LenSq()
}
