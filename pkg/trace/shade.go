package trace

import (
	"math"

	"github.com/taigrr/glyphtrace/pkg/math3d"
	"github.com/taigrr/glyphtrace/pkg/scene"
)

// Stats counts the work done for one primary ray.
type Stats struct {
	Rays       int // CastRay evaluations, primary ray included
	ShadowRays int // occlusion queries toward lights
	MaxDepth   int // deepest recursion level evaluated
}

// Add accumulates o into st.
func (st *Stats) Add(o Stats) {
	st.Rays += o.Rays
	st.ShadowRays += o.ShadowRays
	st.MaxDepth = max(st.MaxDepth, o.MaxDepth)
}

// Tracer evaluates light transport for rays against a scene. A Tracer holds
// only immutable options and is safe for concurrent use.
type Tracer struct {
	opts Options
}

// NewTracer creates a tracer with the given options.
func NewTracer(opts Options) *Tracer {
	return &Tracer{opts: opts}
}

// Options returns the tracer configuration.
func (t *Tracer) Options() Options {
	return t.opts
}

// Reflect mirrors the incident direction i about the normal n.
func Reflect(i, n math3d.Vec3) math3d.Vec3 {
	return i.Reflect(n)
}

// Refract bends the incident direction i through a surface with normal n
// using Snell's law. etaT is the index on the far side, etaI on the near
// side. A ray leaving the medium (i·n > 0) is handled by flipping the normal
// and swapping the indices.
//
// Under total internal reflection there is no refracted ray; i is returned
// unchanged so the caller always has a direction to follow.
func Refract(i, n math3d.Vec3, etaT, etaI float64) math3d.Vec3 {
	cosi := -math.Max(-1, math.Min(1, i.Dot(n)))
	if cosi < 0 {
		return Refract(i, n.Negate(), etaI, etaT)
	}
	eta := etaI / etaT
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return i
	}
	return i.Scale(eta).Add(n.Scale(eta*cosi - math.Sqrt(k)))
}

// CastRay returns the color seen along dir from orig. depth is the number of
// bounces already taken; callers start at 0.
func (t *Tracer) CastRay(s *scene.Scene, orig, dir math3d.Vec3, depth int) math3d.Vec3 {
	var st Stats
	return t.castRay(s, orig, dir, depth, &st)
}

// Trace is CastRay from depth 0 that also reports how much work the ray took.
func (t *Tracer) Trace(s *scene.Scene, orig, dir math3d.Vec3) (math3d.Vec3, Stats) {
	var st Stats
	c := t.castRay(s, orig, dir, 0, &st)
	return c, st
}

func (t *Tracer) castRay(s *scene.Scene, orig, dir math3d.Vec3, depth int, st *Stats) math3d.Vec3 {
	st.Rays++
	st.MaxDepth = max(st.MaxDepth, depth)

	if depth > t.opts.MaxDepth {
		return t.opts.Background
	}
	hit := Intersect(s, Ray{Origin: orig, Direction: dir}, t.opts.Epsilon)
	if !hit.OK {
		return t.opts.Background
	}

	m := hit.Material
	n := hit.Normal

	// A bounce past MaxDepth would only return the background, so stop here
	// instead of evaluating it.
	reflectColor, refractColor := t.opts.Background, t.opts.Background
	if depth < t.opts.MaxDepth {
		reflectDir := Reflect(dir, n).Normalize()
		refractDir := Refract(dir, n, m.RefractiveIndex, 1).Normalize()
		reflectColor = t.castRay(s, hit.Point, reflectDir, depth+1, st)
		refractColor = t.castRay(s, hit.Point, refractDir, depth+1, st)
	}

	var diffuse, specular float64
	for _, light := range s.Lights {
		st.ShadowRays++
		if Occluded(s, hit.Point, light.Position, t.opts.Epsilon) {
			continue
		}
		lightDir := light.Position.Sub(hit.Point).Normalize()
		diffuse += math.Max(0, lightDir.Dot(n))
		specular += math.Pow(
			math.Max(0, -Reflect(lightDir.Negate(), n).Dot(dir)),
			m.SpecularExponent,
		)
	}

	return m.DiffuseColor.Scale(diffuse * m.Albedo[scene.AlbedoDiffuse]).
		Add(math3d.One3().Scale(specular * m.Albedo[scene.AlbedoSpecular])).
		Add(reflectColor.Scale(m.Albedo[scene.AlbedoReflect])).
		Add(refractColor.Scale(m.Albedo[scene.AlbedoRefract]))
}
