package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/glyphtrace/pkg/math3d"
)

// Orbit spins one sphere's center around a fixed pivot.
type Orbit struct {
	Sphere int         // index into Scene.Spheres
	Pivot  math3d.Vec3 // center of rotation
	Rate   math3d.Vec3 // degrees per frame about X, Y and Z
}

// DefaultOrbits returns the two orbits of the demo: the mirror sphere
// drifting one way and the red rubber sphere twice as fast the other way.
func DefaultOrbits() []Orbit {
	return []Orbit{
		{Sphere: 3, Pivot: math3d.V3(1.5, -2.5, -20.0), Rate: math3d.V3(0, -0.8, 0)},
		{Sphere: 2, Pivot: math3d.V3(1.5, -2.5, -15.0), Rate: math3d.V3(0, 1.6, 0)},
	}
}

// Animator advances sphere centers once per frame.
//
// With easing on, the spin rate is scaled by a speed factor that a
// critically damped spring pulls toward 1 (running) or 0 (paused), so
// starting and pausing never jump. With easing off every Step applies the
// full rate.
type Animator struct {
	Orbits []Orbit

	easing   bool
	paused   bool
	speed    float64
	speedVel float64 // spring velocity for speed
	spring   harmonica.Spring
}

// NewAnimator creates an animator ticking at fps frames per second.
func NewAnimator(fps int, easing bool, orbits ...Orbit) *Animator {
	a := &Animator{
		Orbits: orbits,
		easing: easing,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
	if !easing {
		a.speed = 1
	}
	return a
}

// SetPaused pauses or resumes the animation.
func (a *Animator) SetPaused(paused bool) {
	a.paused = paused
}

// Toggle flips the paused state and returns the new value.
func (a *Animator) Toggle() bool {
	a.paused = !a.paused
	return a.paused
}

// Paused reports whether the animation is paused (it may still be easing out).
func (a *Animator) Paused() bool {
	return a.paused
}

// Speed returns the current rate multiplier in [0, 1].
func (a *Animator) Speed() float64 {
	return a.speed
}

// Step advances the scene by one frame. It must not run concurrently with a
// render of the same scene.
func (a *Animator) Step(s *Scene) {
	a.updateSpeed()
	if a.speed == 0 {
		return
	}

	for _, o := range a.Orbits {
		if o.Sphere < 0 || o.Sphere >= len(s.Spheres) {
			continue
		}
		m := math3d.RotateAbout(o.Pivot,
			math3d.Radians(o.Rate.X*a.speed),
			math3d.Radians(o.Rate.Y*a.speed),
			math3d.Radians(o.Rate.Z*a.speed),
		)
		sp := &s.Spheres[o.Sphere]
		sp.Center = m.MulVec3(sp.Center)
	}
}

func (a *Animator) updateSpeed() {
	target := 1.0
	if a.paused {
		target = 0
	}

	if !a.easing {
		a.speed = target
		return
	}

	a.speed, a.speedVel = a.spring.Update(a.speed, a.speedVel, target)
	// Snap once the spring has settled so a paused scene is truly still.
	if math.Abs(a.speed-target) < 1e-4 && math.Abs(a.speedVel) < 1e-3 {
		a.speed, a.speedVel = target, 0
	}
	a.speed = math.Max(0, math.Min(1, a.speed))
}
