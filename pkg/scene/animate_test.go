package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taigrr/glyphtrace/pkg/math3d"
)

func TestAnimatorImmediateMatchesRotation(t *testing.T) {
	s := Default()
	a := NewAnimator(30, false, DefaultOrbits()...)

	mirror := s.Spheres[3].Center
	rubber := s.Spheres[2].Center
	a.Step(s)

	wantMirror := math3d.RotateAbout(math3d.V3(1.5, -2.5, -20), 0, math3d.Radians(-0.8), 0).MulVec3(mirror)
	wantRubber := math3d.RotateAbout(math3d.V3(1.5, -2.5, -15), 0, math3d.Radians(1.6), 0).MulVec3(rubber)

	assert.True(t, s.Spheres[3].Center.ApproxEqual(wantMirror, 1e-12), "mirror at %v, want %v", s.Spheres[3].Center, wantMirror)
	assert.True(t, s.Spheres[2].Center.ApproxEqual(wantRubber, 1e-12), "rubber at %v, want %v", s.Spheres[2].Center, wantRubber)

	// Spheres without an orbit never move.
	assert.Equal(t, math3d.V3(-3, 0, -16), s.Spheres[0].Center)
	assert.Equal(t, math3d.V3(-1, -1.5, -12), s.Spheres[1].Center)
	assert.Equal(t, 1.0, a.Speed())
}

func TestAnimatorYRotationKeepsHeight(t *testing.T) {
	s := Default()
	a := NewAnimator(30, false, DefaultOrbits()...)

	for range 100 {
		a.Step(s)
	}
	assert.InDelta(t, 5.0, s.Spheres[3].Center.Y, 1e-9)
	assert.InDelta(t, -0.5, s.Spheres[2].Center.Y, 1e-9)
}

func TestAnimatorEasing(t *testing.T) {
	s := Default()
	a := NewAnimator(30, true, DefaultOrbits()...)

	assert.Equal(t, 0.0, a.Speed(), "eased animation starts at rest")

	prev := a.Speed()
	for range 10 {
		a.Step(s)
		assert.GreaterOrEqual(t, a.Speed(), prev, "speed should rise monotonically")
		prev = a.Speed()
	}
	assert.Greater(t, a.Speed(), 0.0)
	assert.LessOrEqual(t, a.Speed(), 1.0)

	for range 300 {
		a.Step(s)
	}
	assert.Equal(t, 1.0, a.Speed(), "spring should settle at full speed")

	assert.True(t, a.Toggle())
	assert.True(t, a.Paused())
	for range 300 {
		a.Step(s)
	}
	assert.Equal(t, 0.0, a.Speed(), "spring should settle at rest")

	frozen := s.Spheres[3].Center
	a.Step(s)
	assert.Equal(t, frozen, s.Spheres[3].Center, "paused scene must not move")
}

func TestAnimatorPausedImmediate(t *testing.T) {
	s := Default()
	a := NewAnimator(30, false, DefaultOrbits()...)
	a.SetPaused(true)

	before := s.Clone()
	a.Step(s)
	assert.Equal(t, before.Spheres, s.Spheres)
}

func TestAnimatorSkipsMissingSpheres(t *testing.T) {
	s := &Scene{Spheres: []Sphere{{Center: math3d.V3(1, 0, 0), Radius: 1, Material: Ivory}}}
	a := NewAnimator(30, false, DefaultOrbits()...)

	assert.NotPanics(t, func() { a.Step(s) })
	assert.Equal(t, math3d.V3(1, 0, 0), s.Spheres[0].Center)
}
