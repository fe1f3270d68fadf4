package math3d

import (
	"math"
	"testing"
)

// rotateSequential rotates p about pivot one axis at a time (X, Y, then Z).
func rotateSequential(p, pivot Vec3, degX, degY, degZ float64) Vec3 {
	rx, ry, rz := Radians(degX), Radians(degY), Radians(degZ)
	px, py, pz := p.X-pivot.X, p.Y-pivot.Y, p.Z-pivot.Z

	py, pz = py*math.Cos(rx)-pz*math.Sin(rx), py*math.Sin(rx)+pz*math.Cos(rx)
	px, pz = px*math.Cos(ry)+pz*math.Sin(ry), -px*math.Sin(ry)+pz*math.Cos(ry)
	px, py = px*math.Cos(rz)-py*math.Sin(rz), px*math.Sin(rz)+py*math.Cos(rz)

	return V3(px+pivot.X, py+pivot.Y, pz+pivot.Z)
}

func TestRotateAboutMatchesSequentialRotation(t *testing.T) {
	tests := []struct {
		name             string
		point, pivot     Vec3
		degX, degY, degZ float64
	}{
		{"mirror orbit", V3(7, 5, -18), V3(1.5, -2.5, -20), 0, -0.8, 0},
		{"rubber orbit", V3(1.5, -0.5, -18), V3(1.5, -2.5, -15), 0, 1.6, 0},
		{"all axes", V3(1, 2, 3), V3(-1, 0.5, 2), 30, 45, 60},
		{"identity", V3(4, 5, 6), V3(1, 1, 1), 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := RotateAbout(tc.pivot, Radians(tc.degX), Radians(tc.degY), Radians(tc.degZ))
			got := m.MulVec3(tc.point)
			want := rotateSequential(tc.point, tc.pivot, tc.degX, tc.degY, tc.degZ)
			if !got.ApproxEqual(want, 1e-9) {
				t.Errorf("RotateAbout = %v, want %v", got, want)
			}
		})
	}
}

func TestRotateAboutPreservesPivotDistance(t *testing.T) {
	pivot := V3(1.5, -2.5, -20)
	p := V3(7, 5, -18)
	m := RotateAbout(pivot, 0, Radians(-0.8), 0)

	before := p.Distance(pivot)
	for range 450 {
		p = m.MulVec3(p)
	}
	if after := p.Distance(pivot); math.Abs(after-before) > 1e-9 {
		t.Errorf("distance to pivot drifted from %v to %v", before, after)
	}
	if got := m.MulVec3(pivot); !got.ApproxEqual(pivot, 1e-12) {
		t.Errorf("pivot moved to %v", got)
	}
}

func TestMat4Basics(t *testing.T) {
	if got := Translate(V3(1, 2, 3)).MulVec3(Zero3()); got != V3(1, 2, 3) {
		t.Errorf("Translate origin = %v", got)
	}
	if got := Translate(V3(1, 2, 3)).MulVec3Dir(Up()); got != Up() {
		t.Errorf("directions must ignore translation, got %v", got)
	}
	if got := Scale(V3(2, 3, 4)).MulVec3(One3()); got != V3(2, 3, 4) {
		t.Errorf("Scale = %v", got)
	}
	if got := Translate(V3(5, 6, 7)).Mul(Translate(V3(-5, -6, -7))).MulVec3(V3(1, 2, 3)); got != V3(1, 2, 3) {
		t.Errorf("Translate then inverse = %v", got)
	}
	if math.Abs(Radians(180)-math.Pi) > eps {
		t.Errorf("Radians(180) = %v", Radians(180))
	}
}
