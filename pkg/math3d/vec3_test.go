package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), V3(5, -3, 9)},
		{"sub", a.Sub(b), V3(-3, 7, -3)},
		{"mul", a.Mul(b), V3(4, -10, 18)},
		{"scale", a.Scale(2), V3(2, 4, 6)},
		{"negate", a.Negate(), V3(-1, -2, -3)},
		{"cross", V3(1, 0, 0).Cross(V3(0, 1, 0)), V3(0, 0, 1)},
		{"min", a.Min(b), V3(1, -5, 3)},
		{"max", a.Max(b), V3(4, 2, 6)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.ApproxEqual(tc.expected, eps) {
				t.Errorf("got %v, want %v", tc.got, tc.expected)
			}
		})
	}

	if d := a.Dot(b); d != 12 {
		t.Errorf("Dot = %v, want 12", d)
	}
	if l := V3(3, 4, 0).Len(); l != 5 {
		t.Errorf("Len = %v, want 5", l)
	}
	if m := V3(0.2, 0.7, 0.1).MaxComponent(); m != 0.7 {
		t.Errorf("MaxComponent = %v, want 0.7", m)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(0, 3, 4).Normalize()
	if math.Abs(n.Len()-1) > eps {
		t.Errorf("normalized length = %v, want 1", n.Len())
	}
	if !n.ApproxEqual(V3(0, 0.6, 0.8), eps) {
		t.Errorf("Normalize = %v, want (0, 0.6, 0.8)", n)
	}

	degenerate := []struct {
		name string
		v    Vec3
	}{
		{"zero", Zero3()},
		{"nan", V3(math.NaN(), 0, 0)},
		{"inf", V3(math.Inf(1), 0, 0)},
	}
	for _, tc := range degenerate {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.v.Normalize()
			if got != Forward() {
				t.Errorf("Normalize(%v) = %v, want %v", tc.v, got, Forward())
			}
		})
	}
}

func TestVec3Reflect(t *testing.T) {
	normals := []Vec3{
		Up(),
		V3(1, 1, 0).Normalize(),
		V3(-0.3, 0.2, 0.9).Normalize(),
	}
	incident := []Vec3{
		V3(1, -1, 0).Normalize(),
		V3(0.2, -0.5, -1).Normalize(),
		Forward(),
	}

	for _, n := range normals {
		for _, i := range incident {
			r := i.Reflect(n)
			if math.Abs(r.Len()-1) > 1e-9 {
				t.Errorf("Reflect(%v, %v) length = %v, want 1", i, n, r.Len())
			}
			if back := r.Reflect(n); !back.ApproxEqual(i, 1e-9) {
				t.Errorf("Reflect is not an involution: %v -> %v -> %v", i, r, back)
			}
		}
	}

	// Straight down onto the floor bounces straight up.
	if r := V3(0, -1, 0).Reflect(Up()); !r.ApproxEqual(Up(), eps) {
		t.Errorf("Reflect down = %v, want up", r)
	}
}
