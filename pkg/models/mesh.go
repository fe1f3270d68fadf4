// Package models converts glyphtrace scenes to and from glTF documents and
// builds the triangle meshes used to represent spheres in them.
package models

import (
	"math"

	"github.com/taigrr/glyphtrace/pkg/math3d"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle given by indices into Mesh.Vertices, wound
// counter-clockwise when seen from outside.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// SphereMesh builds a UV sphere centered on the origin. rings is the number
// of latitude bands (at least 2) and segments the number of longitude slices
// (at least 3). Seam and pole vertices are duplicated so every ring has
// segments+1 vertices.
func SphereMesh(radius float64, rings, segments int) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	m := NewMesh("sphere")
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		sinT, cosT := math.Sincos(theta)
		for j := 0; j <= segments; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			sinP, cosP := math.Sincos(phi)
			n := math3d.V3(sinT*cosP, cosT, sinT*sinP)
			m.Vertices = append(m.Vertices, MeshVertex{Position: n, Normal: n})
		}
	}

	stride := segments + 1
	for i := range rings {
		for j := range segments {
			a := i*stride + j
			b := a + stride
			// The first ring's top edge and the last ring's bottom edge
			// collapse onto the poles.
			if i > 0 {
				m.Faces = append(m.Faces, Face{V: [3]int{a, a + 1, b}})
			}
			if i < rings-1 {
				m.Faces = append(m.Faces, Face{V: [3]int{a + 1, b + 1, b}})
			}
		}
	}

	m.Transform(math3d.Scale(math3d.V3(radius, radius, radius)))
	return m
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// HalfExtent is half the largest bounding box dimension: the radius of a
// sphere mesh.
func (m *Mesh) HalfExtent() float64 {
	return m.Size().MaxComponent() / 2
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		// Rotation and uniform scale only, so the direction transform is enough.
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}
