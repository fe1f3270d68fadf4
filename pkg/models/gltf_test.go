package models

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/glyphtrace/pkg/math3d"
	"github.com/taigrr/glyphtrace/pkg/scene"
)

func TestLoadSceneInvalidPath(t *testing.T) {
	_, err := LoadScene("/nonexistent/path.glb")
	assert.Error(t, err)
}

func TestSceneRoundTrip(t *testing.T) {
	for _, ext := range []string{".glb", ".gltf"} {
		t.Run(ext, func(t *testing.T) {
			want := scene.Default()
			// Move things off their defaults so nothing passes by accident.
			want.Spheres[2].Center = math3d.V3(2.25, -0.5, -17.5)
			want.Spheres = append(want.Spheres, scene.Sphere{
				Center: math3d.V3(0, 1, -9), Radius: 0.75, Material: scene.Glass,
			})

			path := filepath.Join(t.TempDir(), "scene"+ext)
			require.NoError(t, SaveScene(path, want))

			got, err := LoadScene(path)
			require.NoError(t, err)

			require.Len(t, got.Spheres, len(want.Spheres))
			for i, sp := range want.Spheres {
				g := got.Spheres[i]
				assert.True(t, g.Center.ApproxEqual(sp.Center, 1e-9), "sphere %d center %v, want %v", i, g.Center, sp.Center)
				assert.InDelta(t, sp.Radius, g.Radius, 1e-6, "sphere %d radius", i)
				assert.Equal(t, sp.Material, g.Material, "sphere %d material", i)
			}

			require.Len(t, got.Lights, len(want.Lights))
			for i, l := range want.Lights {
				assert.True(t, got.Lights[i].Position.ApproxEqual(l.Position, 1e-9))
			}
			assert.Equal(t, scene.DefaultFloor(), got.Floor)
		})
	}
}

func TestSaveSceneRejects(t *testing.T) {
	dir := t.TempDir()

	err := SaveScene(filepath.Join(dir, "scene.obj"), scene.Default())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	s := scene.Default()
	s.Spheres[0].Material.Name = "chrome"
	err = SaveScene(filepath.Join(dir, "scene.glb"), s)
	assert.ErrorIs(t, err, scene.ErrUnknownMaterial)
	_, statErr := os.Stat(filepath.Join(dir, "scene.glb"))
	assert.True(t, os.IsNotExist(statErr), "nothing should be written on error")
}

func TestLoadSceneUnknownMaterial(t *testing.T) {
	s := scene.Default()
	doc, err := sceneDocument(s)
	require.NoError(t, err)
	doc.Materials[0].Name = "chrome"

	path := filepath.Join(t.TempDir(), "bad.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	_, err = LoadScene(path)
	assert.ErrorIs(t, err, scene.ErrUnknownMaterial)
}

func TestLoadSceneOffCenterMesh(t *testing.T) {
	s := scene.Default()
	doc, err := sceneDocument(s)
	require.NoError(t, err)

	// Shift every vertex of the shared sphere by +2 on X.
	data := doc.Buffers[0].Data
	base := doc.BufferViews[0].ByteOffset
	for i := range doc.Accessors[0].Count {
		off := base + i*12
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(x+2))
	}

	path := filepath.Join(t.TempDir(), "shifted.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	got, err := LoadScene(path)
	require.NoError(t, err)
	require.Len(t, got.Spheres, len(s.Spheres))
	for i, sp := range s.Spheres {
		want := sp.Center.Add(math3d.V3(2*sp.Radius, 0, 0))
		assert.True(t, got.Spheres[i].Center.ApproxEqual(want, 1e-5), "sphere %d center %v, want %v", i, got.Spheres[i].Center, want)
		assert.InDelta(t, sp.Radius, got.Spheres[i].Radius, 1e-5)
	}
}

func TestLoadSceneMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *gltf.Document)
		want   string
	}{
		{
			name:   "buffer view out of range",
			mutate: func(doc *gltf.Document) { doc.Accessors[0].BufferView = gltf.Index(7) },
			want:   "buffer view 7 out of range",
		},
		{
			name:   "buffer out of range",
			mutate: func(doc *gltf.Document) { doc.BufferViews[0].Buffer = 3 },
			want:   "buffer 3 out of range",
		},
		{
			name:   "accessor past end of buffer",
			mutate: func(doc *gltf.Document) { doc.Accessors[0].ByteOffset = 1 << 20 },
			want:   "past end of buffer",
		},
		{
			name:   "position accessor out of range",
			mutate: func(doc *gltf.Document) { doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION] = 99 },
			want:   "accessor 99 out of range",
		},
		{
			name:   "mesh out of range",
			mutate: func(doc *gltf.Document) { doc.Nodes[0].Mesh = gltf.Index(42) },
			want:   "mesh 42 out of range",
		},
		{
			name: "index past last vertex",
			mutate: func(doc *gltf.Document) {
				off := doc.BufferViews[2].ByteOffset
				binary.LittleEndian.PutUint32(doc.Buffers[0].Data[off:], 1<<20)
			},
			want: "out of range for",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := sceneDocument(scene.Default())
			require.NoError(t, err)
			tt.mutate(doc)

			path := filepath.Join(t.TempDir(), "bad.glb")
			require.NoError(t, gltf.SaveBinary(doc, path))

			_, err = LoadScene(path)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadSceneDanglingBufferViewJSON(t *testing.T) {
	const doc = `{
  "asset": {"version": "2.0"},
  "accessors": [{"bufferView": 7, "componentType": 5126, "count": 3, "type": "VEC3"}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "nodes": [{"name": "sphere.0", "mesh": 0}]
}`
	path := filepath.Join(t.TempDir(), "dangling.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	var err error
	require.NotPanics(t, func() { _, err = LoadScene(path) })
	assert.Error(t, err)
}

func TestSceneDocumentSharesGeometry(t *testing.T) {
	s := scene.Default()
	s.Spheres = append(s.Spheres, s.Spheres[0])

	doc, err := sceneDocument(s)
	require.NoError(t, err)

	assert.Len(t, doc.Buffers, 1)
	assert.Len(t, doc.Accessors, 3)
	assert.Len(t, doc.Meshes, 4, "one mesh per preset in use")
	assert.Len(t, doc.Materials, 4)
	assert.Len(t, doc.Nodes, len(s.Spheres)+len(s.Lights))
	assert.Equal(t, "light.0", doc.Nodes[len(s.Spheres)].Name)
	assert.Equal(t, *doc.Nodes[0].Mesh, *doc.Nodes[len(s.Spheres)-1].Mesh)
}
