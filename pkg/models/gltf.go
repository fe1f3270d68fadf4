package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/glyphtrace/pkg/math3d"
	"github.com/taigrr/glyphtrace/pkg/scene"
)

// Tessellation of the unit sphere written for every sphere node.
const (
	sphereRings    = 16
	sphereSegments = 32
)

// lightPrefix marks mesh-less nodes that hold a point light.
const lightPrefix = "light"

// ErrUnsupportedFormat is returned for file extensions other than .glb and .gltf.
var ErrUnsupportedFormat = errors.New("unsupported scene format")

// SaveScene writes s as a glTF document. The format follows the extension:
// .glb is binary, .gltf is JSON with the buffer embedded.
//
// Every sphere becomes a node translated to its center and uniformly scaled
// by its radius, instancing a unit sphere mesh whose material carries the
// preset name. Lights become mesh-less nodes named light.N. The floor is
// implied and not written.
func SaveScene(path string, s *scene.Scene) error {
	doc, err := sceneDocument(s)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb":
		err = gltf.SaveBinary(doc, path)
	case ".gltf":
		doc.Buffers[0].EmbeddedResource()
		err = gltf.Save(doc, path)
	default:
		return fmt.Errorf("save scene: %w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	return nil
}

// sceneDocument builds the in-memory glTF document for s.
func sceneDocument(s *scene.Scene) (*gltf.Document, error) {
	unit := SphereMesh(1, sphereRings, sphereSegments)

	doc := &gltf.Document{
		Asset: gltf.Asset{Version: "2.0", Generator: "glyphtrace"},
	}
	if err := writeGeometry(doc, unit); err != nil {
		return nil, err
	}
	const (
		posAccessor = iota
		normalAccessor
		indexAccessor
	)

	// One material and one mesh per preset in use, all sharing the geometry.
	meshFor := make(map[string]int)
	var nodes []int
	for i, sp := range s.Spheres {
		name := sp.Material.Name
		if _, err := scene.MaterialByName(name); err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		mi, ok := meshFor[name]
		if !ok {
			c := sp.Material.DiffuseColor
			doc.Materials = append(doc.Materials, &gltf.Material{
				Name: name,
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
					BaseColorFactor: &[4]float64{c.X, c.Y, c.Z, 1},
				},
			})
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{
				Name: "sphere." + name,
				Primitives: []*gltf.Primitive{{
					Attributes: map[string]int{
						gltf.POSITION: posAccessor,
						gltf.NORMAL:   normalAccessor,
					},
					Indices:  gltf.Index(indexAccessor),
					Material: gltf.Index(len(doc.Materials) - 1),
					Mode:     gltf.PrimitiveTriangles,
				}},
			})
			mi = len(doc.Meshes) - 1
			meshFor[name] = mi
		}

		r := sp.Radius
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        fmt.Sprintf("sphere.%d", i),
			Mesh:        gltf.Index(mi),
			Translation: [3]float64{sp.Center.X, sp.Center.Y, sp.Center.Z},
			Rotation:    [4]float64{0, 0, 0, 1},
			Scale:       [3]float64{r, r, r},
		})
		nodes = append(nodes, len(doc.Nodes)-1)
	}

	for i, l := range s.Lights {
		p := l.Position
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        fmt.Sprintf("%s.%d", lightPrefix, i),
			Translation: [3]float64{p.X, p.Y, p.Z},
			Rotation:    [4]float64{0, 0, 0, 1},
			Scale:       [3]float64{1, 1, 1},
		})
		nodes = append(nodes, len(doc.Nodes)-1)
	}

	doc.Scenes = []*gltf.Scene{{Name: "glyphtrace", Nodes: nodes}}
	doc.Scene = gltf.Index(0)
	return doc, nil
}

// writeGeometry packs positions, normals and uint32 indices of m into a
// single buffer and appends the three matching accessors, in that order.
func writeGeometry(doc *gltf.Document, m *Mesh) error {
	if m.VertexCount() == 0 || m.TriangleCount() == 0 {
		return errors.New("empty mesh")
	}

	n := m.VertexCount()
	vecBytes := n * 12
	idxBytes := m.TriangleCount() * 3 * 4
	data := make([]byte, 2*vecBytes+idxBytes)

	putVec3 := func(off int, v math3d.Vec3) {
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(float32(v.X)))
		binary.LittleEndian.PutUint32(data[off+4:], math.Float32bits(float32(v.Y)))
		binary.LittleEndian.PutUint32(data[off+8:], math.Float32bits(float32(v.Z)))
	}
	for i, v := range m.Vertices {
		putVec3(i*12, v.Position)
		putVec3(vecBytes+i*12, v.Normal)
	}
	off := 2 * vecBytes
	for _, f := range m.Faces {
		for _, idx := range f.V {
			binary.LittleEndian.PutUint32(data[off:], uint32(idx))
			off += 4
		}
	}

	doc.Buffers = append(doc.Buffers, &gltf.Buffer{ByteLength: len(data), Data: data})
	buf := len(doc.Buffers) - 1
	doc.BufferViews = append(doc.BufferViews,
		&gltf.BufferView{Buffer: buf, ByteOffset: 0, ByteLength: vecBytes},
		&gltf.BufferView{Buffer: buf, ByteOffset: vecBytes, ByteLength: vecBytes},
		&gltf.BufferView{Buffer: buf, ByteOffset: 2 * vecBytes, ByteLength: idxBytes},
	)
	view := len(doc.BufferViews) - 3

	lo, hi := m.BoundsMin, m.BoundsMax
	doc.Accessors = append(doc.Accessors,
		&gltf.Accessor{
			BufferView:    gltf.Index(view),
			ComponentType: gltf.ComponentFloat,
			Count:         n,
			Type:          gltf.AccessorVec3,
			Min:           []float64{lo.X, lo.Y, lo.Z},
			Max:           []float64{hi.X, hi.Y, hi.Z},
		},
		&gltf.Accessor{
			BufferView:    gltf.Index(view + 1),
			ComponentType: gltf.ComponentFloat,
			Count:         n,
			Type:          gltf.AccessorVec3,
		},
		&gltf.Accessor{
			BufferView:    gltf.Index(view + 2),
			ComponentType: gltf.ComponentUint,
			Count:         m.TriangleCount() * 3,
			Type:          gltf.AccessorScalar,
		},
	)
	return nil
}

// LoadScene reads a glTF or GLB document written by SaveScene (or any
// document following the same layout) and rebuilds the scene.
//
// Nodes with a mesh become spheres: the mesh bounds center, scaled and
// translated by the node, is the center and the largest scale component
// times the mesh half-extent is the radius. The
// first primitive's material name selects the preset. Mesh-less nodes whose
// name starts with "light" become lights. The floor is always the default.
func LoadScene(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	s := &scene.Scene{Floor: scene.DefaultFloor()}
	bounds := make(map[int]meshBounds)

	for _, idx := range sceneNodes(doc) {
		node := doc.Nodes[idx]
		if node == nil {
			continue
		}
		t := node.TranslationOrDefault()
		pos := math3d.V3(t[0], t[1], t[2])

		if node.Mesh == nil {
			if strings.HasPrefix(node.Name, lightPrefix) {
				s.Lights = append(s.Lights, scene.Light{Position: pos})
			}
			continue
		}

		mi := *node.Mesh
		if mi < 0 || mi >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %q: mesh %d out of range", node.Name, mi)
		}
		gm := doc.Meshes[mi]
		if gm == nil {
			return nil, fmt.Errorf("node %q: mesh %d is empty", node.Name, mi)
		}

		mb, ok := bounds[mi]
		if !ok {
			mesh, err := loadMesh(doc, gm)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", node.Name, err)
			}
			mb = meshBounds{half: 1}
			if mesh.VertexCount() > 0 {
				mb = meshBounds{center: mesh.Center(), half: mesh.HalfExtent()}
			}
			bounds[mi] = mb
		}

		mat, err := primitiveMaterial(doc, gm)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", node.Name, err)
		}

		sc := node.ScaleOrDefault()
		radius := math.Max(sc[0], math.Max(sc[1], sc[2])) * mb.half
		if radius <= 0 {
			return nil, fmt.Errorf("node %q: non-positive radius %g", node.Name, radius)
		}
		center := pos.Add(mb.center.Mul(math3d.V3(sc[0], sc[1], sc[2])))
		s.Spheres = append(s.Spheres, scene.Sphere{Center: center, Radius: radius, Material: mat})
	}

	return s, nil
}

// meshBounds is the bounding sphere of a mesh in its own space.
type meshBounds struct {
	center math3d.Vec3
	half   float64
}

// sceneNodes returns the root nodes of the default scene, or every node in
// index order when the document has no scene.
func sceneNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			si = *doc.Scene
		}
		var out []int
		for _, n := range doc.Scenes[si].Nodes {
			if n >= 0 && n < len(doc.Nodes) {
				out = append(out, n)
			}
		}
		return out
	}
	out := make([]int, len(doc.Nodes))
	for i := range out {
		out[i] = i
	}
	return out
}

func primitiveMaterial(doc *gltf.Document, m *gltf.Mesh) (scene.Material, error) {
	for _, prim := range m.Primitives {
		if prim.Material == nil {
			continue
		}
		mi := *prim.Material
		if mi < 0 || mi >= len(doc.Materials) || doc.Materials[mi] == nil {
			return scene.Material{}, fmt.Errorf("material %d out of range", mi)
		}
		return scene.MaterialByName(doc.Materials[mi].Name)
	}
	return scene.Material{}, fmt.Errorf("mesh %q: %w: no material", m.Name, scene.ErrUnknownMaterial)
}

// loadMesh extracts triangle geometry from a glTF mesh.
func loadMesh(doc *gltf.Document, m *gltf.Mesh) (*Mesh, error) {
	mesh := NewMesh(m.Name)

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return nil, fmt.Errorf("read normals: %w", err)
			}
		}

		baseVertex := len(mesh.Vertices)
		for i := range positions {
			v := MeshVertex{Position: positions[i]}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
			for _, ix := range indices {
				if ix >= len(positions) {
					return nil, fmt.Errorf("index %d out of range for %d vertices", ix, len(positions))
				}
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{
					baseVertex + indices[i],
					baseVertex + indices[i+1],
					baseVertex + indices[i+2],
				}})
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{
					baseVertex + i,
					baseVertex + i + 1,
					baseVertex + i + 2,
				}})
			}
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor == nil {
		return nil, fmt.Errorf("accessor %d is empty", accessorIdx)
	}
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	if doc.Accessors[accessorIdx] == nil {
		return nil, fmt.Errorf("accessor %d is empty", accessorIdx)
	}
	data, err := readAccessorData(doc, doc.Accessors[accessorIdx])
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}

// readAccessorData reads raw data from a GLTF accessor. Buffers must be
// loaded in memory: GLB chunks and data URIs are, external files are
// resolved by gltf.Open.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bvi := *accessor.BufferView
	if bvi < 0 || bvi >= len(doc.BufferViews) || doc.BufferViews[bvi] == nil {
		return nil, fmt.Errorf("buffer view %d out of range", bvi)
	}
	bufferView := doc.BufferViews[bvi]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) || doc.Buffers[bufferView.Buffer] == nil {
		return nil, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	bufData := doc.Buffers[bufferView.Buffer].Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	need := func(size int) error {
		if stride == 0 {
			stride = size
		}
		if start < 0 || stride < size || count < 0 {
			return fmt.Errorf("accessor layout out of range")
		}
		if count > 0 && start+(count-1)*stride+size > len(bufData) {
			return fmt.Errorf("accessor reads past end of buffer")
		}
		return nil
	}

	switch accessor.Type {
	case gltf.AccessorVec3:
		if accessor.ComponentType != gltf.ComponentFloat {
			break
		}
		if err := need(12); err != nil {
			return nil, err
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			if err := need(1); err != nil {
				return nil, err
			}
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			if err := need(2); err != nil {
				return nil, err
			}
			result := make([]uint16, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		case gltf.ComponentUint:
			if err := need(4); err != nil {
				return nil, err
			}
			result := make([]uint32, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
