package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/taigrr/glyphtrace/pkg/math3d"
)

// Albedo channel indices.
const (
	AlbedoDiffuse = iota
	AlbedoSpecular
	AlbedoReflect
	AlbedoRefract
)

// Material describes how a surface responds to light.
// Albedo weights {diffuse, specular, reflect, refract} are not normalized;
// over-bright results are intentional.
type Material struct {
	Name             string
	RefractiveIndex  float64    // 1.0 = no bending
	Albedo           [4]float64 // diffuse, specular, reflect, refract
	DiffuseColor     math3d.Vec3
	SpecularExponent float64
}

// Material presets for the demo scene.
var (
	Ivory = Material{
		Name:             "ivory",
		RefractiveIndex:  1.0,
		Albedo:           [4]float64{0.9, 0.5, 0.1, 0.0},
		DiffuseColor:     math3d.V3(0.4, 0.4, 0.3),
		SpecularExponent: 50,
	}
	Glass = Material{
		Name:             "glass",
		RefractiveIndex:  1.5,
		Albedo:           [4]float64{0.0, 0.9, 0.1, 0.8},
		DiffuseColor:     math3d.V3(0.6, 0.7, 0.8),
		SpecularExponent: 125,
	}
	RedRubber = Material{
		Name:             "red_rubber",
		RefractiveIndex:  1.0,
		Albedo:           [4]float64{1.4, 0.3, 0.0, 0.0},
		DiffuseColor:     math3d.V3(0.3, 0.1, 0.1),
		SpecularExponent: 10,
	}
	Mirror = Material{
		Name:             "mirror",
		RefractiveIndex:  1.0,
		Albedo:           [4]float64{0.0, 16.0, 0.8, 0.0},
		DiffuseColor:     math3d.V3(1.0, 1.0, 1.0),
		SpecularExponent: 1425,
	}
)

// ErrUnknownMaterial is returned when a material name has no preset.
var ErrUnknownMaterial = errors.New("unknown material")

var presets = map[string]Material{
	Ivory.Name:     Ivory,
	Glass.Name:     Glass,
	RedRubber.Name: RedRubber,
	Mirror.Name:    Mirror,
}

// MaterialByName returns the preset with the given name.
func MaterialByName(name string) (Material, error) {
	m, ok := presets[name]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// MaterialNames returns the preset names in sorted order.
func MaterialNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FloorMaterial returns the material used for a checkerboard cell: only the
// diffuse color is set, everything else keeps the surface default
// (refractive index 1, pure diffuse albedo of 2).
func FloorMaterial(color math3d.Vec3) Material {
	return Material{
		Name:            "floor",
		RefractiveIndex: 1,
		Albedo:          [4]float64{2, 0, 0, 0},
		DiffuseColor:    color,
	}
}
