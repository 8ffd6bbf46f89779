// Package scene holds the read-only description of what lumen renders:
// materials, spheres, triangles and lights.
//
// A Scene is an arena of value records. Primitives reference their material
// by index into Scene.Materials, so a built Scene can be shared by any number
// of concurrent ray evaluations without locking.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/render"
)

// ErrUnresolvedMaterial marks a primitive whose material does not exist.
var ErrUnresolvedMaterial = errors.New("unresolved material")

// Defaults used when a scene file omits the global statement.
const (
	DefaultAmbient     = 0.1
	DefaultFocalLength = 1.0
)

// Material describes how a surface responds to light.
type Material struct {
	Name      string
	Color     render.Color
	Gloss     float64 // specular intensity coefficient
	Shininess float64 // specular exponent p
	Mirror    float64 // reflected contribution, 0 = not reflective
}

// Sphere is a sphere primitive.
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	Material int // index into Scene.Materials
}

// Triangle is a triangle primitive. Vertex order carries no facing.
type Triangle struct {
	P0, P1, P2 math3d.Vec3
	Material   int // index into Scene.Materials
}

// PointLight radiates Intensity/d² in every direction.
type PointLight struct {
	Position  math3d.Vec3
	Intensity float64
}

// DirectionalLight is a light at infinity. Direction points from the light
// toward the scene; Intensity is used without falloff.
type DirectionalLight struct {
	Direction math3d.Vec3
	Intensity float64
}

// Scene is everything a render pass reads. Treat it as immutable once built.
type Scene struct {
	Ambient     float64
	FocalLength float64

	Directional *DirectionalLight // optional, at most one
	PointLights []PointLight
	Triangles   []Triangle
	Spheres     []Sphere
	Materials   []Material
}

// Material returns the material at index i.
// It panics on an out-of-range index; Validate rules that out.
func (s *Scene) Material(i int) *Material {
	return &s.Materials[i]
}

// PrimitiveCount returns the number of spheres plus triangles.
func (s *Scene) PrimitiveCount() int {
	return len(s.Spheres) + len(s.Triangles)
}

// LightCount returns the number of lights including the directional one.
func (s *Scene) LightCount() int {
	n := len(s.PointLights)
	if s.Directional != nil {
		n++
	}
	return n
}

// Validate checks that every primitive references an existing material.
func (s *Scene) Validate() error {
	for i, sp := range s.Spheres {
		if sp.Material < 0 || sp.Material >= len(s.Materials) {
			return fmt.Errorf("sphere %d: material index %d: %w", i, sp.Material, ErrUnresolvedMaterial)
		}
	}
	for i, tri := range s.Triangles {
		if tri.Material < 0 || tri.Material >= len(s.Materials) {
			return fmt.Errorf("triangle %d: material index %d: %w", i, tri.Material, ErrUnresolvedMaterial)
		}
	}
	return nil
}
