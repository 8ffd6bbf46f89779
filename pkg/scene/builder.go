package scene

import (
	"fmt"
	"math"

	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/models"
	"github.com/taigrr/lumen/pkg/render"
)

// DefaultMeshMaterial names the matte gray material given to imported faces
// that carry no material of their own.
const DefaultMeshMaterial = "mesh-default"

// MeshOptions places an imported mesh in the scene.
type MeshOptions struct {
	// Material overrides every imported material when non-empty.
	Material string
	// Center is where the mesh's bounding box center ends up.
	Center math3d.Vec3
	// Size is the edge of the cube the mesh is scaled to fit. Zero keeps the
	// mesh at its authored scale.
	Size float64
	// Yaw turns the mesh about the vertical axis through its center, in
	// degrees.
	Yaw float64
}

type namedSphere struct {
	Sphere
	material string
}

type namedTriangle struct {
	Triangle
	material string
}

// Builder assembles a Scene from primitives that reference materials by
// name. Names are resolved once, in Build, against a lookup table that lives
// only for that call.
type Builder struct {
	ambient     float64
	focalLength float64
	directional *DirectionalLight
	lights      []PointLight
	materials   []Material
	spheres     []namedSphere
	triangles   []namedTriangle

	needsDefault bool
}

// NewBuilder creates a builder with the default ambient term and focal length.
func NewBuilder() *Builder {
	return &Builder{
		ambient:     DefaultAmbient,
		focalLength: DefaultFocalLength,
	}
}

// SetAmbient sets the ambient light term.
func (b *Builder) SetAmbient(ambient float64) *Builder {
	b.ambient = ambient
	return b
}

// SetFocalLength sets the camera distance to the image plane.
func (b *Builder) SetFocalLength(f float64) *Builder {
	b.focalLength = f
	return b
}

// SetDirectionalLight sets the scene's only directional light, replacing any
// previous one.
func (b *Builder) SetDirectionalLight(direction math3d.Vec3, intensity float64) *Builder {
	b.directional = &DirectionalLight{Direction: direction, Intensity: intensity}
	return b
}

// AddPointLight appends a point light.
func (b *Builder) AddPointLight(position math3d.Vec3, intensity float64) *Builder {
	b.lights = append(b.lights, PointLight{Position: position, Intensity: intensity})
	return b
}

// AddMaterial appends a material. A later material with the same name
// shadows an earlier one.
func (b *Builder) AddMaterial(m Material) *Builder {
	b.materials = append(b.materials, m)
	return b
}

// AddSphere appends a sphere using the named material.
func (b *Builder) AddSphere(center math3d.Vec3, radius float64, material string) *Builder {
	b.spheres = append(b.spheres, namedSphere{
		Sphere:   Sphere{Center: center, Radius: radius},
		material: material,
	})
	return b
}

// AddTriangle appends a triangle using the named material.
func (b *Builder) AddTriangle(p0, p1, p2 math3d.Vec3, material string) *Builder {
	b.triangles = append(b.triangles, namedTriangle{
		Triangle: Triangle{P0: p0, P1: p1, P2: p2},
		material: material,
	})
	return b
}

// AddMesh appends one triangle per mesh face. The mesh itself is not
// modified. Unless opts.Material is set, each imported material becomes a
// scene material named "<mesh>:<material>".
func (b *Builder) AddMesh(mesh *models.Mesh, opts MeshOptions) *Builder {
	placed := mesh.Clone()
	if opts.Size > 0 {
		placed.Transform(placed.FitTransform(opts.Center, opts.Size))
	}
	if opts.Yaw != 0 {
		c := placed.Center()
		placed.Transform(math3d.Translate(c).
			Mul(math3d.RotateY(opts.Yaw * math.Pi / 180)).
			Mul(math3d.Translate(c.Negate())))
	}

	names := make([]string, placed.MaterialCount())
	if opts.Material == "" {
		for i := range placed.Materials {
			m := placed.Materials[i]
			names[i] = placed.Name + ":" + m.Name
			b.AddMaterial(materialFromPBR(names[i], m))
		}
	}

	for i := range placed.Faces {
		name := opts.Material
		if name == "" {
			if mi := placed.GetFaceMaterial(i); mi >= 0 && mi < len(names) {
				name = names[mi]
			} else {
				name = DefaultMeshMaterial
				b.needsDefault = true
			}
		}
		p0, p1, p2 := placed.Triangle(i)
		b.AddTriangle(p0, p1, p2, name)
	}
	return b
}

// materialFromPBR approximates a metallic/roughness material with the
// Phong+mirror model: smooth surfaces get sharp, strong highlights and
// metals reflect.
func materialFromPBR(name string, m models.Material) Material {
	smooth := 1 - m.Roughness
	return Material{
		Name:      name,
		Color:     render.C(m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]),
		Gloss:     smooth,
		Shininess: 8 + 56*smooth,
		Mirror:    0.5 * m.Metallic,
	}
}

// Build resolves material names and returns the finished scene.
// Any primitive naming a material that was never added is an error
// wrapping ErrUnresolvedMaterial.
func (b *Builder) Build() (*Scene, error) {
	s := &Scene{
		Ambient:     b.ambient,
		FocalLength: b.focalLength,
		PointLights: append([]PointLight(nil), b.lights...),
		Materials:   append([]Material(nil), b.materials...),
	}
	if b.directional != nil {
		d := *b.directional
		s.Directional = &d
	}

	byName := make(map[string]int, len(s.Materials)+1)
	for i, m := range s.Materials {
		byName[m.Name] = i
	}
	if _, ok := byName[DefaultMeshMaterial]; b.needsDefault && !ok {
		byName[DefaultMeshMaterial] = len(s.Materials)
		s.Materials = append(s.Materials, Material{
			Name:      DefaultMeshMaterial,
			Color:     render.C(0.7, 0.7, 0.7),
			Gloss:     0.2,
			Shininess: 16,
		})
	}

	s.Spheres = make([]Sphere, len(b.spheres))
	for i, sp := range b.spheres {
		idx, ok := byName[sp.material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: material %q: %w", i, sp.material, ErrUnresolvedMaterial)
		}
		s.Spheres[i] = sp.Sphere
		s.Spheres[i].Material = idx
	}

	s.Triangles = make([]Triangle, len(b.triangles))
	for i, tri := range b.triangles {
		idx, ok := byName[tri.material]
		if !ok {
			return nil, fmt.Errorf("triangle %d: material %q: %w", i, tri.material, ErrUnresolvedMaterial)
		}
		s.Triangles[i] = tri.Triangle
		s.Triangles[i].Material = idx
	}

	return s, nil
}
