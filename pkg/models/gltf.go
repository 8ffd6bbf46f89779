package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/lumen/pkg/math3d"
)

// ErrNoGeometry is returned when a glTF document holds no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// ImportMaterials copies the document's PBR materials onto the mesh.
	// When false every face gets material -1.
	ImportMaterials bool

	// SkipDegenerate drops faces with zero area. The ray tracer treats them
	// as misses anyway; dropping them saves intersection tests.
	SkipDegenerate bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		ImportMaterials: true,
		SkipDegenerate:  true,
	}
}

// LoadGLB loads a binary GLTF (.glb) or JSON GLTF file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
// External buffers are resolved relative to path by the gltf package.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.FromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return mesh, nil
}

// FromDocument converts an already decoded document into a Mesh.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	if l.ImportMaterials {
		for i, m := range doc.Materials {
			mesh.Materials = append(mesh.Materials, convertMaterial(i, m))
		}
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// convertMaterial maps a glTF material onto the factors lumen shades with.
func convertMaterial(i int, m *gltf.Material) Material {
	mat := Material{
		Name:      m.Name,
		BaseColor: [4]float64{1, 1, 1, 1},
		Metallic:  1,
		Roughness: 1,
	}
	if mat.Name == "" {
		mat.Name = fmt.Sprintf("material%d", i)
	}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		mat.BaseColor = pbr.BaseColorFactorOrDefault()
		mat.Metallic = pbr.MetallicFactorOrDefault()
		mat.Roughness = pbr.RoughnessFactorOrDefault()
	}
	return mat
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines, points and strips carry no surfaces we can trace
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		material := -1
		if l.ImportMaterials && prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		// Base vertex index for this primitive
		baseVertex := len(mesh.Vertices)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// Winding is kept as authored: the tracer orients triangle normals
		// toward the incoming ray.
		for i := 0; i+2 < len(indices); i += 3 {
			face := Face{
				V: [3]int{
					baseVertex + int(indices[i]),
					baseVertex + int(indices[i+1]),
					baseVertex + int(indices[i+2]),
				},
				Material: material,
			}
			if err := checkFace(face, len(mesh.Vertices)); err != nil {
				return err
			}
			if l.SkipDegenerate && isDegenerate(mesh, face) {
				continue
			}
			mesh.Faces = append(mesh.Faces, face)
		}
	}

	return nil
}

func checkFace(f Face, vertexCount int) error {
	for _, v := range f.V {
		if v < 0 || v >= vertexCount {
			return fmt.Errorf("index %d out of range (%d vertices)", v, vertexCount)
		}
	}
	return nil
}

func isDegenerate(m *Mesh, f Face) bool {
	p0, p1, p2 := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
	return p1.Sub(p0).Cross(p2.Sub(p0)).LenSq() == 0
}
