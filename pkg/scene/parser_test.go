package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/render"
)

func TestParseFile(t *testing.T) {
	s, err := ParseFile(filepath.Join("testdata", "spheres.scene"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if s.Ambient != 0.1 || s.FocalLength != 1.5 {
		t.Errorf("globals = %v/%v", s.Ambient, s.FocalLength)
	}
	if len(s.Materials) != 3 || len(s.Spheres) != 2 || len(s.Triangles) != 2 || len(s.PointLights) != 2 {
		t.Fatalf("counts: materials=%d spheres=%d triangles=%d lights=%d",
			len(s.Materials), len(s.Spheres), len(s.Triangles), len(s.PointLights))
	}
	if s.Directional == nil || s.Directional.Direction != math3d.V3(0, -1, 1) || s.Directional.Intensity != 0.4 {
		t.Errorf("directional = %+v", s.Directional)
	}
	if s.PointLights[1].Position != math3d.V3(-4, 3, 2) {
		t.Errorf("light 1 = %+v", s.PointLights[1])
	}

	white := s.Material(s.Spheres[0].Material)
	if white.Name != "white" || white.Color != render.White || white.Gloss != 0.5 || white.Shininess != 32 {
		t.Errorf("white = %+v", white)
	}
	if m := s.Material(s.Triangles[0].Material); m.Name != "mirror" || m.Mirror != 0.6 {
		t.Errorf("floor material = %+v", m)
	}
	if s.Spheres[1].Center != math3d.V3(-1.5, -0.5, 6) || s.Spheres[1].Radius != 0.5 {
		t.Errorf("sphere 1 = %+v", s.Spheres[1])
	}
}

func TestParseStatements(t *testing.T) {
	src := `
# forward reference: the sphere names a material defined later
sphere ->center:(0, 0, -3.5) radius:2 $mat:"glass ball"
material $name:"glass ball" ->col:(+0.5,1e-1,0) gloss:1 p:8

   triangle ->p0:(0,0,5) ->p1:( 1 , 0 , 5 ) ->p2:(0,1,5) $mat:"glass ball"
`
	s, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Ambient != DefaultAmbient || s.FocalLength != DefaultFocalLength {
		t.Errorf("defaults not applied: %v/%v", s.Ambient, s.FocalLength)
	}
	if s.Spheres[0].Center != math3d.V3(0, 0, -3.5) {
		t.Errorf("signed center = %v", s.Spheres[0].Center)
	}
	m := s.Material(s.Spheres[0].Material)
	if m.Name != "glass ball" || m.Color != render.C(0.5, 0.1, 0) {
		t.Errorf("material = %+v", m)
	}
	if s.Triangles[0].P1 != math3d.V3(1, 0, 5) {
		t.Errorf("spaced vector = %v", s.Triangles[0].P1)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line string
	}{
		{"unknown object", "cube ->center:(0,0,0)", ErrUnknownObject, "line 1"},
		{"unknown attribute", "global\nsphere ->center:(0,0,5) size:1", ErrUnknownAttribute, "line 2"},
		{"bad number", "global ambient:lots", ErrSyntax, "line 1"},
		{"short vector", "light ->pos:(1,2) i:5", ErrSyntax, "line 1"},
		{"vector without parens", "light ->pos:1,2,3 i:5", ErrSyntax, "line 1"},
		{"unquoted string", "material $name:white", ErrSyntax, "line 1"},
		{"stray token", "light oops ->pos:(0,0,0)", ErrSyntax, "line 1"},
		{"mesh without file", "mesh size:2", ErrSyntax, "line 1"},
		{"unresolved material", `sphere ->center:(0,0,5) radius:1 $mat:"ghost"`, ErrUnresolvedMaterial, "sphere 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.src))
			if !errors.Is(err, tc.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tc.want)
			}
			if !strings.Contains(err.Error(), tc.line) {
				t.Errorf("error %q does not mention %q", err, tc.line)
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.scene"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile() error = %v, want not-exist", err)
	}
}

func TestParseMesh(t *testing.T) {
	dir := t.TempDir()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {4, 0, 0}, {0, 4, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	if err := gltf.SaveBinary(doc, filepath.Join(dir, "tri.glb")); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	src := `material $name:"clay" ->col:(0.8,0.5,0.3)
mesh $file:"tri.glb" $mat:"clay" ->center:(0,0,6) size:2
mesh $file:"tri.glb"
`
	path := filepath.Join(dir, "mesh.scene")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(s.Triangles) != 2 {
		t.Fatalf("triangles = %d, want 2", len(s.Triangles))
	}

	placed := s.Triangles[0]
	if s.Material(placed.Material).Name != "clay" {
		t.Errorf("override material = %q", s.Material(placed.Material).Name)
	}
	if !placed.P0.ApproxEqual(math3d.V3(-1, -1, 6), 1e-6) || !placed.P1.ApproxEqual(math3d.V3(1, -1, 6), 1e-6) {
		t.Errorf("placed triangle = %+v", placed)
	}

	raw := s.Triangles[1]
	if s.Material(raw.Material).Name != DefaultMeshMaterial {
		t.Errorf("default material = %q", s.Material(raw.Material).Name)
	}
	if !raw.P1.ApproxEqual(math3d.V3(4, 0, 0), 1e-6) {
		t.Errorf("authored triangle = %+v", raw)
	}
}

func TestParseMeshMissingFile(t *testing.T) {
	p := NewParser()
	p.BaseDir = t.TempDir()
	_, err := p.Parse(strings.NewReader(`mesh $file:"missing.glb"`))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("Parse() error = %v, want line 1 mesh error", err)
	}
}
