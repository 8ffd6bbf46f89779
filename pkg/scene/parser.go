package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/models"
	"github.com/taigrr/lumen/pkg/render"
)

// Parse errors. Every error returned by the parser wraps one of these (or
// ErrUnresolvedMaterial, or a mesh loading error) together with the line.
var (
	ErrSyntax           = errors.New("syntax error")
	ErrUnknownObject    = errors.New("unknown object type")
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// attributeStart matches the beginning of a numeric (name:), vector (->name:)
// or string ($name:) attribute.
var attributeStart = regexp.MustCompile(`^(\$|->)?[_a-zA-Z][_a-zA-Z0-9]*:`)

// objectAttributes lists the attributes each statement accepts.
var objectAttributes = map[string][]string{
	"global":    {"ambient", "focal_length"},
	"material":  {"$name", "->col", "gloss", "p", "mirror"},
	"light":     {"->pos", "i"},
	"direction": {"->d", "h"},
	"sphere":    {"->center", "radius", "$mat"},
	"triangle":  {"->p0", "->p1", "->p2", "$mat"},
	"mesh":      {"$file", "$mat", "->center", "size", "yaw"},
}

// Parser reads lumen's line-oriented scene format:
//
//	# comment
//	global ambient:0.1 focal_length:1
//	material $name:"white" ->col:(1,1,1) gloss:0.5 p:32 mirror:0.2
//	light ->pos:(0,5,0) i:50
//	direction ->d:(0,-1,1) h:0.8
//	sphere ->center:(0,0,5) radius:1 $mat:"white"
//	triangle ->p0:(0,0,5) ->p1:(1,0,5) ->p2:(0,1,5) $mat:"white"
//	mesh $file:"teapot.glb" ->center:(0,0,6) size:2 yaw:30
//
// Materials may be referenced before they are defined.
type Parser struct {
	// BaseDir resolves relative mesh paths. ParseFile sets it to the
	// scene file's directory.
	BaseDir string
	// Loader imports mesh statements.
	Loader *models.GLTFLoader
}

// NewParser creates a parser resolving meshes relative to the working directory.
func NewParser() *Parser {
	return &Parser{
		BaseDir: ".",
		Loader:  models.NewGLTFLoader(),
	}
}

// ParseFile parses the scene file at path with a default parser.
func ParseFile(path string) (*Scene, error) {
	return NewParser().ParseFile(path)
}

// Parse parses a scene from r with a default parser.
func Parse(r io.Reader) (*Scene, error) {
	return NewParser().Parse(r)
}

// ParseFile parses the scene file at path. Mesh paths inside it are
// resolved relative to the file.
func (p *Parser) ParseFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	fp := *p
	fp.BaseDir = filepath.Dir(path)
	s, err := fp.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse reads statements from r and builds the scene.
func (p *Parser) Parse(r io.Reader) (*Scene, error) {
	b := NewBuilder()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := p.parseLine(b, text); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return b.Build()
}

func (p *Parser) parseLine(b *Builder, text string) error {
	tokens := strings.Fields(text)
	kind := tokens[0]
	allowed, ok := objectAttributes[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownObject, kind)
	}

	raw, err := joinAttributes(tokens[1:])
	if err != nil {
		return err
	}
	f, err := newFields(kind, raw, allowed)
	if err != nil {
		return err
	}

	switch kind {
	case "global":
		if f.has("ambient") {
			b.SetAmbient(f.num("ambient", 0))
		}
		if f.has("focal_length") {
			b.SetFocalLength(f.num("focal_length", 0))
		}
	case "material":
		col := f.vec("->col", math3d.Zero3())
		b.AddMaterial(Material{
			Name:      f.str("$name", ""),
			Color:     render.C(col.X, col.Y, col.Z),
			Gloss:     f.num("gloss", 0),
			Shininess: f.num("p", 0),
			Mirror:    f.num("mirror", 0),
		})
	case "light":
		b.AddPointLight(f.vec("->pos", math3d.Zero3()), f.num("i", 0))
	case "direction":
		b.SetDirectionalLight(f.vec("->d", math3d.Zero3()), f.num("h", 0))
	case "sphere":
		b.AddSphere(f.vec("->center", math3d.Zero3()), f.num("radius", 0), f.str("$mat", ""))
	case "triangle":
		b.AddTriangle(
			f.vec("->p0", math3d.Zero3()),
			f.vec("->p1", math3d.Zero3()),
			f.vec("->p2", math3d.Zero3()),
			f.str("$mat", ""),
		)
	case "mesh":
		return p.parseMesh(b, f)
	}
	return f.err
}

func (p *Parser) parseMesh(b *Builder, f *fields) error {
	file := f.str("$file", "")
	opts := MeshOptions{
		Material: f.str("$mat", ""),
		Center:   f.vec("->center", math3d.Zero3()),
		Size:     f.num("size", 0),
		Yaw:      f.num("yaw", 0),
	}
	if f.err != nil {
		return f.err
	}
	if file == "" {
		return fmt.Errorf("%w: mesh needs $file", ErrSyntax)
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(p.BaseDir, file)
	}

	loader := p.Loader
	if loader == nil {
		loader = models.NewGLTFLoader()
	}
	mesh, err := loader.Load(file)
	if err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	b.AddMesh(mesh, opts)
	return nil
}

// joinAttributes groups whitespace-separated tokens into attributes: a
// token that does not start a new attribute continues the previous one, so
// "->p0:(1, 2, 3)" survives the split.
func joinAttributes(tokens []string) ([]string, error) {
	var attrs []string
	for _, tok := range tokens {
		if attributeStart.MatchString(tok) {
			attrs = append(attrs, tok)
			continue
		}
		if len(attrs) == 0 {
			return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, tok)
		}
		attrs[len(attrs)-1] += " " + tok
	}
	return attrs, nil
}

// fields holds one statement's attributes by name. The first decoding error
// sticks in err and later lookups return their defaults.
type fields struct {
	kind  string
	attrs map[string]string
	err   error
}

func newFields(kind string, raw, allowed []string) (*fields, error) {
	f := &fields{kind: kind, attrs: make(map[string]string, len(raw))}
	for _, a := range raw {
		name, value, _ := strings.Cut(a, ":")
		known := false
		for _, n := range allowed {
			if n == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %s %q", ErrUnknownAttribute, kind, name)
		}
		f.attrs[name] = value
	}
	return f, nil
}

func (f *fields) has(name string) bool {
	_, ok := f.attrs[name]
	return ok
}

func (f *fields) fail(name, value string) {
	if f.err == nil {
		f.err = fmt.Errorf("%w: %s %s:%s", ErrSyntax, f.kind, name, value)
	}
}

func (f *fields) num(name string, def float64) float64 {
	value, ok := f.attrs[name]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		f.fail(name, value)
		return def
	}
	return v
}

func (f *fields) vec(name string, def math3d.Vec3) math3d.Vec3 {
	value, ok := f.attrs[name]
	if !ok {
		return def
	}
	inner, ok := strings.CutPrefix(strings.TrimSpace(value), "(")
	if ok {
		inner, ok = strings.CutSuffix(inner, ")")
	}
	parts := strings.Split(inner, ",")
	if !ok || len(parts) != 3 {
		f.fail(name, value)
		return def
	}
	var xyz [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			f.fail(name, value)
			return def
		}
		xyz[i] = v
	}
	return math3d.V3(xyz[0], xyz[1], xyz[2])
}

func (f *fields) str(name, def string) string {
	value, ok := f.attrs[name]
	if !ok {
		return def
	}
	value = strings.TrimSpace(value)
	if len(value) < 2 || !strings.HasPrefix(value, `"`) || !strings.HasSuffix(value, `"`) {
		f.fail(name, value)
		return def
	}
	return value[1 : len(value)-1]
}
