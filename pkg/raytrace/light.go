package raytrace

import (
	"math"

	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/scene"
)

// Illumination is what a light delivers to one surface point.
type Illumination struct {
	ToLight    math3d.Vec3 // shadow ray direction, not normalized
	Dir        math3d.Vec3 // unit vector toward the light
	Irradiance float64
	ShadowMax  float64 // upper bound of the shadow ray interval
}

// Light is a light source the shader can query uniformly.
type Light interface {
	Illuminate(point, normal math3d.Vec3) Illumination
}

type pointLight struct {
	scene.PointLight
}

// Illuminate applies inverse-square falloff. The shadow ray spans exactly
// the segment to the light.
func (l pointLight) Illuminate(point, _ math3d.Vec3) Illumination {
	toLight := l.Position.Sub(point)
	d2 := toLight.LenSq()
	irr := 0.0
	if d2 > 0 {
		irr = l.Intensity / d2
	}
	return Illumination{
		ToLight:    toLight,
		Dir:        toLight.Normalize(),
		Irradiance: irr,
		ShadowMax:  1,
	}
}

type directionalLight struct {
	scene.DirectionalLight
}

// Illuminate has no falloff; irradiance is I·(n·L) and goes negative when the
// light is below the surface.
func (l directionalLight) Illuminate(_, normal math3d.Vec3) Illumination {
	toLight := l.Direction.Negate()
	dir := toLight.Normalize()
	return Illumination{
		ToLight:    toLight,
		Dir:        dir,
		Irradiance: l.Intensity * normal.Dot(dir),
		ShadowMax:  math.Inf(1),
	}
}

// Lights returns the scene's lights in shading order: point lights as
// declared, then the directional light if present.
func Lights(s *scene.Scene) []Light {
	lights := make([]Light, 0, s.LightCount())
	for _, pl := range s.PointLights {
		lights = append(lights, pointLight{pl})
	}
	if s.Directional != nil {
		lights = append(lights, directionalLight{*s.Directional})
	}
	return lights
}
