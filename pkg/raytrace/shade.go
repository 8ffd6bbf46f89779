package raytrace

import (
	"math"

	"github.com/taigrr/lumen/pkg/render"
)

// Shade returns the color seen along ray, following at most bounces mirror
// reflections. Rays that hit nothing are black.
func (r *Raytracer) Shade(ray Ray, bounces int) render.Color {
	return r.shade(ray, bounces, 0)
}

func (r *Raytracer) shade(ray Ray, bounces int, tMin float64) render.Color {
	hit, ok := nearest(r.scene, ray, tMin)
	if !ok {
		return render.Black
	}
	mat := r.scene.Material(hit.Material)
	view := ray.Origin.Sub(hit.Point).Normalize()

	var diffuse, specular float64
	for _, light := range r.lights {
		il := light.Illuminate(hit.Point, hit.Normal)
		if Occluded(r.scene, Ray{hit.Point, il.ToLight}, il.ShadowMax) {
			continue
		}
		diffuse += il.Irradiance * max(0, hit.Normal.Dot(il.Dir))
		if mat.Gloss != 0 {
			h := view.Add(il.Dir).Normalize()
			specular += il.Irradiance * mat.Gloss * math.Pow(max(0, hit.Normal.Dot(h)), mat.Shininess)
		}
	}

	color := mat.Color.Scale(r.scene.Ambient + diffuse).Add(render.White.Scale(specular))

	if bounces > 0 && mat.Mirror > 0 {
		reflected := Ray{hit.Point, ray.Direction.Reflect(hit.Normal)}
		color = color.Add(r.shade(reflected, bounces-1, ShadowEpsilon).Scale(mat.Mirror))
	}
	return color
}
