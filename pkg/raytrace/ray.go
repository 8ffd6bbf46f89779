// Package raytrace is lumen's Whitted-style ray tracer: nearest-hit and
// shadow queries over a scene, Phong shading with hard shadows, bounded
// mirror recursion and the per-pixel frame driver.
package raytrace

import "github.com/taigrr/lumen/pkg/math3d"

// Ray is a half-line Origin + t·Direction. Direction need not be unit
// length; t is measured in multiples of it.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
