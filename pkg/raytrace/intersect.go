package raytrace

import (
	"math"

	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/scene"
)

// ShadowEpsilon is the lower bound of shadow and secondary ray intervals. It
// keeps a ray leaving a surface from hitting that surface again.
const ShadowEpsilon = 1e-4

// Hit describes the nearest intersection along a ray.
type Hit struct {
	T        float64
	Point    math3d.Vec3
	Normal   math3d.Vec3 // unit length, facing the incoming ray for triangles
	Material int
}

// TriangleHit holds the ray parameter and barycentric weights of a triangle
// intersection: Beta weights P1 and Gamma weights P2.
type TriangleHit struct {
	T     float64
	Beta  float64
	Gamma float64
}

// HitSphere intersects ray with s and returns the smaller root of the
// quadratic if it lies in [tMin, tMax).
func HitSphere(ray Ray, s *scene.Sphere, tMin, tMax float64) (float64, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return 0, false
	}
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t < tMin || t >= tMax {
		return 0, false
	}
	return t, true
}

// HitTriangle intersects ray with tri by solving
// β(p0−p1) + γ(p0−p2) + tD = p0 − O with Cramer's rule.
func HitTriangle(ray Ray, tri *scene.Triangle, tMin, tMax float64) (TriangleHit, bool) {
	sol, ok := math3d.SolveCramer(
		tri.P0.Sub(tri.P1),
		tri.P0.Sub(tri.P2),
		ray.Direction,
		tri.P0.Sub(ray.Origin),
	)
	if !ok {
		return TriangleHit{}, false
	}
	beta, gamma, t := sol.X, sol.Y, sol.Z
	if t < tMin || t >= tMax {
		return TriangleHit{}, false
	}
	if gamma < 0 || gamma > 1 {
		return TriangleHit{}, false
	}
	if beta < 0 || beta > 1-gamma {
		return TriangleHit{}, false
	}
	return TriangleHit{T: t, Beta: beta, Gamma: gamma}, true
}

// TriangleNormal returns the unit normal of tri oriented against dir.
func TriangleNormal(tri *scene.Triangle, dir math3d.Vec3) math3d.Vec3 {
	n := tri.P1.Sub(tri.P0).Cross(tri.P2.Sub(tri.P0)).Normalize()
	if n.Dot(dir) > 0 {
		return n.Negate()
	}
	return n
}

// Nearest returns the closest intersection of ray with any primitive in s,
// searching t in [0, +∞).
func Nearest(s *scene.Scene, ray Ray) (Hit, bool) {
	return nearest(s, ray, 0)
}

func nearest(s *scene.Scene, ray Ray, tMin float64) (Hit, bool) {
	best := math.Inf(1)
	sphere, triangle := -1, -1

	for i := range s.Spheres {
		if t, ok := HitSphere(ray, &s.Spheres[i], tMin, best); ok {
			best, sphere = t, i
		}
	}
	for i := range s.Triangles {
		if h, ok := HitTriangle(ray, &s.Triangles[i], tMin, best); ok {
			best, triangle = h.T, i
		}
	}

	switch {
	case triangle >= 0:
		tri := &s.Triangles[triangle]
		return Hit{
			T:        best,
			Point:    ray.At(best),
			Normal:   TriangleNormal(tri, ray.Direction),
			Material: tri.Material,
		}, true
	case sphere >= 0:
		sp := &s.Spheres[sphere]
		p := ray.At(best)
		return Hit{
			T:        best,
			Point:    p,
			Normal:   p.Sub(sp.Center).Normalize(),
			Material: sp.Material,
		}, true
	}
	return Hit{}, false
}

// Occluded reports whether any primitive intersects ray with t in
// [ShadowEpsilon, tMax). It returns on the first hit found.
func Occluded(s *scene.Scene, ray Ray, tMax float64) bool {
	for i := range s.Spheres {
		if _, ok := HitSphere(ray, &s.Spheres[i], ShadowEpsilon, tMax); ok {
			return true
		}
	}
	for i := range s.Triangles {
		if _, ok := HitTriangle(ray, &s.Triangles[i], ShadowEpsilon, tMax); ok {
			return true
		}
	}
	return false
}
