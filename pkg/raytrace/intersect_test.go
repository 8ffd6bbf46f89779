package raytrace

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/scene"
)

const eps = 1e-9

func unitTriangle() scene.Triangle {
	return scene.Triangle{
		P0: math3d.V3(0, 0, 5),
		P1: math3d.V3(1, 0, 5),
		P2: math3d.V3(0, 1, 5),
	}
}

func TestHitSphere(t *testing.T) {
	sp := &scene.Sphere{Center: math3d.V3(0, 0, 5), Radius: 1}

	tests := []struct {
		name       string
		ray        Ray
		tMin, tMax float64
		wantT      float64
		wantHit    bool
	}{
		{"toward center", Ray{math3d.Zero3(), math3d.V3(0, 0, 1)}, 0, math.Inf(1), 4, true},
		{"unnormalized direction", Ray{math3d.Zero3(), math3d.V3(0, 0, 2)}, 0, math.Inf(1), 2, true},
		{"away", Ray{math3d.Zero3(), math3d.V3(0, 0, -1)}, 0, math.Inf(1), 0, false},
		{"passes beside", Ray{math3d.V3(1.5, 0, 0), math3d.V3(0, 0, 1)}, 0, math.Inf(1), 0, false},
		{"tangent", Ray{math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)}, 0, math.Inf(1), 5, true},
		{"beyond tMax", Ray{math3d.Zero3(), math3d.V3(0, 0, 1)}, 0, 4, 0, false},
		{"before tMin", Ray{math3d.Zero3(), math3d.V3(0, 0, 1)}, 4.5, math.Inf(1), 0, false},
		{"zero direction", Ray{math3d.Zero3(), math3d.Zero3()}, 0, math.Inf(1), 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := HitSphere(tc.ray, sp, tc.tMin, tc.tMax)
			if ok != tc.wantHit {
				t.Fatalf("HitSphere() hit = %v, want %v", ok, tc.wantHit)
			}
			if ok && math.Abs(got-tc.wantT) > eps {
				t.Errorf("HitSphere() t = %v, want %v", got, tc.wantT)
			}
		})
	}
}

func TestHitSphereDistanceMinusRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := range 100 {
		center := math3d.V3(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20+5)
		radius := 0.1 + rng.Float64()*2
		sp := &scene.Sphere{Center: center, Radius: radius}
		ray := Ray{math3d.Zero3(), center.Normalize()}

		got, ok := HitSphere(ray, sp, 0, math.Inf(1))
		if !ok {
			t.Fatalf("case %d: missed sphere at %v", i, center)
		}
		if want := center.Len() - radius; math.Abs(got-want) > 1e-6 {
			t.Errorf("case %d: t = %v, want %v", i, got, want)
		}
	}
}

func TestHitTriangleScenario(t *testing.T) {
	tri := unitTriangle()
	target := math3d.V3(0.25, 0.25, 5)
	ray := Ray{math3d.Zero3(), target.Normalize()}

	h, ok := HitTriangle(ray, &tri, 0, math.Inf(1))
	if !ok {
		t.Fatal("HitTriangle() missed")
	}
	if math.Abs(h.T-target.Len()) > eps {
		t.Errorf("t = %v, want %v", h.T, target.Len())
	}
	if math.Abs(h.T-5.0125) > 1e-3 {
		t.Errorf("t = %v, want ≈5.0125", h.T)
	}
	if h.Beta <= 0 || h.Beta >= 1 || h.Gamma <= 0 || h.Gamma >= 1 || h.Beta+h.Gamma >= 1 {
		t.Errorf("barycentrics out of range: β=%v γ=%v", h.Beta, h.Gamma)
	}
	if math.Abs(h.Beta-0.25) > eps || math.Abs(h.Gamma-0.25) > eps {
		t.Errorf("β=%v γ=%v, want 0.25 each", h.Beta, h.Gamma)
	}
}

func TestHitTriangleBoundaries(t *testing.T) {
	tri := unitTriangle()
	const tiny = 1e-9

	tests := []struct {
		name    string
		x, y    float64
		wantHit bool
	}{
		{"gamma zero", 0.5, 0, true},
		{"gamma one", 0, 1, true},
		{"beta plus gamma one", 0.5, 0.5, true},
		{"vertex p0", 0, 0, true},
		{"beta negative", -tiny, 0.5, false},
		{"gamma negative", 0.5, -tiny, false},
		{"beyond hypotenuse", 0.5, 0.5 + 1e-6, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ray := Ray{math3d.V3(tc.x, tc.y, 0), math3d.V3(0, 0, 1)}
			h, ok := HitTriangle(ray, &tri, 0, math.Inf(1))
			if ok != tc.wantHit {
				t.Fatalf("HitTriangle() hit = %v, want %v (%+v)", ok, tc.wantHit, h)
			}
			if ok && math.Abs(h.T-5) > eps {
				t.Errorf("t = %v, want 5", h.T)
			}
		})
	}
}

func TestHitTriangleRejects(t *testing.T) {
	tri := unitTriangle()
	tests := []struct {
		name string
		ray  Ray
		tMax float64
	}{
		{"parallel to plane", Ray{math3d.V3(0.2, 0.2, 0), math3d.V3(1, 0, 0)}, math.Inf(1)},
		{"behind origin", Ray{math3d.V3(0.2, 0.2, 10), math3d.V3(0, 0, 1)}, math.Inf(1)},
		{"past tMax", Ray{math3d.V3(0.2, 0.2, 0), math3d.V3(0, 0, 1)}, 5},
		{"zero direction", Ray{math3d.V3(0.2, 0.2, 0), math3d.Zero3()}, math.Inf(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := HitTriangle(tc.ray, &tri, 0, tc.tMax); ok {
				t.Error("HitTriangle() hit, want miss")
			}
		})
	}
}

func TestHitTriangleVertexOrderInvariant(t *testing.T) {
	p := [3]math3d.Vec3{math3d.V3(-1, -1, 4), math3d.V3(2, -0.5, 6), math3d.V3(0, 2, 5)}
	orders := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	rng := rand.New(rand.NewSource(42))
	for i := range 200 {
		dir := math3d.V3(rng.Float64()*2-1, rng.Float64()*2-1, 1)
		ray := Ray{math3d.Zero3(), dir}

		ref := scene.Triangle{P0: p[0], P1: p[1], P2: p[2]}
		want, wantOK := HitTriangle(ray, &ref, 0, math.Inf(1))
		for _, o := range orders {
			tri := scene.Triangle{P0: p[o[0]], P1: p[o[1]], P2: p[o[2]]}
			got, ok := HitTriangle(ray, &tri, 0, math.Inf(1))
			if ok != wantOK {
				// Rays grazing an edge may legitimately flip; skip them.
				if math.Min(want.Beta, want.Gamma) < 1e-9 || math.Abs(1-want.Beta-want.Gamma) < 1e-9 {
					continue
				}
				t.Fatalf("ray %d order %v: hit = %v, want %v", i, o, ok, wantOK)
			}
			if ok && math.Abs(got.T-want.T) > 1e-9 {
				t.Errorf("ray %d order %v: t = %v, want %v", i, o, got.T, want.T)
			}
			if ok {
				n := TriangleNormal(&tri, dir)
				if n.Dot(dir) > 0 {
					t.Errorf("ray %d order %v: normal %v faces away from the ray", i, o, n)
				}
			}
		}
	}
}

func testScene() *scene.Scene {
	return &scene.Scene{
		Ambient:     0.1,
		FocalLength: 1,
		Materials:   []scene.Material{{Name: "white"}},
		Spheres: []scene.Sphere{
			{Center: math3d.V3(0, 0, 5), Radius: 1},
			{Center: math3d.V3(3, 1, 8), Radius: 1.5},
			{Center: math3d.V3(-2, -2, 6), Radius: 0.5},
		},
		Triangles: []scene.Triangle{
			{P0: math3d.V3(-4, -3, 10), P1: math3d.V3(4, -3, 10), P2: math3d.V3(0, 4, 10)},
			{P0: math3d.V3(-10, -2, 2), P1: math3d.V3(10, -2, 2), P2: math3d.V3(0, -2, 20)},
		},
	}
}

func TestNearest(t *testing.T) {
	s := testScene()

	t.Run("sphere in front of triangle", func(t *testing.T) {
		hit, ok := Nearest(s, Ray{math3d.Zero3(), math3d.V3(0, 0, 1)})
		if !ok {
			t.Fatal("Nearest() missed")
		}
		if math.Abs(hit.T-4) > eps {
			t.Errorf("T = %v, want 4", hit.T)
		}
		if !hit.Normal.ApproxEqual(math3d.V3(0, 0, -1), eps) {
			t.Errorf("Normal = %v, want (0,0,-1)", hit.Normal)
		}
		if !hit.Point.ApproxEqual(math3d.V3(0, 0, 4), eps) {
			t.Errorf("Point = %v", hit.Point)
		}
	})

	t.Run("triangle", func(t *testing.T) {
		hit, ok := Nearest(s, Ray{math3d.Zero3(), math3d.V3(0, 0.3, 1)})
		if !ok {
			t.Fatal("Nearest() missed")
		}
		if math.Abs(hit.T-10) > eps {
			t.Errorf("T = %v, want 10", hit.T)
		}
		// The normal faces the ray whatever the winding.
		if hit.Normal.Dot(math3d.V3(0, 0.3, 1)) >= 0 {
			t.Errorf("Normal = %v faces away", hit.Normal)
		}
	})

	t.Run("miss", func(t *testing.T) {
		if _, ok := Nearest(s, Ray{math3d.Zero3(), math3d.V3(0, 1, -1)}); ok {
			t.Error("Nearest() hit, want miss")
		}
	})

	t.Run("empty scene", func(t *testing.T) {
		if _, ok := Nearest(&scene.Scene{}, Ray{math3d.Zero3(), math3d.V3(0, 0, 1)}); ok {
			t.Error("Nearest() hit in an empty scene")
		}
	})
}

func TestNearestAndOccludedAgree(t *testing.T) {
	s := testScene()
	rng := rand.New(rand.NewSource(1))
	hits := 0
	for i := range 2000 {
		dir := math3d.V3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		ray := Ray{math3d.Zero3(), dir}
		_, near := Nearest(s, ray)
		occ := Occluded(s, ray, math.Inf(1))
		if near != occ {
			t.Fatalf("ray %d %v: Nearest = %v, Occluded = %v", i, dir, near, occ)
		}
		if near {
			hits++
		}
	}
	if hits == 0 {
		t.Fatal("no random ray hit anything")
	}
}

func TestOccludedRange(t *testing.T) {
	s := testScene()
	ray := Ray{math3d.Zero3(), math3d.V3(0, 0, 1)}

	if !Occluded(s, ray, math.Inf(1)) {
		t.Error("Occluded(inf) = false, want true")
	}
	if Occluded(s, ray, 4) {
		t.Error("Occluded(4) = true, want false: the sphere starts at t=4")
	}
	// A ray starting on a surface does not occlude itself.
	fromSurface := Ray{math3d.V3(0, 0, 4), math3d.V3(0, 5, -4)}
	if Occluded(s, fromSurface, 1) {
		t.Error("surface point shadowed by its own sphere")
	}
}
