package render

import (
	"math"

	"github.com/taigrr/lumen/pkg/math3d"
)

// Camera is a pinhole camera. The image plane sits at z = FocalLength and
// spans x in [-1, 1]; the whole view is rotated about the world Y axis by
// Theta degrees.
type Camera struct {
	Origin      math3d.Vec3 // Eye position in world space
	Theta       float64     // Rotation about Y in degrees
	FocalLength float64     // Distance of the image plane; 0 means use the scene's
}

// NewCamera creates a camera at the world origin looking down +Z.
func NewCamera() *Camera {
	return &Camera{FocalLength: 1}
}

// SetOrigin sets the camera position.
func (c *Camera) SetOrigin(pos math3d.Vec3) {
	c.Origin = pos
}

// SetTheta sets the Y rotation in degrees.
func (c *Camera) SetTheta(deg float64) {
	c.Theta = deg
}

// Move translates the camera origin by delta.
func (c *Camera) Move(delta math3d.Vec3) {
	c.Origin = c.Origin.Add(delta)
}

// Rotation returns the Y rotation matrix for the current theta.
func (c *Camera) Rotation() math3d.Mat3 {
	return math3d.RotateY3(c.Theta * math.Pi / 180)
}

// Viewport precomputes everything needed to generate primary rays for a
// width×height frame. focal overrides the camera's focal length when the
// latter is unset.
func (c *Camera) Viewport(width, height int, focal float64) Viewport {
	if c.FocalLength > 0 {
		focal = c.FocalLength
	}
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height)
	}
	return Viewport{
		Origin: c.Origin,
		Width:  width,
		Height: height,
		Focal:  focal,
		Aspect: aspect,
		rot:    c.Rotation(),
	}
}

// Viewport maps pixel coordinates to primary rays for one frame.
type Viewport struct {
	Origin math3d.Vec3
	Width  int
	Height int
	Focal  float64
	Aspect float64

	rot math3d.Mat3
}

// Ray returns the origin and direction of the primary ray through pixel
// (x, y). Row 0 is the top of the image. The direction is not normalized.
func (v Viewport) Ray(x, y int) (origin, dir math3d.Vec3) {
	vx := -1 + 2*float64(x)/float64(v.Width)
	vy := (1 - 2*float64(y)/float64(v.Height)) / v.Aspect
	p := math3d.V3(vx, vy, v.Focal)
	return v.Origin, v.rot.MulVec3(p.Sub(v.Origin))
}
