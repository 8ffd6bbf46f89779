package math3d

import "math"

// SingularEpsilon bounds |det| relative to the product of the column lengths.
// Systems at or below it are singular; a ray parallel to a triangle's plane
// lands here.
const SingularEpsilon = 1e-12

// Mat3 is a 3x3 matrix stored in row-major order.
//
// Memory layout (indices):
// | 0 1 2 |
// | 3 4 5 |
// | 6 7 8 |
type Mat3 [9]float64

// Mat3FromColumns builds a matrix whose columns are a, b and c.
func Mat3FromColumns(a, b, c Vec3) Mat3 {
	return Mat3{
		a.X, b.X, c.X,
		a.Y, b.Y, c.Y,
		a.Z, b.Z, c.Z,
	}
}

// RotateY3 creates a rotation about the Y axis by angle radians.
// Positive angles turn +Z toward -X, which orbits a camera looking down +Z
// to its left.
func RotateY3(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}
}

// WithColumn returns a copy of m with column i replaced by v.
func (m Mat3) WithColumn(i int, v Vec3) Mat3 {
	m[i], m[3+i], m[6+i] = v.X, v.Y, v.Z
	return m
}

// Determinant returns the determinant by cofactor expansion along the first row.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// SolveCramer solves x·a + y·b + z·c = rhs for (x, y, z) using Cramer's rule:
// the main determinant is computed once and each unknown is the determinant
// of the matrix with its column swapped for rhs, divided by it.
// It returns false when the system is singular, that is when
// |det| <= SingularEpsilon·|a|·|b|·|c|.
func SolveCramer(a, b, c, rhs Vec3) (Vec3, bool) {
	m := Mat3FromColumns(a, b, c)
	det := m.Determinant()
	if math.Abs(det) <= SingularEpsilon*a.Len()*b.Len()*c.Len() {
		return Vec3{}, false
	}
	return Vec3{
		m.WithColumn(0, rhs).Determinant() / det,
		m.WithColumn(1, rhs).Determinant() / det,
		m.WithColumn(2, rhs).Determinant() / det,
	}, true
}
