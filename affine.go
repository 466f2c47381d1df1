package cellmap

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// affine2 is a 2D affine transform stored as the top two rows of its 3x3
// matrix, row-major:
//
//	[ m0 m1 m2 ]
//	[ m3 m4 m5 ]
type affine2 struct {
	m [6]float64
}

// newToParent composes the map-frame to parent-frame transform as
// Isometry(position, rotation) * Scale(cellSize). Scale is applied first so
// the translation and rotation, which are expressed in parent units, are not
// themselves scaled.
func newToParent(position r2.Vec, rotationRad float64, cellSize r2.Vec) affine2 {
	c := math.Cos(rotationRad)
	s := math.Sin(rotationRad)
	return affine2{m: [6]float64{
		c * cellSize.X, -s * cellSize.Y, position.X,
		s * cellSize.X, c * cellSize.Y, position.Y,
	}}
}

// apply transforms the point p.
func (a affine2) apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: a.m[0]*p.X + a.m[1]*p.Y + a.m[2],
		Y: a.m[3]*p.X + a.m[4]*p.Y + a.m[5],
	}
}

// inverse returns the inverse transform. The linear part of a map-to-parent
// transform is rotation*scale with non-zero cell sizes, so the determinant
// is non-zero for any usable map.
func (a affine2) inverse() affine2 {
	det := a.m[0]*a.m[4] - a.m[1]*a.m[3]
	i0 := a.m[4] / det
	i1 := -a.m[1] / det
	i3 := -a.m[3] / det
	i4 := a.m[0] / det
	return affine2{m: [6]float64{
		i0, i1, -(i0*a.m[2] + i1*a.m[5]),
		i3, i4, -(i3*a.m[2] + i4*a.m[5]),
	}}
}
