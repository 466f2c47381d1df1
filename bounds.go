package cellmap

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Index identifies a single cell on the two grid axes. Depending on context
// it is either a storage index (zero-based, row-major within a layer) or an
// absolute cell coordinate in bounds space, which may be negative. Functions
// that take or return absolute coordinates say so explicitly.
type Index struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Bounds is a half-open rectangular range of absolute cell coordinates,
// x0 <= v < x1 on the x axis and y0 <= v < y1 on the y axis. Coordinates may
// be negative. A bounds with x0 == x1 or y0 == y1 is valid and empty.
type Bounds struct {
	X0 int `json:"x0"`
	X1 int `json:"x1"`
	Y0 int `json:"y0"`
	Y1 int `json:"y1"`
}

// NewBounds builds a Bounds from already-ordered axis ranges. It returns an
// InvalidBoundsError if either axis has min > max.
func NewBounds(x0, x1, y0, y1 int) (Bounds, error) {
	b := Bounds{X0: x0, X1: x1, Y0: y0, Y1: y1}
	if !b.IsValid() {
		return Bounds{}, &InvalidBoundsError{Bounds: b}
	}
	return b, nil
}

// BoundsFromCorners returns the smallest bounds containing both corner
// cells, which may be given in any order. The result includes the cells at
// both corners, so the maxima are one past the larger coordinate.
func BoundsFromCorners(a, b Index) Bounds {
	return Bounds{
		X0: min(a.X, b.X),
		X1: max(a.X, b.X) + 1,
		Y0: min(a.Y, b.Y),
		Y1: max(a.Y, b.Y) + 1,
	}
}

// BoundsFromCornerPositions returns the bounds, in meta's cell-index space,
// of the rectangle spanned by two parent-frame positions. The positions may
// lie outside the map; the resulting bounds are not clipped.
func BoundsFromCornerPositions(meta Metadata, a, b r2.Vec) Bounds {
	return BoundsFromCorners(meta.CellOf(a), meta.CellOf(b))
}

// IsValid reports whether both axis ranges are ordered min <= max.
func (b Bounds) IsValid() bool {
	return b.X0 <= b.X1 && b.Y0 <= b.Y1
}

// IsEmpty reports whether the bounds contain no cells.
func (b Bounds) IsEmpty() bool {
	return b.X0 == b.X1 || b.Y0 == b.Y1
}

// Contains reports whether the absolute cell coordinate c lies inside b.
func (b Bounds) Contains(c Index) bool {
	return c.X >= b.X0 && c.X < b.X1 && c.Y >= b.Y0 && c.Y < b.Y1
}

// IndexOf rebases the absolute cell coordinate c onto b's origin, returning
// the storage index usable with an array shaped like b. ok is false if c is
// outside b.
func (b Bounds) IndexOf(c Index) (Index, bool) {
	if !b.Contains(c) {
		return Index{}, false
	}
	return Index{X: c.X - b.X0, Y: c.Y - b.Y0}, true
}

// NumX returns the number of cells on the x axis.
func (b Bounds) NumX() int { return b.X1 - b.X0 }

// NumY returns the number of cells on the y axis.
func (b Bounds) NumY() int { return b.Y1 - b.Y0 }

// Shape returns the array shape of the bounds as (rows, columns), i.e.
// (num y, num x).
func (b Bounds) Shape() (ny, nx int) {
	return b.NumY(), b.NumX()
}

// NumCells returns the total number of cells covered by the bounds.
func (b Bounds) NumCells() int {
	return b.NumX() * b.NumY()
}

// Intersect returns the componentwise intersection of b and o. ok is false
// when the bounds do not overlap.
func (b Bounds) Intersect(o Bounds) (Bounds, bool) {
	i := Bounds{
		X0: max(b.X0, o.X0),
		X1: min(b.X1, o.X1),
		Y0: max(b.Y0, o.Y0),
		Y1: min(b.Y1, o.Y1),
	}
	if !i.IsValid() || i.IsEmpty() {
		return Bounds{}, false
	}
	return i, true
}

// Union returns the smallest bounds containing both b and o. An empty
// operand contributes nothing, so the union of an empty bounds with o is o,
// and the union of two empty bounds is empty.
func (b Bounds) Union(o Bounds) Bounds {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Bounds{
		X0: min(b.X0, o.X0),
		X1: max(b.X1, o.X1),
		Y0: min(b.Y0, o.Y0),
		Y1: max(b.Y1, o.Y1),
	}
}

// SliceOfOther returns the index ranges, relative to b's origin, covering
// the region where b and o overlap. The ranges are half-open and suitable
// for slicing an array shaped like b. ok is false when there is no overlap.
func (b Bounds) SliceOfOther(o Bounds) (xRange, yRange [2]int, ok bool) {
	i, ok := b.Intersect(o)
	if !ok {
		return [2]int{}, [2]int{}, false
	}
	xRange = [2]int{i.X0 - b.X0, i.X1 - b.X0}
	yRange = [2]int{i.Y0 - b.Y0, i.Y1 - b.Y0}
	return xRange, yRange, true
}
