package cellmap

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Metadata describes the coordinate frame of a map: cell size, bounds, and
// the affine transform between the map frame and the parent frame. It is
// derived from Params and never hand-edited, so the transform always agrees
// with the stored position, rotation and cell size.
type Metadata struct {
	cellSize              r2.Vec
	cellBounds            Bounds
	cellBoundaryPrecision float64
	toParent              affine2
	fromParent            affine2
}

func newMetadata(p Params) Metadata {
	p = p.withDefaults()
	toParent := newToParent(p.PositionInParent, p.RotationInParentRad, p.CellSize)
	return Metadata{
		cellSize:              p.CellSize,
		cellBounds:            p.CellBounds,
		cellBoundaryPrecision: p.CellBoundaryPrecision,
		toParent:              toParent,
		fromParent:            toParent.inverse(),
	}
}

// CellSize returns the size of each cell in parent-frame units.
func (m Metadata) CellSize() r2.Vec { return m.cellSize }

// CellBounds returns the cell-index bounds of the map.
func (m Metadata) CellBounds() Bounds { return m.cellBounds }

// CellBoundaryPrecision returns the boundary precision in use.
func (m Metadata) CellBoundaryPrecision() float64 { return m.cellBoundaryPrecision }

// NumCells returns the number of cells on each axis.
func (m Metadata) NumCells() (nx, ny int) {
	return m.cellBounds.NumX(), m.cellBounds.NumY()
}

// IsInMap reports whether the storage index lies inside the map.
func (m Metadata) IsInMap(index Index) bool {
	return index.X >= 0 && index.X < m.cellBounds.NumX() &&
		index.Y >= 0 && index.Y < m.cellBounds.NumY()
}

// ToParentMatrix returns the top two rows of the map-to-parent affine
// matrix, row-major.
func (m Metadata) ToParentMatrix() [6]float64 { return m.toParent.m }

// FromParentMatrix returns the top two rows of the parent-to-map affine
// matrix, row-major.
func (m Metadata) FromParentMatrix() [6]float64 { return m.fromParent.m }

// Position returns the parent-frame position of the centre of the cell at
// the given storage index, or ok false if the index is outside the map.
func (m Metadata) Position(index Index) (r2.Vec, bool) {
	if !m.IsInMap(index) {
		return r2.Vec{}, false
	}
	return m.PositionUnchecked(index), true
}

// PositionUnchecked is Position without the bounds check. For an index
// outside the map the result is not a position in the map.
func (m Metadata) PositionUnchecked(index Index) r2.Vec {
	// The centre of the cell is +0.5 cells on each axis from its
	// absolute coordinate.
	centre := r2.Vec{
		X: float64(m.cellBounds.X0+index.X) + 0.5,
		Y: float64(m.cellBounds.Y0+index.Y) + 0.5,
	}
	return m.toParent.apply(centre)
}

// CellOf returns the absolute cell coordinate containing the parent-frame
// position, applying the boundary precision correction. The result may lie
// outside the map bounds and may be negative.
func (m Metadata) CellOf(position r2.Vec) Index {
	local := m.fromParent.apply(position)
	return Index{
		X: precisionFloor(local.X, m.cellSize.X, m.cellBoundaryPrecision),
		Y: precisionFloor(local.Y, m.cellSize.Y, m.cellBoundaryPrecision),
	}
}

// Index returns the storage index of the cell containing the parent-frame
// position, or ok false if the position is outside the map.
func (m Metadata) Index(position r2.Vec) (Index, bool) {
	return m.cellBounds.IndexOf(m.CellOf(position))
}

// mapLocal inverse-transforms a parent-frame position into continuous map
// coordinates rebased so the bounds minimum corner is the origin. Cell
// (i, j) of storage covers [i, i+1) x [j, j+1) in this space.
func (m Metadata) mapLocal(position r2.Vec) r2.Vec {
	local := m.fromParent.apply(position)
	return r2.Vec{
		X: local.X - float64(m.cellBounds.X0),
		Y: local.Y - float64(m.cellBounds.Y0),
	}
}

// precisionFloor floors a continuous cell coordinate, rounding up instead
// when the value sits within cellSize*precision below the next boundary.
// This corrects floating point round-off such as 6.999999999999998 flooring
// to 6 where 7 was intended.
func precisionFloor(v, cellSize, precision float64) int {
	floor := int(math.Floor(v))
	nudged := int(math.Floor(v + cellSize*precision))
	if nudged != floor {
		return nudged
	}
	return floor
}
