package cellmap

import "gonum.org/v1/gonum/spatial/r2"

// DefaultCellBoundaryPrecision is the cell boundary precision used when
// Params leaves it zero. It is dimensionless relative to cell size.
const DefaultCellBoundaryPrecision = 1e-10

// Params holds the construction-time configuration of a map. It is immutable
// once the map is built, except through Map.Move, which only changes
// PositionInParent and RotationInParentRad.
type Params struct {
	// CellSize is the size (resolution) of each cell in parent-frame
	// units. Both components must be positive for a meaningful map.
	CellSize r2.Vec

	// CellBounds is the range of cell indices in the map, which may
	// include negative indices.
	CellBounds Bounds

	// RotationInParentRad rotates the map frame into the parent frame.
	RotationInParentRad float64

	// PositionInParent translates the map origin into the parent frame.
	PositionInParent r2.Vec

	// CellBoundaryPrecision corrects floating point rounding when
	// computing cell indices from positions. A position whose floating
	// index is within CellSize*CellBoundaryPrecision below a cell
	// boundary is placed in the higher cell. Zero means
	// DefaultCellBoundaryPrecision.
	CellBoundaryPrecision float64
}

// withDefaults returns p with zero-valued fields replaced by their
// defaults.
func (p Params) withDefaults() Params {
	if p.CellBoundaryPrecision == 0 {
		p.CellBoundaryPrecision = DefaultCellBoundaryPrecision
	}
	return p
}
