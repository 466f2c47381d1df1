package cellmap

// ReduceFunc combines a destination cell's current value with every source
// value that mapped onto it during a merge. src is empty for destination
// cells that received no source cell, which happens near the corners of a
// rotated source; returning current leaves such cells untouched.
type ReduceFunc[T any] func(current T, src []T) T

// Merge reconciles another map into this one. The source may be finer in
// resolution, rotated, and offset. The map grows to the union of its own
// bounds and the source's projected bounds, every source cell is bucketed
// by the destination cell containing its centre, and each destination cell
// inside the projected bounds is rewritten to reduce(current, bucket).
// Cells outside the projected bounds are untouched.
//
// Both maps must be built over the same layer registry and be expressed
// relative to the same parent frame, and the source cell size must not
// exceed this map's cell size on either axis. Neither condition is checked
// at runtime; merging a coarser source needs a resampling strategy this
// method does not provide.
func (m *Map[T]) Merge(other *Map[T], reduce ReduceFunc[T]) {
	onx, ony := other.NumCells()
	if onx == 0 || ony == 0 {
		return
	}

	// Project the source's corner cells into this map's index space.
	// Rotation can move which corner is extremal, so both diagonals are
	// projected and unioned rather than assuming axis alignment.
	c00 := other.meta.PositionUnchecked(Index{X: 0, Y: 0})
	c10 := other.meta.PositionUnchecked(Index{X: onx - 1, Y: 0})
	c01 := other.meta.PositionUnchecked(Index{X: 0, Y: ony - 1})
	c11 := other.meta.PositionUnchecked(Index{X: onx - 1, Y: ony - 1})
	projected := BoundsFromCornerPositions(m.meta, c00, c11).
		Union(BoundsFromCornerPositions(m.meta, c10, c01))

	m.Resize(m.CellBounds().Union(projected))

	pnx := projected.NumX()
	pny := projected.NumY()
	buckets := make([][]T, pnx*pny)
	nx, _ := m.NumCells()

	for li := range m.data {
		for i := range buckets {
			buckets[i] = buckets[i][:0]
		}

		src := other.data[li]
		for y := 0; y < ony; y++ {
			for x := 0; x < onx; x++ {
				pos := other.meta.PositionUnchecked(Index{X: x, Y: y})
				cell := m.meta.CellOf(pos)
				b, ok := projected.IndexOf(cell)
				if !ok {
					continue
				}
				buckets[b.Y*pnx+b.X] = append(buckets[b.Y*pnx+b.X], src[y*onx+x])
			}
		}

		dst := m.data[li]
		for y := 0; y < pny; y++ {
			for x := 0; x < pnx; x++ {
				cell := Index{X: projected.X0 + x, Y: projected.Y0 + y}
				d, ok := m.meta.cellBounds.IndexOf(cell)
				if !ok {
					continue
				}
				off := d.Y*nx + d.X
				dst[off] = reduce(dst[off], buckets[y*pnx+x])
			}
		}
	}
}
