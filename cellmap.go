// Package cellmap provides a many-layer 2D grid of cellular data positioned
// by an affine coordinate frame within a parent frame.
//
// A Map stores one row-major array per layer of a LayerSet, all layers
// sharing one shape given by the map's cell bounds. The frame converts
// between integer cell indices and continuous parent-frame positions,
// including non-uniform cell sizes, rotation and translation. Iterators
// traverse cells, windows, or line-traced cells across one or more layers in
// a deterministic raster order.
//
// Maps are not safe for concurrent use; a map is owned by its caller and an
// iterator borrows the whole map until it is exhausted or dropped.
package cellmap

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Map is a many-layer 2D grid of cells of type T. Create one with New,
// NewFromElem or NewFromData.
type Map[T any] struct {
	layers *LayerSet
	params Params
	meta   Metadata

	// data holds one row-major (y*nx + x) array per layer, indexed by
	// Layer.Index. Every array has exactly CellBounds.NumCells elements.
	data [][]T
}

// New creates a map from the given params with every cell of every layer
// set to the zero value of T.
func New[T any](layers *LayerSet, params Params) *Map[T] {
	var zero T
	return NewFromElem[T](layers, params, zero)
}

// NewFromElem creates a map from the given params with every cell of every
// layer set to elem. Panics if params.CellBounds has an axis with min > max;
// bounds built with NewBounds are always valid.
func NewFromElem[T any](layers *LayerSet, params Params, elem T) *Map[T] {
	params = params.withDefaults()
	if !params.CellBounds.IsValid() {
		panic((&InvalidBoundsError{Bounds: params.CellBounds}).Error())
	}
	n := params.CellBounds.NumCells()
	data := make([][]T, layers.NumLayers())
	for i := range data {
		layer := make([]T, n)
		for j := range layer {
			layer[j] = elem
		}
		data[i] = layer
	}
	return &Map[T]{
		layers: layers,
		params: params,
		meta:   newMetadata(params),
		data:   data,
	}
}

// NewFromData creates a map from externally supplied per-layer arrays. Each
// array must be row-major (y*nx + x) and shaped to params.CellBounds. The
// map takes ownership of the supplied slices. Fails with InvalidBoundsError,
// WrongNumberOfLayersError or LayerWrongShapeError when the bounds or data
// do not match the registry and shape.
func NewFromData[T any](layers *LayerSet, params Params, data [][]T) (*Map[T], error) {
	params = params.withDefaults()
	if !params.CellBounds.IsValid() {
		return nil, &InvalidBoundsError{Bounds: params.CellBounds}
	}
	if len(data) != layers.NumLayers() {
		return nil, &WrongNumberOfLayersError{Expected: layers.NumLayers(), Actual: len(data)}
	}
	n := params.CellBounds.NumCells()
	for i, layer := range data {
		if len(layer) != n {
			return nil, &LayerWrongShapeError{Layer: i, Expected: n, Actual: len(layer)}
		}
	}
	return &Map[T]{
		layers: layers,
		params: params,
		meta:   newMetadata(params),
		data:   data,
	}, nil
}

// Layers returns the layer registry the map was built over.
func (m *Map[T]) Layers() *LayerSet { return m.layers }

// Params returns the map's construction parameters.
func (m *Map[T]) Params() Params { return m.params }

// Metadata returns the map's coordinate frame metadata.
func (m *Map[T]) Metadata() Metadata { return m.meta }

// CellSize returns the size of each cell in parent-frame units.
func (m *Map[T]) CellSize() r2.Vec { return m.meta.CellSize() }

// CellBounds returns the cell-index bounds of the map.
func (m *Map[T]) CellBounds() Bounds { return m.meta.CellBounds() }

// NumCells returns the number of cells on each axis.
func (m *Map[T]) NumCells() (nx, ny int) { return m.meta.NumCells() }

// IsInMap reports whether the storage index lies inside the map.
func (m *Map[T]) IsInMap(index Index) bool { return m.meta.IsInMap(index) }

// cellOffset flattens a storage index. Valid only for in-bounds indices.
func (m *Map[T]) cellOffset(index Index) int {
	return index.Y*m.meta.cellBounds.NumX() + index.X
}

// Get returns the value at the given layer and storage index, or ok false
// if the index is outside the map. Panics if layer is not in the registry.
func (m *Map[T]) Get(layer Layer, index Index) (T, bool) {
	if !m.meta.IsInMap(index) {
		var zero T
		return zero, false
	}
	return m.data[layer][m.cellOffset(index)], true
}

// At returns a pointer to the value at the given layer and storage index,
// or ok false if the index is outside the map. Panics if layer is not in
// the registry.
func (m *Map[T]) At(layer Layer, index Index) (*T, bool) {
	if !m.meta.IsInMap(index) {
		return nil, false
	}
	return &m.data[layer][m.cellOffset(index)], true
}

// AtUnchecked returns a pointer to the value at the given layer and storage
// index without checking the bounds of the map.
//
// The index must be inside the map. An out-of-map index either panics or
// silently addresses a different cell of the same layer, so this must never
// be reached from unvalidated input.
func (m *Map[T]) AtUnchecked(layer Layer, index Index) *T {
	return &m.data[layer][m.cellOffset(index)]
}

// GetUnchecked returns the value at the given layer and storage index
// without checking the bounds of the map. The same precondition as
// AtUnchecked applies.
func (m *Map[T]) GetUnchecked(layer Layer, index Index) T {
	return m.data[layer][m.cellOffset(index)]
}

// Set writes the value at the given layer and storage index, failing with
// IndexOutsideMapError if the index is outside the map.
func (m *Map[T]) Set(layer Layer, index Index, value T) error {
	if !m.meta.IsInMap(index) {
		return &IndexOutsideMapError{Index: index}
	}
	m.data[layer][m.cellOffset(index)] = value
	return nil
}

// LayerData returns the underlying row-major array of the given layer. The
// slice is shared with the map, not a copy.
func (m *Map[T]) LayerData(layer Layer) []T { return m.data[layer] }

// Position returns the parent-frame position of the centre of the cell at
// the given storage index, or ok false if the index is outside the map.
func (m *Map[T]) Position(index Index) (r2.Vec, bool) { return m.meta.Position(index) }

// Index returns the storage index of the cell containing the parent-frame
// position, or ok false if the position is outside the map.
func (m *Map[T]) Index(position r2.Vec) (Index, bool) { return m.meta.Index(position) }

// Move re-places the map within its parent frame, recomputing the transform
// in place. Cell data and bounds are untouched: indices keep their meaning,
// only their parent-frame placement changes.
func (m *Map[T]) Move(position r2.Vec, rotationRad float64) {
	m.params.PositionInParent = position
	m.params.RotationInParentRad = rotationRad
	m.meta = newMetadata(m.params)
}

// Resize reallocates the map to newBounds. Cells covered by both the old
// and new bounds keep their values, cells added by the new bounds are
// zero-valued, and cells of the old map outside the new bounds are
// discarded. The map's placement in the parent frame is unchanged. Panics if
// newBounds has an axis with min > max.
func (m *Map[T]) Resize(newBounds Bounds) {
	if !newBounds.IsValid() {
		panic((&InvalidBoundsError{Bounds: newBounds}).Error())
	}
	old := m.meta.cellBounds
	if newBounds == old {
		return
	}

	nx := newBounds.NumX()
	n := newBounds.NumCells()
	newData := make([][]T, len(m.data))
	for i := range newData {
		newData[i] = make([]T, n)
	}

	// Copy the overlap region, expressed in each bounds' own storage
	// coordinates. No overlap means nothing to copy.
	if newX, newY, ok := newBounds.SliceOfOther(old); ok {
		oldX, oldY, _ := old.SliceOfOther(newBounds)
		oldNx := old.NumX()
		width := newX[1] - newX[0]
		for li := range m.data {
			src := m.data[li]
			dst := newData[li]
			for dy := 0; dy < newY[1]-newY[0]; dy++ {
				srcOff := (oldY[0]+dy)*oldNx + oldX[0]
				dstOff := (newY[0]+dy)*nx + newX[0]
				copy(dst[dstOff:dstOff+width], src[srcOff:srcOff+width])
			}
		}
	}

	m.data = newData
	m.params.CellBounds = newBounds
	m.meta = newMetadata(m.params)
}
