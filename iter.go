package cellmap

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// iterCore is the shared Slicer x Layerer state machine. A call to next
// settles on the first layer whose slicer still has steps; when a slicer
// exhausts a layer the layerer advances and the slicer rewinds.
type iterCore[T any] struct {
	m       *Map[T]
	layerer Layerer
	slicer  Slicer
	cur     Layer
	started bool
}

func (c *iterCore[T]) next() bool {
	if !c.started {
		c.started = true
	} else {
		c.slicer.Advance()
	}
	for {
		layer, ok := c.layerer.Current()
		if !ok {
			return false
		}
		if _, ok := c.slicer.Index(); ok {
			c.cur = layer
			return true
		}
		c.layerer.Advance()
		c.slicer.Reset()
	}
}

func (c *iterCore[T]) index() Index {
	i, _ := c.slicer.Index()
	return i
}

// Iter iterates over single cells of a map, in raster order within a layer
// (x fastest, then y) and registry order across layers. For a line iterator
// the order within a layer is the traversal order of the segment.
//
// The iterator borrows the whole map: while it is in use the map must not
// be accessed through any other handle. Each step exposes exactly one cell
// pointer, valid until the following Next call.
//
// Usage follows the scanner idiom:
//
//	for it := m.Iter().OnLayer(height); it.Next(); {
//		*it.Ptr() += 1.0
//	}
type Iter[T any] struct {
	core iterCore[T]
}

// Iter returns an iterator over each cell in all layers of the map.
func (m *Map[T]) Iter() *Iter[T] {
	nx, ny := m.NumCells()
	return &Iter[T]{core: iterCore[T]{
		m:       m,
		layerer: &manyLayerer{layers: m.layers.All()},
		slicer:  newCellsSlicer(nx, ny),
	}}
}

// LineIter returns an iterator over the cells intersected by the straight
// segment between two parent-frame positions, in traversal order. Fails
// with PositionOutsideMapError if either endpoint lies outside the map.
func (m *Map[T]) LineIter(start, end r2.Vec) (*Iter[T], error) {
	slicer, err := newLineSlicer(m.meta, start, end)
	if err != nil {
		return nil, err
	}
	return &Iter[T]{core: iterCore[T]{
		m:       m,
		layerer: &manyLayerer{layers: m.layers.All()},
		slicer:  slicer,
	}}, nil
}

// OnLayer restricts the iterator to a single layer.
func (it *Iter[T]) OnLayer(layer Layer) *Iter[T] {
	it.core.layerer = &singleLayerer{layer: layer}
	return it
}

// OnLayers restricts the iterator to the given layers, visited in the
// given order.
func (it *Iter[T]) OnLayers(layers ...Layer) *Iter[T] {
	it.core.layerer = &manyLayerer{layers: append([]Layer(nil), layers...)}
	return it
}

// MapLayers converts the iterator into a layer-pair iterator reading from
// one layer and writing to another with the same traversal.
func (it *Iter[T]) MapLayers(from, to Layer) *PairIter[T] {
	return &PairIter[T]{m: it.core.m, slicer: it.core.slicer, from: from, to: to}
}

// Next advances to the next cell, reporting false once the iteration is
// exhausted.
func (it *Iter[T]) Next() bool { return it.core.next() }

// Layer returns the layer of the current cell.
func (it *Iter[T]) Layer() Layer { return it.core.cur }

// Index returns the storage index of the current cell.
func (it *Iter[T]) Index() Index { return it.core.index() }

// Position returns the parent-frame position of the current cell's centre.
func (it *Iter[T]) Position() r2.Vec {
	return it.core.m.meta.PositionUnchecked(it.core.index())
}

// Value returns the current cell's value.
func (it *Iter[T]) Value() T {
	return *it.Ptr()
}

// Ptr returns a pointer to the current cell, valid until the next call to
// Next.
func (it *Iter[T]) Ptr() *T {
	return it.core.m.AtUnchecked(it.core.cur, it.core.index())
}

// Set writes the current cell.
func (it *Iter[T]) Set(value T) { *it.Ptr() = value }

// WindowIter iterates rectangular windows over a map. The traversal cursor
// is confined so the window never leaves the grid, and each step exposes a
// view centred on the cursor. The same borrowing contract as Iter applies;
// a view is valid until the following Next call.
type WindowIter[T any] struct {
	core iterCore[T]
	semi Index
}

// WindowIter returns an iterator over windows of cells in the map.
// semiWidth is half the window extent on each axis, excluding the central
// cell: a semi-width of (2, 2) yields 5x5 windows. Fails with
// WindowLargerThanMapError if the full window exceeds the map extent.
func (m *Map[T]) WindowIter(semiWidth Index) (*WindowIter[T], error) {
	nx, ny := m.NumCells()
	slicer, err := newWindowsSlicer(nx, ny, semiWidth)
	if err != nil {
		return nil, err
	}
	return &WindowIter[T]{
		core: iterCore[T]{
			m:       m,
			layerer: &manyLayerer{layers: m.layers.All()},
			slicer:  slicer,
		},
		semi: semiWidth,
	}, nil
}

// OnLayer restricts the iterator to a single layer.
func (it *WindowIter[T]) OnLayer(layer Layer) *WindowIter[T] {
	it.core.layerer = &singleLayerer{layer: layer}
	return it
}

// OnLayers restricts the iterator to the given layers, visited in the
// given order.
func (it *WindowIter[T]) OnLayers(layers ...Layer) *WindowIter[T] {
	it.core.layerer = &manyLayerer{layers: append([]Layer(nil), layers...)}
	return it
}

// Next advances to the next window, reporting false once the iteration is
// exhausted.
func (it *WindowIter[T]) Next() bool { return it.core.next() }

// Layer returns the layer of the current window.
func (it *WindowIter[T]) Layer() Layer { return it.core.cur }

// Index returns the storage index of the current window's central cell.
func (it *WindowIter[T]) Index() Index { return it.core.index() }

// Position returns the parent-frame position of the central cell's centre.
func (it *WindowIter[T]) Position() r2.Vec {
	return it.core.m.meta.PositionUnchecked(it.core.index())
}

// Window returns the view for the current step.
func (it *WindowIter[T]) Window() Window[T] {
	centre := it.core.index()
	nx, _ := it.core.m.NumCells()
	return Window[T]{
		data:   it.core.m.data[it.core.cur],
		stride: nx,
		x0:     centre.X - it.semi.X,
		y0:     centre.Y - it.semi.Y,
		nx:     2*it.semi.X + 1,
		ny:     2*it.semi.Y + 1,
	}
}

// Window is a rectangular view into one layer of a map, addressed by
// window-relative coordinates with (0, 0) at the window's minimum corner.
type Window[T any] struct {
	data   []T
	stride int
	x0, y0 int
	nx, ny int
}

// Shape returns the window shape as (rows, columns).
func (w Window[T]) Shape() (ny, nx int) { return w.ny, w.nx }

// At returns a pointer to the cell at window-relative coordinates.
func (w Window[T]) At(x, y int) *T {
	if x < 0 || x >= w.nx || y < 0 || y >= w.ny {
		panic("window coordinates out of range")
	}
	return &w.data[(w.y0+y)*w.stride+w.x0+x]
}

// Get returns the value at window-relative coordinates.
func (w Window[T]) Get(x, y int) T { return *w.At(x, y) }

// Centre returns a pointer to the window's central cell.
func (w Window[T]) Centre() *T { return w.At(w.nx/2, w.ny/2) }

// PairIter traverses two layers in lockstep, yielding the source value and
// a pointer into the destination for every cell, enabling copy or derive
// operations between layers in one pass. The source is read by value before
// the destination pointer is used, so source and destination may even be
// the same layer without two live references addressing one cell.
type PairIter[T any] struct {
	m        *Map[T]
	slicer   Slicer
	from, to Layer
	started  bool
}

// Next advances to the next cell, reporting false once the traversal is
// exhausted.
func (it *PairIter[T]) Next() bool {
	if !it.started {
		it.started = true
	} else {
		it.slicer.Advance()
	}
	_, ok := it.slicer.Index()
	return ok
}

// Index returns the storage index of the current cell.
func (it *PairIter[T]) Index() Index {
	i, _ := it.slicer.Index()
	return i
}

// Position returns the parent-frame position of the current cell's centre.
func (it *PairIter[T]) Position() r2.Vec {
	return it.m.meta.PositionUnchecked(it.Index())
}

// Src returns the source layer's value at the current cell.
func (it *PairIter[T]) Src() T {
	return it.m.GetUnchecked(it.from, it.Index())
}

// Dst returns a pointer into the destination layer at the current cell,
// valid until the next call to Next.
func (it *PairIter[T]) Dst() *T {
	return it.m.AtUnchecked(it.to, it.Index())
}

// SetDst writes the destination layer at the current cell.
func (it *PairIter[T]) SetDst(value T) { *it.Dst() = value }
