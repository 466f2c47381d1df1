package cellmap

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Slicer drives the per-layer traversal cursor of an iterator: what shape
// of data a step produces and in what order steps visit the layer.
type Slicer interface {
	// Index returns the storage index of the current step, or ok false
	// once the slicer is exhausted for the current layer.
	Index() (Index, bool)

	// Advance moves the cursor one step.
	Advance()

	// Reset rewinds the cursor so the slicer can traverse the next
	// layer.
	Reset()
}

// cellsSlicer visits every cell of a rectangular cursor range in raster
// order: x increasing most rapidly, then y.
type cellsSlicer struct {
	x0, x1, y0, y1 int
	x, y           int
}

func newCellsSlicer(nx, ny int) *cellsSlicer {
	return &cellsSlicer{x1: nx, y1: ny}
}

func (s *cellsSlicer) Index() (Index, bool) {
	if s.x < s.x0 || s.x >= s.x1 || s.y < s.y0 || s.y >= s.y1 {
		return Index{}, false
	}
	return Index{X: s.x, Y: s.y}, true
}

func (s *cellsSlicer) Advance() {
	s.x++
	if s.x >= s.x1 {
		s.x = s.x0
		s.y++
	}
}

func (s *cellsSlicer) Reset() {
	s.x = s.x0
	s.y = s.y0
}

// windowsSlicer confines the raster cursor so a window of the given
// semi-width around it never leaves the map.
type windowsSlicer struct {
	cellsSlicer
	semi Index
}

func newWindowsSlicer(nx, ny int, semi Index) (*windowsSlicer, error) {
	if 2*semi.X+1 > nx || 2*semi.Y+1 > ny {
		return nil, &WindowLargerThanMapError{
			WindowX: 2*semi.X + 1,
			WindowY: 2*semi.Y + 1,
			MapX:    nx,
			MapY:    ny,
		}
	}
	s := &windowsSlicer{
		cellsSlicer: cellsSlicer{
			x0: semi.X, x1: nx - semi.X,
			y0: semi.Y, y1: ny - semi.Y,
		},
		semi: semi,
	}
	s.Reset()
	return s, nil
}

// lineSlicer walks the cells intersected by a straight segment between two
// parent-frame points, in traversal order, visiting each cell exactly once.
// It is a 2D DDA: the cursor is a continuous map-local position, and each
// advance moves it just past the nearest cell boundary along the segment.
type lineSlicer struct {
	start r2.Vec
	dir   r2.Vec
	// signX/signY are 1 where the segment increases along the axis,
	// otherwise 0; they select which cell boundary the cursor crosses
	// next.
	signX, signY float64
	precision    float64
	nx, ny       int

	current r2.Vec
	// t is the normalised travel parameter along the segment; the walk
	// is exhausted once it exceeds 1.
	t float64
}

func newLineSlicer(meta Metadata, startPos, endPos r2.Vec) (*lineSlicer, error) {
	nx, ny := meta.NumCells()
	start := meta.mapLocal(startPos)
	end := meta.mapLocal(endPos)

	if !localInMap(start, nx, ny) {
		return nil, &PositionOutsideMapError{End: "start", Position: startPos}
	}
	if !localInMap(end, nx, ny) {
		return nil, &PositionOutsideMapError{End: "end", Position: endPos}
	}

	dir := r2.Vec{X: end.X - start.X, Y: end.Y - start.Y}
	s := &lineSlicer{
		start:     start,
		dir:       dir,
		signX:     stepSign(dir.X),
		signY:     stepSign(dir.Y),
		precision: meta.CellBoundaryPrecision(),
		nx:        nx,
		ny:        ny,
	}
	s.Reset()
	return s, nil
}

// localInMap accepts map-local coordinates in [0, num_cells] per axis; the
// closing edge is inclusive so segments may end exactly on the map border.
func localInMap(p r2.Vec, nx, ny int) bool {
	return p.X >= 0 && p.X <= float64(nx) && p.Y >= 0 && p.Y <= float64(ny)
}

func stepSign(d float64) float64 {
	if d > 0 {
		return 1
	}
	return 0
}

func (s *lineSlicer) Index() (Index, bool) {
	if s.t > 1 {
		return Index{}, false
	}
	return Index{
		X: clampFloor(s.current.X, s.nx),
		Y: clampFloor(s.current.Y, s.ny),
	}, true
}

func (s *lineSlicer) Advance() {
	if s.t > 1 {
		return
	}
	dx := s.boundaryDelta(s.current.X, s.dir.X, s.signX)
	dy := s.boundaryDelta(s.current.Y, s.dir.Y, s.signY)
	d := math.Min(dx, dy)
	s.current.X += s.dir.X * d
	s.current.Y += s.dir.Y * d
	s.t += d
}

func (s *lineSlicer) Reset() {
	s.current = s.start
	s.t = 0
}

// boundaryDelta returns the fraction of the segment needed to cross from
// the current coordinate into the next cell on this axis. The precision
// nudge guarantees the boundary is actually crossed despite floating point
// round-off. An axis the segment does not move along never crosses.
func (s *lineSlicer) boundaryDelta(current, dir, sign float64) float64 {
	if dir == 0 {
		return math.Inf(1)
	}
	return (math.Floor(current)+sign-current)/dir + s.precision
}

// clampFloor floors a map-local coordinate into a storage index, clamping
// onto the final cell for coordinates on the map's closing edge.
func clampFloor(v float64, n int) int {
	i := int(math.Floor(v))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
