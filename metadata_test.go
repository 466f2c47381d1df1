package cellmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

const posDelta = 1e-9

func assertIndexAt(t *testing.T, meta Metadata, pos r2.Vec, want Index) {
	t.Helper()
	got, ok := meta.Index(pos)
	require.True(t, ok, "position (%g, %g) should be in the map", pos.X, pos.Y)
	assert.Equal(t, want, got, "position (%g, %g)", pos.X, pos.Y)
}

func assertPositionAt(t *testing.T, meta Metadata, index Index, want r2.Vec) {
	t.Helper()
	got, ok := meta.Position(index)
	require.True(t, ok, "index (%d, %d) should be in the map", index.X, index.Y)
	assert.InDelta(t, want.X, got.X, posDelta)
	assert.InDelta(t, want.Y, got.Y, posDelta)
}

func TestMetadataIdentityFrame(t *testing.T) {
	t.Parallel()

	meta := newMetadata(Params{
		CellSize:   r2.Vec{X: 1, Y: 1},
		CellBounds: Bounds{X0: 0, X1: 10, Y0: 0, Y1: 10},
	})

	assertPositionAt(t, meta, Index{X: 0, Y: 0}, r2.Vec{X: 0.5, Y: 0.5})
	assertPositionAt(t, meta, Index{X: 5, Y: 5}, r2.Vec{X: 5.5, Y: 5.5})

	assertIndexAt(t, meta, r2.Vec{X: 0.7, Y: 0.1}, Index{X: 0, Y: 0})
	assertIndexAt(t, meta, r2.Vec{X: 7.0, Y: 1.0}, Index{X: 7, Y: 1})
	assertIndexAt(t, meta, r2.Vec{X: 2.6, Y: 3.999999}, Index{X: 2, Y: 3})
	assertIndexAt(t, meta, r2.Vec{X: 2.6, Y: 4.0}, Index{X: 2, Y: 4})

	_, ok := meta.Position(Index{X: 10, Y: 0})
	assert.False(t, ok)
	_, ok = meta.Index(r2.Vec{X: -0.5, Y: 0.5})
	assert.False(t, ok)
}

func TestMetadataScaledFrame(t *testing.T) {
	t.Parallel()

	meta := newMetadata(Params{
		CellSize:   r2.Vec{X: 0.1, Y: 0.1},
		CellBounds: Bounds{X0: 0, X1: 10, Y0: 0, Y1: 10},
	})

	assertPositionAt(t, meta, Index{X: 0, Y: 0}, r2.Vec{X: 0.05, Y: 0.05})
	assertPositionAt(t, meta, Index{X: 5, Y: 5}, r2.Vec{X: 0.55, Y: 0.55})

	assertIndexAt(t, meta, r2.Vec{X: 0.7, Y: 0.1}, Index{X: 7, Y: 1})
	// 7 * 0.1 rounds off in floating point but must still land in cell 7.
	assertIndexAt(t, meta, r2.Vec{X: 7 * 0.1, Y: 0.1}, Index{X: 7, Y: 1})
	assertIndexAt(t, meta, r2.Vec{X: 0.26, Y: 0.3999999}, Index{X: 2, Y: 3})
	// 0.4/0.1 rounds off just below the cell boundary; the boundary
	// precision correction must place it in the higher cell.
	assertIndexAt(t, meta, r2.Vec{X: 0.26, Y: 0.4}, Index{X: 2, Y: 4})
}

func TestMetadataTranslatedFrame(t *testing.T) {
	t.Parallel()

	meta := newMetadata(Params{
		CellSize:         r2.Vec{X: 0.1, Y: 0.1},
		CellBounds:       Bounds{X0: 0, X1: 10, Y0: 0, Y1: 10},
		PositionInParent: r2.Vec{X: 0.5, Y: 0.5},
	})

	assertPositionAt(t, meta, Index{X: 0, Y: 0}, r2.Vec{X: 0.55, Y: 0.55})
	assertPositionAt(t, meta, Index{X: 5, Y: 5}, r2.Vec{X: 1.05, Y: 1.05})

	assertIndexAt(t, meta, r2.Vec{X: 0.7, Y: 0.6}, Index{X: 2, Y: 1})
	assertIndexAt(t, meta, r2.Vec{X: 0.76, Y: 0.8999999}, Index{X: 2, Y: 3})
	assertIndexAt(t, meta, r2.Vec{X: 0.76, Y: 0.9}, Index{X: 2, Y: 4})
}

func TestMetadataRotatedFrame(t *testing.T) {
	t.Parallel()

	meta := newMetadata(Params{
		CellSize:            r2.Vec{X: 0.1, Y: 0.1},
		CellBounds:          Bounds{X0: 0, X1: 10, Y0: 0, Y1: 10},
		PositionInParent:    r2.Vec{X: 0.5, Y: 0.5},
		RotationInParentRad: math.Pi / 4,
	})

	assertPositionAt(t, meta, Index{X: 0, Y: 0}, r2.Vec{X: 0.5, Y: 0.5707106781186547})
	assertPositionAt(t, meta, Index{X: 5, Y: 5}, r2.Vec{X: 0.5, Y: 1.2778174593052023})

	assertIndexAt(t, meta, r2.Vec{X: 0.4, Y: 0.7}, Index{X: 0, Y: 2})
	assertIndexAt(t, meta, r2.Vec{X: 1.0, Y: 1.2}, Index{X: 8, Y: 1})
	assertIndexAt(t, meta, r2.Vec{X: -0.1, Y: 1.2}, Index{X: 0, Y: 9})
}

func TestMetadataNegativeBounds(t *testing.T) {
	t.Parallel()

	meta := newMetadata(Params{
		CellSize:   r2.Vec{X: 1, Y: 1},
		CellBounds: Bounds{X0: -5, X1: 5, Y0: -5, Y1: 5},
	})

	// Absolute cell (-5, -5) is storage index (0, 0); its centre lies in
	// negative parent space.
	assertPositionAt(t, meta, Index{X: 0, Y: 0}, r2.Vec{X: -4.5, Y: -4.5})
	assertPositionAt(t, meta, Index{X: 5, Y: 5}, r2.Vec{X: 0.5, Y: 0.5})

	assertIndexAt(t, meta, r2.Vec{X: -4.5, Y: -4.5}, Index{X: 0, Y: 0})
	assertIndexAt(t, meta, r2.Vec{X: 0.5, Y: 0.5}, Index{X: 5, Y: 5})

	cell := meta.CellOf(r2.Vec{X: -4.5, Y: 0.5})
	assert.Equal(t, Index{X: -5, Y: 0}, cell)

	// CellOf is not clipped to the map.
	cell = meta.CellOf(r2.Vec{X: -7.5, Y: 9.5})
	assert.Equal(t, Index{X: -8, Y: 9}, cell)
	_, ok := meta.Index(r2.Vec{X: -7.5, Y: 9.5})
	assert.False(t, ok)
}

func TestMetadataRoundTrip(t *testing.T) {
	t.Parallel()

	meta := newMetadata(Params{
		CellSize:            r2.Vec{X: 0.25, Y: 0.5},
		CellBounds:          Bounds{X0: -3, X1: 9, Y0: -4, Y1: 2},
		PositionInParent:    r2.Vec{X: 1.5, Y: -2.0},
		RotationInParentRad: 0.3,
	})

	nx, ny := meta.NumCells()
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			index := Index{X: x, Y: y}
			pos, ok := meta.Position(index)
			require.True(t, ok)
			got, ok := meta.Index(pos)
			require.True(t, ok)
			assert.Equal(t, index, got)
		}
	}
}

func TestPrecisionFloor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, precisionFloor(3.0, 1.0, DefaultCellBoundaryPrecision))
	assert.Equal(t, 3, precisionFloor(3.5, 1.0, DefaultCellBoundaryPrecision))
	assert.Equal(t, -4, precisionFloor(-3.5, 1.0, DefaultCellBoundaryPrecision))

	// Values a hair below a boundary round up to it.
	assert.Equal(t, 7, precisionFloor(6.999999999999998, 1.0, DefaultCellBoundaryPrecision))

	// A genuinely interior value is unaffected by the nudge.
	assert.Equal(t, 6, precisionFloor(6.9999, 1.0, DefaultCellBoundaryPrecision))
}

func TestMetadataMatrices(t *testing.T) {
	t.Parallel()

	meta := newMetadata(Params{
		CellSize:            r2.Vec{X: 0.5, Y: 2.0},
		CellBounds:          Bounds{X0: 0, X1: 4, Y0: 0, Y1: 4},
		PositionInParent:    r2.Vec{X: 1, Y: 2},
		RotationInParentRad: 0.7,
	})

	// fromParent must invert toParent.
	to := affine2{m: meta.ToParentMatrix()}
	from := affine2{m: meta.FromParentMatrix()}
	p := r2.Vec{X: 1.3, Y: -0.2}
	q := from.apply(to.apply(p))
	assert.InDelta(t, p.X, q.X, posDelta)
	assert.InDelta(t, p.Y, q.Y, posDelta)
}
