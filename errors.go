package cellmap

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// InvalidBoundsError reports a bounds construction where an axis had
// min > max.
type InvalidBoundsError struct {
	Bounds Bounds
}

func (e *InvalidBoundsError) Error() string {
	return fmt.Sprintf(
		"invalid bounds: x (%d, %d) and y (%d, %d) must both be ordered min <= max",
		e.Bounds.X0, e.Bounds.X1, e.Bounds.Y0, e.Bounds.Y1,
	)
}

// WindowLargerThanMapError reports a window iterator whose full window size
// (2*semi_width + 1 per axis) exceeds the map extent.
type WindowLargerThanMapError struct {
	WindowX, WindowY int
	MapX, MapY       int
}

func (e *WindowLargerThanMapError) Error() string {
	return fmt.Sprintf(
		"can't create a windows iterator since the window size (%d, %d) is larger than the map size (%d, %d)",
		e.WindowX, e.WindowY, e.MapX, e.MapY,
	)
}

// PositionOutsideMapError reports a line iterator endpoint which lies
// outside the map. End names the offending endpoint, "start" or "end".
type PositionOutsideMapError struct {
	End      string
	Position r2.Vec
}

func (e *PositionOutsideMapError) Error() string {
	return fmt.Sprintf(
		"line %s position (%g, %g) is outside the map",
		e.End, e.Position.X, e.Position.Y,
	)
}

// WrongNumberOfLayersError reports externally supplied layer data whose
// layer count does not match the registry.
type WrongNumberOfLayersError struct {
	Expected, Actual int
}

func (e *WrongNumberOfLayersError) Error() string {
	return fmt.Sprintf("expected %d layers of data but got %d", e.Expected, e.Actual)
}

// LayerWrongShapeError reports an externally supplied layer array whose cell
// count does not match the map's bounds shape.
type LayerWrongShapeError struct {
	Layer            int
	Expected, Actual int
}

func (e *LayerWrongShapeError) Error() string {
	return fmt.Sprintf(
		"layer %d has %d cells but the map shape requires %d",
		e.Layer, e.Actual, e.Expected,
	)
}

// IndexOutsideMapError reports a Set call with a storage index outside the
// map.
type IndexOutsideMapError struct {
	Index Index
}

func (e *IndexOutsideMapError) Error() string {
	return fmt.Sprintf("index (%d, %d) is outside the map", e.Index.X, e.Index.Y)
}
