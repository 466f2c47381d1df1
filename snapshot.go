package cellmap

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
)

// Snapshot is the flat serialisable record of a map: its layer list, shape,
// placement, and one row-major array per layer. It round-trips through JSON
// or a gob+gzip binary encoding; the resulting files are interchangeable
// with ReadSnapshotJSON / ReadSnapshotBinary.
type Snapshot[T any] struct {
	// NumLayers is the number of layers stored in the map.
	NumLayers int `json:"num_layers"`

	// Layers is the ordered layer name list; a name's position matches
	// its array's position in Data.
	Layers []string `json:"layers"`

	// CellBounds is the range of cell indices in the map.
	CellBounds Bounds `json:"cell_bounds"`

	// NumCellsX and NumCellsY give the shape of every layer array.
	NumCellsX int `json:"num_cells_x"`
	NumCellsY int `json:"num_cells_y"`

	// CellSizeX and CellSizeY give the cell size in parent-frame units.
	CellSizeX float64 `json:"cell_size_x"`
	CellSizeY float64 `json:"cell_size_y"`

	// CellBoundaryPrecision is the boundary precision relative to cell
	// size.
	CellBoundaryPrecision float64 `json:"cell_boundary_precision"`

	// RotationInParentRad and PositionInParent place the map frame in
	// the parent frame.
	RotationInParentRad float64 `json:"rotation_in_parent_rad"`
	PositionInParentX   float64 `json:"position_in_parent_x"`
	PositionInParentY   float64 `json:"position_in_parent_y"`

	// FromParentMatrix is the top two rows of the parent-to-map affine
	// matrix, row-major. It is informational; loading re-derives the
	// transform from the placement fields.
	FromParentMatrix [6]float64 `json:"from_parent_matrix"`

	// Data holds one row-major (y*nx + x) array per layer.
	Data [][]T `json:"data"`
}

// NewSnapshot captures the map into a snapshot record. The layer arrays are
// copied, so the snapshot stays valid while the map keeps changing.
func NewSnapshot[T any](m *Map[T]) *Snapshot[T] {
	nx, ny := m.NumCells()
	data := make([][]T, len(m.data))
	for i, layer := range m.data {
		data[i] = append([]T(nil), layer...)
	}
	return &Snapshot[T]{
		NumLayers:             m.layers.NumLayers(),
		Layers:                m.layers.Names(),
		CellBounds:            m.CellBounds(),
		NumCellsX:             nx,
		NumCellsY:             ny,
		CellSizeX:             m.meta.cellSize.X,
		CellSizeY:             m.meta.cellSize.Y,
		CellBoundaryPrecision: m.meta.cellBoundaryPrecision,
		RotationInParentRad:   m.params.RotationInParentRad,
		PositionInParentX:     m.params.PositionInParent.X,
		PositionInParentY:     m.params.PositionInParent.Y,
		FromParentMatrix:      m.meta.FromParentMatrix(),
		Data:                  data,
	}
}

// Params reconstructs the map construction parameters recorded in the
// snapshot.
func (s *Snapshot[T]) Params() Params {
	return Params{
		CellSize:              r2.Vec{X: s.CellSizeX, Y: s.CellSizeY},
		CellBounds:            s.CellBounds,
		RotationInParentRad:   s.RotationInParentRad,
		PositionInParent:      r2.Vec{X: s.PositionInParentX, Y: s.PositionInParentY},
		CellBoundaryPrecision: s.CellBoundaryPrecision,
	}
}

// ToMap rebuilds a map from the snapshot. The layer registry is
// reconstructed from the recorded names and the data arrays are copied in.
func (s *Snapshot[T]) ToMap() (*Map[T], error) {
	layers, err := NewLayerSet(s.Layers...)
	if err != nil {
		return nil, fmt.Errorf("rebuilding layer registry: %w", err)
	}
	data := make([][]T, len(s.Data))
	for i, layer := range s.Data {
		data[i] = append([]T(nil), layer...)
	}
	return NewFromData(layers, s.Params(), data)
}

// WriteJSON writes the snapshot to the given path as pretty-printed JSON,
// overwriting any existing file.
func (s *Snapshot[T]) WriteJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}

// ReadSnapshotJSON loads a snapshot from a JSON file written by WriteJSON.
func ReadSnapshotJSON[T any](path string) (*Snapshot[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	var s Snapshot[T]
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}

// EncodeBinary writes the snapshot to w as a gzip-compressed gob stream.
func (s *Snapshot[T]) EncodeBinary(w io.Writer) error {
	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(s); err != nil {
		gz.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return gz.Close()
}

// DecodeSnapshotBinary reads a snapshot from a gzip-compressed gob stream
// written by EncodeBinary.
func DecodeSnapshotBinary[T any](r io.Reader) (*Snapshot[T], error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot stream: %w", err)
	}
	defer gz.Close()

	var s Snapshot[T]
	if err := gob.NewDecoder(gz).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}

// WriteBinary writes the snapshot to the given path in the binary encoding,
// overwriting any existing file.
func (s *Snapshot[T]) WriteBinary(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	if err := s.EncodeBinary(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshotBinary loads a snapshot from a file written by WriteBinary.
func ReadSnapshotBinary[T any](path string) (*Snapshot[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()
	return DecodeSnapshotBinary[T](f)
}
