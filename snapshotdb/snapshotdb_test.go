package snapshotdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	cellmap "github.com/SUSF-Robotics-and-Software/phobos-cell-map"
)

var testLayers = cellmap.MustLayerSet("height", "cost")

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testMap(t *testing.T) *cellmap.Map[float64] {
	t.Helper()
	m := cellmap.New[float64](testLayers, cellmap.Params{
		CellSize:   r2.Vec{X: 0.5, Y: 0.5},
		CellBounds: cellmap.Bounds{X0: 0, X1: 4, Y0: 0, Y1: 3},
	})
	for i, data := range [][]float64{m.LayerData(0), m.LayerData(1)} {
		for j := range data {
			data[j] = float64(i*10 + j)
		}
	}
	return m
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	m := testMap(t)

	rec, err := NewRecord(m, "rover-1", "periodic")
	require.NoError(t, err)
	assert.Equal(t, "rover-1", rec.MapID)
	assert.Equal(t, 2, rec.NumLayers)
	assert.Equal(t, 4, rec.NumCellsX)
	assert.Equal(t, 3, rec.NumCellsY)
	assert.Equal(t, "periodic", rec.SnapshotReason)
	assert.NotZero(t, rec.TakenUnixNanos)
	assert.NotEmpty(t, rec.GridBlob)
	assert.JSONEq(t, `["height", "cost"]`, rec.LayersJSON)

	// A blank map identity gets a generated one.
	rec, err = NewRecord(m, "", "manual")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.MapID)
}

func TestInsertAndGetSnapshot(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	m := testMap(t)

	rec, err := NewRecord(m, "rover-1", "periodic")
	require.NoError(t, err)

	id, err := db.InsertSnapshot(rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, id, rec.SnapshotID)

	got, err := db.GetSnapshotByID(id)
	require.NoError(t, err)
	assert.Equal(t, rec.MapID, got.MapID)
	assert.Equal(t, rec.TakenUnixNanos, got.TakenUnixNanos)
	assert.Equal(t, rec.GridBlob, got.GridBlob)

	_, err = db.GetSnapshotByID(999)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// A nil record is a no-op.
	id, err = db.InsertSnapshot(nil)
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestGetLatestSnapshot(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	m := testMap(t)

	first, err := NewRecord(m, "rover-1", "periodic")
	require.NoError(t, err)
	first.TakenUnixNanos = 100
	_, err = db.InsertSnapshot(first)
	require.NoError(t, err)

	second, err := NewRecord(m, "rover-1", "shutdown")
	require.NoError(t, err)
	second.TakenUnixNanos = 200
	_, err = db.InsertSnapshot(second)
	require.NoError(t, err)

	other, err := NewRecord(m, "rover-2", "periodic")
	require.NoError(t, err)
	other.TakenUnixNanos = 300
	_, err = db.InsertSnapshot(other)
	require.NoError(t, err)

	got, err := db.GetLatestSnapshot("rover-1")
	require.NoError(t, err)
	assert.Equal(t, second.SnapshotID, got.SnapshotID)
	assert.Equal(t, "shutdown", got.SnapshotReason)

	_, err = db.GetLatestSnapshot("rover-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListSnapshots(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	m := testMap(t)

	for i, reason := range []string{"a", "b", "c"} {
		rec, err := NewRecord(m, "rover-1", reason)
		require.NoError(t, err)
		rec.TakenUnixNanos = int64(100 * (i + 1))
		_, err = db.InsertSnapshot(rec)
		require.NoError(t, err)
	}

	all, err := db.ListSnapshots("rover-1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].SnapshotReason)
	assert.Equal(t, "a", all[2].SnapshotReason)
	// List rows omit the blob.
	assert.Empty(t, all[0].GridBlob)

	limited, err := db.ListSnapshots("rover-1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := db.ListSnapshots("rover-9", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	m := testMap(t)

	rec, err := NewRecord(m, "rover-1", "periodic")
	require.NoError(t, err)
	_, err = db.InsertSnapshot(rec)
	require.NoError(t, err)

	stored, err := db.GetLatestSnapshot("rover-1")
	require.NoError(t, err)

	back, err := Restore[float64](stored)
	require.NoError(t, err)

	assert.Equal(t, m.Params(), back.Params())
	assert.Equal(t, m.Layers().Names(), back.Layers().Names())
	for _, layer := range testLayers.All() {
		assert.Empty(t, cmp.Diff(m.LayerData(layer), back.LayerData(layer)))
	}
}
