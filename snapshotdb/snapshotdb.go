// Package snapshotdb persists cell map snapshots to a SQLite database,
// keeping a history of map states per map identity for later inspection or
// restore.
package snapshotdb

import (
	"bytes"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	cellmap "github.com/SUSF-Robotics-and-Software/phobos-cell-map"
)

type DB struct {
	*sql.DB
}

// schema.sql contains the SQL statements for creating the snapshot database
// schema. It defines the snapshot history table and its lookup index.
//
//go:embed schema.sql
var schemaSQL string

// Open opens (creating if needed) the snapshot database at path and applies
// the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(schemaSQL)
	if err != nil {
		return nil, err
	}

	log.Println("initialized cell map snapshot database schema")

	return &DB{db}, nil
}

// Record is one row of the snapshot history. GridBlob is the binary encoding
// of a cellmap.Snapshot; the sibling columns are denormalised from it so
// rows can be filtered without decoding the blob.
type Record struct {
	SnapshotID     int64  `json:"snapshot_id"`
	MapID          string `json:"map_id"`
	TakenUnixNanos int64  `json:"taken_unix_nanos"`
	NumLayers      int    `json:"num_layers"`
	NumCellsX      int    `json:"num_cells_x"`
	NumCellsY      int    `json:"num_cells_y"`
	LayersJSON     string `json:"layers_json"`
	ParamsJSON     string `json:"params_json"`
	GridBlob       []byte `json:"-"`
	SnapshotReason string `json:"snapshot_reason"`
}

// NewRecord captures a map into a Record ready for InsertSnapshot. A blank
// mapID is replaced with a fresh UUID, returned via the record's MapID.
func NewRecord[T any](m *cellmap.Map[T], mapID, reason string) (*Record, error) {
	if mapID == "" {
		mapID = uuid.NewString()
	}

	snap := cellmap.NewSnapshot(m)

	var blob bytes.Buffer
	if err := snap.EncodeBinary(&blob); err != nil {
		return nil, fmt.Errorf("encoding grid blob: %w", err)
	}
	layersJSON, err := json.Marshal(snap.Layers)
	if err != nil {
		return nil, fmt.Errorf("encoding layers: %w", err)
	}
	paramsJSON, err := json.Marshal(snap.Params())
	if err != nil {
		return nil, fmt.Errorf("encoding params: %w", err)
	}

	return &Record{
		MapID:          mapID,
		TakenUnixNanos: time.Now().UnixNano(),
		NumLayers:      snap.NumLayers,
		NumCellsX:      snap.NumCellsX,
		NumCellsY:      snap.NumCellsY,
		LayersJSON:     string(layersJSON),
		ParamsJSON:     string(paramsJSON),
		GridBlob:       blob.Bytes(),
		SnapshotReason: reason,
	}, nil
}

// Restore rebuilds the map stored in a record's grid blob.
func Restore[T any](r *Record) (*cellmap.Map[T], error) {
	snap, err := cellmap.DecodeSnapshotBinary[T](bytes.NewReader(r.GridBlob))
	if err != nil {
		return nil, fmt.Errorf("decoding grid blob: %w", err)
	}
	return snap.ToMap()
}

// InsertSnapshot persists a record into the cell_map_snapshot table and
// returns the new snapshot_id, which is also written back to the record.
func (db *DB) InsertSnapshot(r *Record) (int64, error) {
	if r == nil {
		return 0, nil
	}
	stmt := `INSERT INTO cell_map_snapshot (map_id, taken_unix_nanos, num_layers, num_cells_x, num_cells_y, layers_json, params_json, grid_blob, snapshot_reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := db.Exec(stmt, r.MapID, r.TakenUnixNanos, r.NumLayers, r.NumCellsX, r.NumCellsY, r.LayersJSON, r.ParamsJSON, r.GridBlob, r.SnapshotReason)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	r.SnapshotID = id
	return id, nil
}

// GetSnapshotByID fetches a single snapshot row. Returns sql.ErrNoRows if no
// such snapshot exists.
func (db *DB) GetSnapshotByID(snapshotID int64) (*Record, error) {
	stmt := `SELECT snapshot_id, map_id, taken_unix_nanos, num_layers, num_cells_x, num_cells_y, layers_json, params_json, grid_blob, snapshot_reason
			 FROM cell_map_snapshot WHERE snapshot_id = ?`
	return db.scanRecord(db.QueryRow(stmt, snapshotID))
}

// GetLatestSnapshot fetches the most recent snapshot for a map identity.
// Returns sql.ErrNoRows if the map has no snapshots.
func (db *DB) GetLatestSnapshot(mapID string) (*Record, error) {
	stmt := `SELECT snapshot_id, map_id, taken_unix_nanos, num_layers, num_cells_x, num_cells_y, layers_json, params_json, grid_blob, snapshot_reason
			 FROM cell_map_snapshot WHERE map_id = ?
			 ORDER BY taken_unix_nanos DESC LIMIT 1`
	return db.scanRecord(db.QueryRow(stmt, mapID))
}

// ListSnapshots returns snapshot rows for a map identity, newest first,
// without their grid blobs. limit <= 0 means no limit.
func (db *DB) ListSnapshots(mapID string, limit int) ([]*Record, error) {
	stmt := `SELECT snapshot_id, map_id, taken_unix_nanos, num_layers, num_cells_x, num_cells_y, layers_json, params_json, snapshot_reason
			 FROM cell_map_snapshot WHERE map_id = ?
			 ORDER BY taken_unix_nanos DESC`
	if limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := db.Query(stmt, mapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.SnapshotID, &r.MapID, &r.TakenUnixNanos, &r.NumLayers, &r.NumCellsX, &r.NumCellsY, &r.LayersJSON, &r.ParamsJSON, &r.SnapshotReason); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (db *DB) scanRecord(row *sql.Row) (*Record, error) {
	var r Record
	err := row.Scan(&r.SnapshotID, &r.MapID, &r.TakenUnixNanos, &r.NumLayers, &r.NumCellsX, &r.NumCellsY, &r.LayersJSON, &r.ParamsJSON, &r.GridBlob, &r.SnapshotReason)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
