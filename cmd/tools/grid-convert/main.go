// Package main provides a converter between cell map snapshot encodings.
// It reads a snapshot in either the JSON or the binary encoding and writes
// it out in the encoding implied by the output file's extension.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	cellmap "github.com/SUSF-Robotics-and-Software/phobos-cell-map"
)

func main() {
	in := flag.String("in", "", "input snapshot file (.json or .bin)")
	out := flag.String("out", "", "output snapshot file (.json or .bin)")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	snap, err := readSnapshot(*in)
	if err != nil {
		log.Fatalf("reading %s: %v", *in, err)
	}

	if err := writeSnapshot(snap, *out); err != nil {
		log.Fatalf("writing %s: %v", *out, err)
	}

	b := snap.CellBounds
	fmt.Printf("converted %s -> %s\n", *in, *out)
	fmt.Printf("  layers:  %d (%s)\n", snap.NumLayers, strings.Join(snap.Layers, ", "))
	fmt.Printf("  cells:   %dx%d, bounds x [%d, %d) y [%d, %d)\n",
		snap.NumCellsX, snap.NumCellsY, b.X0, b.X1, b.Y0, b.Y1)
	fmt.Printf("  cell sz: %g x %g\n", snap.CellSizeX, snap.CellSizeY)
}

func readSnapshot(path string) (*cellmap.Snapshot[float64], error) {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		return cellmap.ReadSnapshotJSON[float64](path)
	case ".bin":
		return cellmap.ReadSnapshotBinary[float64](path)
	default:
		return nil, fmt.Errorf("unknown snapshot extension %q", ext)
	}
}

func writeSnapshot(snap *cellmap.Snapshot[float64], path string) error {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		return snap.WriteJSON(path)
	case ".bin":
		return snap.WriteBinary(path)
	default:
		return fmt.Errorf("unknown snapshot extension %q", ext)
	}
}
