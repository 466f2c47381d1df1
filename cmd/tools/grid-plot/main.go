// Package main renders one layer of a cell map snapshot as a heat map
// image, for quick visual inspection of saved grids.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	cellmap "github.com/SUSF-Robotics-and-Software/phobos-cell-map"
)

func main() {
	in := flag.String("in", "", "input snapshot file (.json or .bin)")
	layerName := flag.String("layer", "", "layer to plot (default: first layer)")
	out := flag.String("out", "grid.png", "output image file")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	snap, err := readSnapshot(*in)
	if err != nil {
		log.Fatalf("reading %s: %v", *in, err)
	}

	li, err := layerIndex(snap, *layerName)
	if err != nil {
		log.Fatal(err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s", filepath.Base(*in), snap.Layers[li])
	p.X.Label.Text = "x (cells)"
	p.Y.Label.Text = "y (cells)"

	hm := plotter.NewHeatMap(&layerGrid{snap: snap, layer: li}, palette.Heat(64, 1))
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *out); err != nil {
		log.Fatalf("saving plot: %v", err)
	}
	log.Printf("wrote %s", *out)
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

func layerIndex(snap *cellmap.Snapshot[float64], name string) (int, error) {
	if name == "" {
		if len(snap.Layers) == 0 {
			return 0, fmt.Errorf("snapshot has no layers")
		}
		return 0, nil
	}
	for i, l := range snap.Layers {
		if l == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no layer %q in snapshot (have %v)", name, snap.Layers)
}

// layerGrid adapts one snapshot layer to plotter.GridXYZ. Axis values are
// the absolute cell coordinates of cell centres.
type layerGrid struct {
	snap  *cellmap.Snapshot[float64]
	layer int
}

func (g *layerGrid) Dims() (c, r int) { return g.snap.NumCellsX, g.snap.NumCellsY }

func (g *layerGrid) Z(c, r int) float64 {
	return g.snap.Data[g.layer][r*g.snap.NumCellsX+c]
}

func (g *layerGrid) X(c int) float64 { return float64(g.snap.CellBounds.X0+c) + 0.5 }

func (g *layerGrid) Y(r int) float64 { return float64(g.snap.CellBounds.Y0+r) + 0.5 }
