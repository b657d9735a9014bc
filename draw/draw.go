// Package draw renders congestion maps of a routed grid as PPM (P3)
// images. Tiles map to even pixel coordinates and edges to the odd
// coordinates between them; rows are written top to bottom.
package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/gridroute/router"
)

// Options controls the rendering.
type Options struct {
	// Scale repeats every cell Scale times in both directions. Zero
	// means 1.
	Scale int
}

type cell struct {
	r, g, b int
}

// WriteCongestion renders per-edge demand/capacity into a PPM image.
func WriteCongestion(w io.Writer, grid *router.Grid, opt Options) error {
	scale := opt.Scale
	if scale < 1 {
		scale = 1
	}

	iw := 2*grid.Width() - 1
	ih := 2*grid.Height() - 1

	image := make([][]cell, ih)
	for i := range image {
		image[i] = make([]cell, iw)
	}

	// Tile nodes render as neutral gray, edges by load.
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			image[2*y][2*x] = cell{64, 64, 64}
		}
	}
	for y := 0; y < grid.Height()-1; y++ {
		for x := 0; x < grid.Width(); x++ {
			e := grid.At(x, y, false)
			image[2*y+1][2*x] = edgeColor(e)
		}
	}
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width()-1; x++ {
			e := grid.At(x, y, true)
			image[2*y][2*x+1] = edgeColor(e)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", iw*scale, ih*scale)
	for i := ih - 1; i >= 0; i-- {
		for s := 0; s < scale; s++ {
			for j := 0; j < iw; j++ {
				c := image[i][j]
				for t := 0; t < scale; t++ {
					fmt.Fprintf(bw, "%d %d %d ", c.r, c.g, c.b)
				}
			}
			fmt.Fprintln(bw)
		}
	}
	return bw.Flush()
}

// WriteCongestionFile renders to a file path.
func WriteCongestionFile(path string, grid *router.Grid, opt Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCongestion(f, grid, opt)
}

// edgeColor ramps from green (idle) through yellow (full) to red
// (overflowed). Blockages render black, untouched edges dark gray.
func edgeColor(e *router.Edge) cell {
	if e.Cap <= 0 {
		return cell{0, 0, 0}
	}
	if e.Demand == 0 {
		return cell{32, 32, 32}
	}

	ratio := float64(e.Demand) / float64(e.Cap)
	if ratio <= 1 {
		v := int(255 * ratio)
		return cell{v, 255 - v/2, 0}
	}

	over := ratio - 1
	if over > 1 {
		over = 1
	}
	return cell{255, int(80 * (1 - over)), 0}
}
