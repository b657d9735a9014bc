package router

import "log"

// An Edge is the routing state of one tile-to-tile boundary.
type Edge struct {
	Cap     int
	Demand  int
	History int
	Of      int
	Used    int
	Cost    float64
}

// NewEdge creates an edge with the given capacity, no demand, and history 1.
func NewEdge(cap int) Edge {
	return Edge{Cap: cap, History: 1, Cost: 1.0}
}

// Overflow reports whether the demand on the edge exceeds its capacity.
func (e *Edge) Overflow() bool {
	return e.Demand > e.Cap
}

// A Grid stores the two planes of routing edges in one flat slice, vertical
// plane first. A W x H grid has W*(H-1) vertical and (W-1)*H horizontal
// edges.
type Grid struct {
	width, height int
	vsz           int
	edges         []Edge
}

// NewGrid creates a grid with all vertical edges set to vInit and all
// horizontal edges set to hInit.
func NewGrid(width, height int, vInit, hInit Edge) *Grid {
	if width < 1 || height < 1 {
		log.Panicf("invalid grid size %dx%d", width, height)
	}

	vsz := width * (height - 1)
	hsz := (width - 1) * height

	g := &Grid{
		width:  width,
		height: height,
		vsz:    vsz,
		edges:  make([]Edge, vsz+hsz),
	}

	for i := 0; i < vsz; i++ {
		g.edges[i] = vInit
	}
	for i := vsz; i < len(g.edges); i++ {
		g.edges[i] = hInit
	}

	return g
}

// Width returns the number of tile columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of tile rows.
func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) index(x, y int, hori bool) int {
	if hori {
		return x*g.height + y + g.vsz
	}
	return x + y*g.width
}

// At returns the edge stored at (x, y, hori).
func (g *Grid) At(x, y int, hori bool) *Edge {
	return &g.edges[g.index(x, y, hori)]
}

// AtRP returns the edge an RPoint resolves to.
func (g *Grid) AtRP(rp RPoint) *Edge {
	return &g.edges[g.index(rp.X, rp.Y, rp.Hori)]
}

// Edges exposes the backing storage in storage order, vertical plane first.
// Callers index into the returned slice to mutate edges in bulk.
func (g *Grid) Edges() []Edge {
	return g.edges
}
