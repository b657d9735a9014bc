package patterns

import (
	"math"

	"github.com/sarchlab/gridroute/router"
)

// A CostFunc prices one grid edge for path search. A nil CostFunc means
// every edge costs 1.
type CostFunc func(x, y int, hori bool) float64

// EdgeCost evaluates fn at the canonical edge, treating nil as unit cost.
func EdgeCost(fn CostFunc, x, y int, hori bool) float64 {
	if fn == nil {
		return 1.0
	}
	return fn(x, y, hori)
}

// A Box is the axis-aligned tile range [L..R] x [B..U].
type Box struct {
	L, R, B, U int
}

// NewBox returns the tight bounding box of two points.
func NewBox(f, t router.Point) Box {
	return Box{
		L: min(f.X, t.X), R: max(f.X, t.X),
		B: min(f.Y, t.Y), U: max(f.Y, t.Y),
	}
}

// Width returns the number of tile columns the box spans.
func (b Box) Width() int {
	return b.R - b.L + 1
}

// Height returns the number of tile rows the box spans.
func (b Box) Height() int {
	return b.U - b.B + 1
}

type boxData struct {
	cost    float64
	from    router.Point
	hasFrom bool
}

// A BoxCost is a DP table over a box: per tile, the cheapest known arrival
// cost and the predecessor tile to trace a path back through.
type BoxCost struct {
	Box
	data []boxData
}

// NewBoxCost allocates a table over the box with every tile at +Inf.
func NewBoxCost(b Box) *BoxCost {
	bc := &BoxCost{
		Box:  b,
		data: make([]boxData, b.Width()*b.Height()),
	}
	for i := range bc.data {
		bc.data[i].cost = math.Inf(1)
	}
	return bc
}

func (bc *BoxCost) at(x, y int) *boxData {
	i := x - bc.L
	j := y - bc.B
	return &bc.data[i*bc.Height()+j]
}

// CostAt returns the tile's current arrival cost.
func (bc *BoxCost) CostAt(x, y int) float64 {
	return bc.at(x, y).cost
}

// SetSource fixes a tile as a search origin: cost zero, no predecessor.
func (bc *BoxCost) SetSource(p router.Point) {
	d := bc.at(p.X, p.Y)
	d.cost = 0
	d.hasFrom = false
}

// Relax lowers the tile's cost to c coming from the given predecessor.
// It reports whether the tile improved.
func (bc *BoxCost) Relax(x, y int, c float64, from router.Point) bool {
	d := bc.at(x, y)
	if d.cost <= c {
		return false
	}
	d.cost = c
	d.from = from
	d.hasFrom = true
	return true
}

// ScanX relaxes tiles along row y from bx toward ex, carrying the running
// minimum so a single sweep settles the whole row segment.
func (bc *BoxCost) ScanX(y, bx, ex int, fn CostFunc) {
	dx := sign(ex - bx)
	if dx == 0 {
		return
	}

	pc := bc.at(bx, y).cost
	for px, x := bx, bx+dx; x != ex+dx; px, x = x, x+dx {
		cc := pc + EdgeCost(fn, min(x, px), y, true)
		d := bc.at(x, y)
		if d.cost <= cc {
			pc = d.cost
		} else {
			pc = cc
			d.cost = cc
			d.from = router.Point{X: px, Y: y}
			d.hasFrom = true
		}
	}
}

// ScanY relaxes tiles along column x from by toward ey.
func (bc *BoxCost) ScanY(x, by, ey int, fn CostFunc) {
	dy := sign(ey - by)
	if dy == 0 {
		return
	}

	pc := bc.at(x, by).cost
	for py, y := by, by+dy; y != ey+dy; py, y = y, y+dy {
		cc := pc + EdgeCost(fn, x, min(y, py), false)
		d := bc.at(x, y)
		if d.cost <= cc {
			pc = d.cost
		} else {
			pc = cc
			d.cost = cc
			d.from = router.Point{X: x, Y: py}
			d.hasFrom = true
		}
	}
}

// Trace walks the predecessor chain from p back to a source tile,
// appending one canonical edge per step. The walk stops after one edge
// per tile in the box, guarding against a corrupt chain.
func (bc *BoxCost) Trace(path *[]router.RPoint, p router.Point) {
	limit := bc.Width() * bc.Height()
	for i := 0; i < limit; i++ {
		d := bc.at(p.X, p.Y)
		if !d.hasFrom {
			return
		}
		prev := d.from

		dx := abs(prev.X - p.X)
		dy := abs(prev.Y - p.Y)
		if dx+dy != 1 {
			return
		}
		if dx == 1 {
			*path = append(*path, router.NewRPointX(prev.X, p.X, prev.Y))
		} else {
			*path = append(*path, router.NewRPointY(prev.X, prev.Y, p.Y))
		}

		p = prev
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
