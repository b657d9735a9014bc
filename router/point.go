package router

// A Point is a tile coordinate on the routing grid. The Z coordinate is the
// layer index. The 2D router carries it through for the layer-assignment
// pass but never interprets it.
type Point struct {
	X, Y, Z int
}

// An RPoint identifies one grid edge by its lower endpoint. A horizontal
// edge (x, y, true) connects tile (x, y) to (x+1, y). A vertical edge
// (x, y, false) connects tile (x, y) to (x, y+1). Edges are always stored
// in this canonical form.
type RPoint struct {
	X, Y int
	Hori bool
}

// NewRPointX returns the canonical horizontal edge between (x1, y) and
// (x2, y), where x1 and x2 differ by one.
func NewRPointX(x1, x2, y int) RPoint {
	return RPoint{X: min(x1, x2), Y: y, Hori: true}
}

// NewRPointY returns the canonical vertical edge between (x, y1) and
// (x, y2), where y1 and y2 differ by one.
func NewRPointY(x, y1, y2 int) RPoint {
	return RPoint{X: x, Y: min(y1, y2), Hori: false}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
