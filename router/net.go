package router

// A TwoPin is one elementary routing task between two tiles of the same
// net. Its path is the set of grid edges it currently owns; ownership is
// non-exclusive, every owner contributes one unit of demand.
type TwoPin struct {
	From, To Point
	Path     []RPoint

	Reroute  int
	Overflow bool
	Ripped   bool

	// Per-axis counts of overflowed edges seen in the last ripped path.
	// The HUM router reads these to pick its box growth direction.
	OverflowV, OverflowH int

	// Box is the persistent HUM search box, created lazily on the first
	// HUM call.
	Box *SearchBox
}

// HPWL returns the half-perimeter of the two-pin's bounding box.
func (tp *TwoPin) HPWL() int {
	return abs(tp.From.X-tp.To.X) + abs(tp.From.Y-tp.To.Y)
}

// A SearchBox bounds HUM's search and remembers which sides may still
// grow. Sides whose expansion provably cannot improve the route are
// switched off by boundary learning.
type SearchBox struct {
	L, R, B, U int

	ExpandL, ExpandR, ExpandB, ExpandU bool
}

// NewSearchBox creates the tight bounding box of the two endpoints with
// all four sides expandable.
func NewSearchBox(f, t Point) *SearchBox {
	return &SearchBox{
		L: min(f.X, t.X), R: max(f.X, t.X),
		B: min(f.Y, t.Y), U: max(f.Y, t.Y),
		ExpandL: true, ExpandR: true, ExpandB: true, ExpandU: true,
	}
}

// Width returns the number of tile columns the box spans.
func (b *SearchBox) Width() int {
	return b.R - b.L + 1
}

// Height returns the number of tile rows the box spans.
func (b *SearchBox) Height() int {
	return b.U - b.B + 1
}

// A Net is a multi-pin connection decomposed into a spanning set of
// two-pins. The overflow, wirelength, and cost fields are refreshed by
// each accounting pass.
type Net struct {
	Name string
	ID   int

	Pin2D []Point
	Pin3D []Point

	TwoPins []*TwoPin

	Overflow       int
	OverflowTwoPin int
	WLen           int
	Cost           float64
}
