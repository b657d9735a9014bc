// Package ispd models ISPD 2008 global-routing benchmarks and parses
// their text format.
package ispd

// A Pin is a net terminal in layout coordinates with a 1-based layer.
type Pin struct {
	X, Y, Z int
}

// A Net is one multi-pin connection as read from the benchmark.
type Net struct {
	Name         string
	ID           int
	NumPins      int
	MinimumWidth int
	Pins         []Pin
}

// A GridPoint addresses one tile in 3D, with a 1-based layer.
type GridPoint struct {
	X, Y, Z int
}

// A CapacityAdj reduces the capacity of the edge between two adjacent
// tiles on the same layer.
type CapacityAdj struct {
	Grid1, Grid2         GridPoint
	ReducedCapacityLevel int
}

// Data is a parsed ISPD 2008 benchmark.
type Data struct {
	NumXGrid, NumYGrid, NumLayer int

	VerticalCapacity   []int
	HorizontalCapacity []int
	MinimumWidth       []int
	MinimumSpacing     []int
	ViaSpacing         []int

	LowerLeftX, LowerLeftY int
	TileWidth, TileHeight  int

	NumNet int
	Nets   []*Net

	NumCapacityAdj int
	CapacityAdjs   []CapacityAdj
}
