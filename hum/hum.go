// Package hum implements the history-aware box-expanded router that
// handles the stubborn minority of two-pin connections the pattern
// routers cannot legalize. Each two-pin carries a persistent search box
// that grows between reroutes; boundary learning switches off sides whose
// expansion provably cannot improve the route.
package hum

import (
	"math"

	"github.com/sarchlab/gridroute/patterns"
	"github.com/sarchlab/gridroute/router"
)

// Route replaces the two-pin's path with the cheapest route found inside
// its search box under the grid's cached edge costs. The box is created
// on the first call and expanded on every call according to where the
// previous path overflowed. Two cases bypass the box: a two-pin that
// still holds a path and has never been rerouted is routed with
// patterns.Monotonic, and coincident endpoints get an empty path.
func Route(tp *router.TwoPin, grid *router.Grid) {
	cost := func(x, y int, hori bool) float64 {
		return grid.At(x, y, hori).Cost
	}

	if len(tp.Path) != 0 && tp.Reroute == 0 {
		patterns.Monotonic(tp, cost)
		return
	}

	if tp.From.X == tp.To.X && tp.From.Y == tp.To.Y {
		tp.Path = tp.Path[:0]
		return
	}

	if tp.Box == nil {
		tp.Box = router.NewSearchBox(tp.From, tp.To)
	}
	expand(tp, grid.Width(), grid.Height())

	search(tp, cost)
}

// growthStep returns how many tiles the box grows by, keyed off how often
// the two-pin has been ripped already.
func growthStep(reroute int) int {
	switch {
	case reroute <= 2:
		return 5
	case reroute <= 6:
		return 20
	}
	return 15
}

func expand(tp *router.TwoPin, width, height int) {
	box := tp.Box
	d := growthStep(tp.Reroute)

	// Heavy overflow on vertical edges asks for horizontal detour room,
	// and vice versa.
	expandH := tp.OverflowV > tp.OverflowH
	if tp.OverflowV == tp.OverflowH {
		expandH = router.FlipCoin()
	}
	if box.Width() >= width {
		expandH = false
	}
	if box.Height() >= height {
		expandH = true
	}

	if expandH {
		if box.ExpandL {
			box.L = max(0, box.L-d)
		}
		if box.ExpandR {
			box.R = min(width-1, box.R+d)
		}
	} else {
		if box.ExpandB {
			box.B = max(0, box.B-d)
		}
		if box.ExpandU {
			box.U = min(height-1, box.U+d)
		}
	}
}

func search(tp *router.TwoPin, cost patterns.CostFunc) {
	box := patterns.Box{L: tp.Box.L, R: tp.Box.R, B: tp.Box.B, U: tp.Box.U}
	f := tp.From
	t := tp.To

	// Degenerate boxes have edges on one axis only, so only that axis'
	// tables are populated; the missing pair stays nil and reads as +Inf.
	var costVF, costHF, costVT, costHT *patterns.BoxCost
	if box.Height() > 1 {
		costVF = vmr(box, f, cost)
		costVT = vmr(box, t, cost)
	}
	if box.Width() > 1 {
		costHF = hmr(box, f, cost)
		costHT = hmr(box, t, cost)
	}

	cF := func(x, y int) float64 {
		return minCost(costVF, costHF, x, y)
	}
	cT := func(x, y int) float64 {
		return minCost(costVT, costHT, x, y)
	}

	// Meeting point: scan in (y, x) order and keep the first minimum.
	mx, my := box.L, box.B
	mc := cF(mx, my) + cT(mx, my)
	for y := box.B; y <= box.U; y++ {
		for x := box.L; x <= box.R; x++ {
			c := cF(x, y) + cT(x, y)
			if c < mc {
				mc = c
				mx, my = x, y
			}
		}
	}

	meet := router.Point{X: mx, Y: my}
	tp.Path = tp.Path[:0]

	// The forward trace runs meet-to-source; reverse it so the full path
	// stays a contiguous chain from source to target.
	pick(costVF, costHF, mx, my).Trace(&tp.Path, meet)
	reversePath(tp.Path)
	pick(costVT, costHT, mx, my).Trace(&tp.Path, meet)

	learnBoundaries(tp.Box, box, mc, cF, cT)
}

func minCost(v, h *patterns.BoxCost, x, y int) float64 {
	cv, ch := math.Inf(1), math.Inf(1)
	if v != nil {
		cv = v.CostAt(x, y)
	}
	if h != nil {
		ch = h.CostAt(x, y)
	}
	return math.Min(cv, ch)
}

func pick(v, h *patterns.BoxCost, x, y int) *patterns.BoxCost {
	if v == nil {
		return h
	}
	if h == nil {
		return v
	}
	if v.CostAt(x, y) < h.CostAt(x, y) {
		return v
	}
	return h
}

func reversePath(p []router.RPoint) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// vmr computes arrival costs from src for paths that move monotonically
// away from the source row: the source row is swept in both directions,
// then each farther row is reached by one vertical step and swept.
func vmr(box patterns.Box, src router.Point, cost patterns.CostFunc) *patterns.BoxCost {
	bc := patterns.NewBoxCost(box)
	bc.SetSource(src)

	bc.ScanX(src.Y, src.X, box.R, cost)
	bc.ScanX(src.Y, src.X, box.L, cost)

	for y := src.Y + 1; y <= box.U; y++ {
		for x := box.L; x <= box.R; x++ {
			c := bc.CostAt(x, y-1) + patterns.EdgeCost(cost, x, y-1, false)
			bc.Relax(x, y, c, router.Point{X: x, Y: y - 1})
		}
		bc.ScanX(y, box.L, box.R, cost)
		bc.ScanX(y, box.R, box.L, cost)
	}

	for y := src.Y - 1; y >= box.B; y-- {
		for x := box.L; x <= box.R; x++ {
			c := bc.CostAt(x, y+1) + patterns.EdgeCost(cost, x, y, false)
			bc.Relax(x, y, c, router.Point{X: x, Y: y + 1})
		}
		bc.ScanX(y, box.L, box.R, cost)
		bc.ScanX(y, box.R, box.L, cost)
	}

	return bc
}

// hmr is the horizontal-monotone counterpart of vmr: columns are extended
// one horizontal step at a time and swept vertically.
func hmr(box patterns.Box, src router.Point, cost patterns.CostFunc) *patterns.BoxCost {
	bc := patterns.NewBoxCost(box)
	bc.SetSource(src)

	bc.ScanY(src.X, src.Y, box.U, cost)
	bc.ScanY(src.X, src.Y, box.B, cost)

	for x := src.X + 1; x <= box.R; x++ {
		for y := box.B; y <= box.U; y++ {
			c := bc.CostAt(x-1, y) + patterns.EdgeCost(cost, x-1, y, true)
			bc.Relax(x, y, c, router.Point{X: x - 1, Y: y})
		}
		bc.ScanY(x, box.B, box.U, cost)
		bc.ScanY(x, box.U, box.B, cost)
	}

	for x := src.X - 1; x >= box.L; x-- {
		for y := box.B; y <= box.U; y++ {
			c := bc.CostAt(x+1, y) + patterns.EdgeCost(cost, x, y, true)
			bc.Relax(x, y, c, router.Point{X: x + 1, Y: y})
		}
		bc.ScanY(x, box.B, box.U, cost)
		bc.ScanY(x, box.U, box.B, cost)
	}

	return bc
}

// boundaryAlpha dampens the forced-boundary estimate with a Manhattan
// distance term between the entry and exit tiles on the boundary line.
const boundaryAlpha = 1.0

// learnBoundaries disables expansion on each side whose best possible
// route through that boundary line cannot beat the cost already found.
func learnBoundaries(sb *router.SearchBox, box patterns.Box, mc float64, cF, cT func(x, y int) float64) {
	column := func(x int) ([]float64, []float64) {
		fv := make([]float64, box.Height())
		tv := make([]float64, box.Height())
		for y := box.B; y <= box.U; y++ {
			fv[y-box.B] = cF(x, y)
			tv[y-box.B] = cT(x, y)
		}
		return fv, tv
	}
	row := func(y int) ([]float64, []float64) {
		fv := make([]float64, box.Width())
		tv := make([]float64, box.Width())
		for x := box.L; x <= box.R; x++ {
			fv[x-box.L] = cF(x, y)
			tv[x-box.L] = cT(x, y)
		}
		return fv, tv
	}

	if fv, tv := column(box.L); forcedCost(fv, tv) >= mc {
		sb.ExpandL = false
	}
	if fv, tv := column(box.R); forcedCost(fv, tv) >= mc {
		sb.ExpandR = false
	}
	if fv, tv := row(box.B); forcedCost(fv, tv) >= mc {
		sb.ExpandB = false
	}
	if fv, tv := row(box.U); forcedCost(fv, tv) >= mc {
		sb.ExpandU = false
	}
}

// forcedCost estimates the cheapest route forced through one boundary
// line: min over entry i and exit j of fv[i] + tv[j] + alpha*|i-j|,
// computed with two prefix sweeps.
func forcedCost(fv, tv []float64) float64 {
	n := len(fv)

	g := make([]float64, n)
	copy(g, fv)
	for i := 1; i < n; i++ {
		g[i] = math.Min(g[i], g[i-1]+boundaryAlpha)
	}
	for i := n - 2; i >= 0; i-- {
		g[i] = math.Min(g[i], g[i+1]+boundaryAlpha)
	}

	best := math.Inf(1)
	for i := 0; i < n; i++ {
		best = math.Min(best, g[i]+tv[i])
	}
	return best
}
