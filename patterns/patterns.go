// Package patterns implements the cheap pattern routers. LShape and
// ZShape handle the easy majority of two-pin connections; Monotonic adds
// cost-aware local detours while keeping the path at Manhattan length.
// All three replace the two-pin's path with a new Manhattan sequence
// between its endpoints.
package patterns

import "github.com/sarchlab/gridroute/router"

// LShape routes a two-pin with a single bend. The two candidate corners
// are priced under fn and the cheaper L wins; ties are settled by a coin
// flip.
func LShape(tp *router.TwoPin, fn CostFunc) {
	f := tp.From
	t := tp.To

	m1 := router.Point{X: f.X, Y: t.Y, Z: f.Z}
	m2 := router.Point{X: t.X, Y: f.Y, Z: f.Z}

	lineCostX := func(y, l, r int) float64 {
		if l > r {
			l, r = r, l
		}
		c := 0.0
		for x := l; x < r; x++ {
			c += EdgeCost(fn, x, y, true)
		}
		return c
	}
	lineCostY := func(x, b, u int) float64 {
		if b > u {
			b, u = u, b
		}
		c := 0.0
		for y := b; y < u; y++ {
			c += EdgeCost(fn, x, y, false)
		}
		return c
	}

	eval := func(m router.Point) float64 {
		c := 0.0
		if f.X != m.X {
			c += lineCostX(f.Y, f.X, m.X)
		}
		if f.Y != m.Y {
			c += lineCostY(m.X, f.Y, m.Y)
		}
		if m.X != t.X {
			c += lineCostX(t.Y, m.X, t.X)
		}
		if m.Y != t.Y {
			c += lineCostY(m.X, m.Y, t.Y)
		}
		return c
	}

	c1 := eval(m1)
	c2 := eval(m2)

	var m router.Point
	switch {
	case c1 < c2:
		m = m1
	case c2 < c1:
		m = m2
	case router.FlipCoin():
		m = m1
	default:
		m = m2
	}

	tp.Path = tp.Path[:0]
	emitX := func(y, l, r int) {
		if l > r {
			l, r = r, l
		}
		for x := l; x < r; x++ {
			tp.Path = append(tp.Path, router.RPoint{X: x, Y: y, Hori: true})
		}
	}
	emitY := func(x, b, u int) {
		if b > u {
			b, u = u, b
		}
		for y := b; y < u; y++ {
			tp.Path = append(tp.Path, router.RPoint{X: x, Y: y, Hori: false})
		}
	}

	emitX(f.Y, f.X, m.X)
	emitY(m.X, f.Y, m.Y)
	emitX(t.Y, m.X, t.X)
	emitY(m.X, m.Y, t.Y)
}

// ZShape routes a two-pin with up to two bends by running two DP sweeps
// over the bounding box, one starting with a horizontal segment and one
// with a vertical segment, and tracing whichever reaches the target
// cheaper.
func ZShape(tp *router.TwoPin, fn CostFunc) {
	f := tp.From
	t := tp.To

	if f.Y > t.Y {
		f, t = t, f
	}
	if f.X > t.X {
		f, t = t, f
	}

	boxH := NewBoxCost(NewBox(f, t))
	boxH.SetSource(f)
	boxV := NewBoxCost(NewBox(f, t))
	boxV.SetSource(f)

	dx := sign(t.X - f.X)
	dy := sign(t.Y - f.Y)

	boxH.ScanX(f.Y, f.X, t.X, fn)
	for x := f.X + dx; dx != 0 && x != t.X+dx; x += dx {
		boxH.ScanY(x, f.Y, t.Y, fn)
	}
	boxH.ScanX(t.Y, f.X, t.X, fn)

	boxV.ScanY(f.X, f.Y, t.Y, fn)
	for y := f.Y + dy; dy != 0 && y != t.Y+dy; y += dy {
		boxV.ScanX(y, f.X, t.X, fn)
	}
	boxV.ScanY(t.X, f.Y, t.Y, fn)

	box := boxH
	if boxV.CostAt(t.X, t.Y) < boxH.CostAt(t.X, t.Y) {
		box = boxV
	}

	tp.Path = tp.Path[:0]
	box.Trace(&tp.Path, t)
}

// Monotonic routes a two-pin with a DP restricted to moves strictly
// toward the target, so the path length is exactly the Manhattan
// distance. Cost ties at a tile are settled by a coin flip.
func Monotonic(tp *router.TwoPin, fn CostFunc) {
	f := tp.From
	t := tp.To

	if f.Y > t.Y {
		f, t = t, f
	}
	if f.X > t.X {
		f, t = t, f
	}

	box := NewBoxCost(NewBox(f, t))
	box.SetSource(f)
	box.ScanX(f.Y, f.X, t.X, fn)
	box.ScanY(f.X, f.Y, t.Y, fn)

	dy := sign(t.Y - f.Y)
	for py, y := f.Y, f.Y+dy; dy != 0 && y != t.Y+dy; py, y = y, y+dy {
		for px, x := f.X, f.X+1; x <= t.X; px, x = x, x+1 {
			cx := box.CostAt(x, py) + EdgeCost(fn, x, min(y, py), false)
			cy := box.CostAt(px, y) + EdgeCost(fn, min(x, px), y, true)

			pickX := cx < cy
			if cx == cy {
				pickX = router.FlipCoin()
			}
			if pickX {
				box.Relax(x, y, cx, router.Point{X: x, Y: py})
			} else {
				box.Relax(x, y, cy, router.Point{X: px, Y: y})
			}
		}
	}

	tp.Path = tp.Path[:0]
	box.Trace(&tp.Path, t)
}
