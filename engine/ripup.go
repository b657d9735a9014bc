package engine

import "github.com/sarchlab/gridroute/router"

// markOverflow refreshes each two-pin's overflow flag against the
// current grid.
func (e *Engine) markOverflow() {
	for _, net := range e.nets {
		for _, tp := range net.TwoPins {
			tp.Overflow = e.twoPinOverflow(tp)
		}
	}
}

func (e *Engine) twoPinOverflow(tp *router.TwoPin) bool {
	for _, rp := range tp.Path {
		if e.grid.AtRP(rp).Overflow() {
			return true
		}
	}
	return false
}

// ripupPlace runs one rip-up-and-reroute pass: overflowed two-pins are
// released net by net and rerouted under a cost field that excludes the
// net's own wires. Every edge lock taken here is released before the
// pass returns, so Used drains back to zero.
func (e *Engine) ripupPlace(route routeFunc) {
	e.markOverflow()
	e.sortForPass()

	for _, net := range e.nets {
		e.delCostNet(net)

		var ripped []*router.TwoPin
		for _, tp := range net.TwoPins {
			if tp.Overflow {
				e.rip(tp)
				ripped = append(ripped, tp)
			}
		}

		for _, tp := range ripped {
			route(tp)
			e.place(tp)
			e.delCostTwoPin(tp)
		}

		e.addCostNet(net)
	}
}

// ripupPlaceWL is the wirelength-refine variant: every routed two-pin is
// speculatively rerouted, and the candidate replaces the old path only
// if it is strictly shorter and introduces no edge at or over capacity.
func (e *Engine) ripupPlaceWL(route routeFunc) {
	e.markOverflow()
	e.sortForPass()

	for _, net := range e.nets {
		e.delCostNet(net)

		for _, tp := range net.TwoPins {
			if len(tp.Path) == 0 {
				continue
			}

			old := tp.Path
			for _, rp := range old {
				e.grid.AtRP(rp).Demand--
			}
			e.addCostTwoPin(tp)

			tp.Path = nil
			route(tp)

			if e.acceptRefined(old, tp.Path) {
				tp.Reroute++
			} else {
				tp.Path = old
			}

			e.place(tp)
			e.delCostTwoPin(tp)
		}

		e.addCostNet(net)
	}
}

// acceptRefined admits a candidate path only if it is strictly shorter
// than the old one and every edge it introduces still has slack.
func (e *Engine) acceptRefined(old, cand []router.RPoint) bool {
	if len(cand) >= len(old) {
		return false
	}

	shared := make(map[router.RPoint]struct{}, len(old))
	for _, rp := range old {
		shared[rp] = struct{}{}
	}

	for _, rp := range cand {
		if _, ok := shared[rp]; ok {
			continue
		}
		ed := e.grid.AtRP(rp)
		if ed.Demand >= ed.Cap {
			return false
		}
	}
	return true
}
