package engine

// OverflowStats summarizes one accounting pass over the grid and the
// routed two-pins.
type OverflowStats struct {
	TotalOverflow   int
	MaxOverflow     int
	Wirelength      int
	OverflowNets    int
	OverflowTwoPins int
}

// checkOverflow folds accumulated crime into edge history, totals the
// current overflow, and refreshes the per-net wirelength, cost, and
// overflow statistics that drive the next pass's ordering.
func (e *Engine) checkOverflow() OverflowStats {
	var s OverflowStats

	edges := e.grid.Edges()
	for i := range edges {
		ed := &edges[i]
		ed.History += ed.Of
		ed.Of = 0

		if of := ed.Demand - ed.Cap; of > 0 {
			s.TotalOverflow += of
			if of > s.MaxOverflow {
				s.MaxOverflow = of
			}
		}
	}

	for _, net := range e.nets {
		net.WLen = 0
		net.Cost = 0
		net.Overflow = 0
		net.OverflowTwoPin = 0

		// A transient walk over Used separates the net's first touch of
		// an edge from re-visits by sibling two-pins.
		for _, tp := range net.TwoPins {
			overflowed := false
			for _, rp := range tp.Path {
				ed := e.grid.AtRP(rp)
				ed.Used++
				if ed.Used == 1 {
					net.WLen++
					if ed.Overflow() {
						net.Cost += ed.Cost
						net.Overflow = 1
					}
				}
				if ed.Overflow() {
					overflowed = true
				}
			}

			tp.Overflow = overflowed
			if overflowed {
				net.OverflowTwoPin++
				s.OverflowTwoPins++
			}
		}

		for _, tp := range net.TwoPins {
			for _, rp := range tp.Path {
				e.grid.AtRP(rp).Used--
			}
		}

		if net.Overflow != 0 {
			s.OverflowNets++
		}
		s.Wirelength += net.WLen
	}

	e.setProgressStats(s)

	return s
}
