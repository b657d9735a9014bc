package engine

import (
	"math"
	"sort"

	"github.com/sarchlab/gridroute/router"
)

// twoPinScore ranks two-pins within a net; lower routes first. The
// formula tracks the active stiffness profile: the HUM phase routes short,
// non-overflowed paths first, the monotonic phase weighs bounding-box area,
// and the pattern phases route large spans first.
func (e *Engine) twoPinScore(tp *router.TwoPin) float64 {
	dx := abs(tp.From.X - tp.To.X)
	dy := abs(tp.From.Y - tp.To.Y)

	of := 0.0
	if tp.Overflow {
		of = 1.0
	}

	switch e.cost.SelCost() {
	case 2:
		return 60*of + float64(len(tp.Path))
	case 1:
		return 60*of + float64((1+dx)*(1+dy))
	}
	return 100.0 / float64(max(1+dx, 1+dy))
}

// netScore ranks nets; higher routes first.
func netScore(net *router.Net) float64 {
	return 10*float64(net.Overflow) +
		float64(net.OverflowTwoPin) +
		3*math.Log2(math.Max(net.Cost, 1))
}

// sortForPass orders nets by net score descending and each net's
// two-pins by two-pin score ascending, half-perimeter as tie-break. The
// ordering holds for the whole pass; mid-pass mutations do not re-sort.
func (e *Engine) sortForPass() {
	sort.SliceStable(e.nets, func(i, j int) bool {
		return netScore(e.nets[i]) > netScore(e.nets[j])
	})

	for _, net := range e.nets {
		tps := net.TwoPins
		scores := make(map[*router.TwoPin]float64, len(tps))
		for _, tp := range tps {
			scores[tp] = e.twoPinScore(tp)
		}
		sort.SliceStable(tps, func(i, j int) bool {
			si, sj := scores[tps[i]], scores[tps[j]]
			if si != sj {
				return si < sj
			}
			return tps[i].HPWL() < tps[j].HPWL()
		})
	}
}
