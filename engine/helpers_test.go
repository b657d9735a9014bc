package engine

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/gridroute/ispd"
	"github.com/sarchlab/gridroute/router"
)

// simpleData builds a one-layer benchmark with 10x10 tiles anchored at
// the origin, so pin (10k, 10m) lands in tile (k, m).
func simpleData(w, h, vcap, hcap int, nets ...*ispd.Net) *ispd.Data {
	return &ispd.Data{
		NumXGrid: w, NumYGrid: h, NumLayer: 1,
		VerticalCapacity:   []int{vcap},
		HorizontalCapacity: []int{hcap},
		MinimumWidth:       []int{1},
		MinimumSpacing:     []int{0},
		ViaSpacing:         []int{0},
		TileWidth:          10,
		TileHeight:         10,
		NumNet:             len(nets),
		Nets:               nets,
	}
}

func netOf(name string, id int, pins ...ispd.Pin) *ispd.Net {
	return &ispd.Net{
		Name:    name,
		ID:      id,
		NumPins: len(pins),
		Pins:    pins,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(ginkgo.GinkgoWriter)
	return log
}

func buildEngine(data *ispd.Data) *Engine {
	router.SetSeed(1)
	return MakeBuilder().WithLogger(quietLogger()).Build(data)
}

// eachEdge visits every edge of the grid with its coordinates.
func eachEdge(g *router.Grid, visit func(rp router.RPoint, e *router.Edge)) {
	for y := 0; y < g.Height()-1; y++ {
		for x := 0; x < g.Width(); x++ {
			rp := router.RPoint{X: x, Y: y, Hori: false}
			visit(rp, g.AtRP(rp))
		}
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width()-1; x++ {
			rp := router.RPoint{X: x, Y: y, Hori: true}
			visit(rp, g.AtRP(rp))
		}
	}
}

// demandMatchesPaths checks that every edge's demand equals the number
// of two-pin paths that own it.
func demandMatchesPaths(e *Engine) bool {
	want := map[router.RPoint]int{}
	for _, net := range e.Nets() {
		for _, tp := range net.TwoPins {
			if tp.Ripped {
				continue
			}
			for _, rp := range tp.Path {
				want[rp]++
			}
		}
	}

	ok := true
	eachEdge(e.Grid(), func(rp router.RPoint, ed *router.Edge) {
		if ed.Demand != want[rp] {
			ok = false
		}
	})
	return ok
}

func allUsedZero(e *Engine) bool {
	ok := true
	eachEdge(e.Grid(), func(_ router.RPoint, ed *router.Edge) {
		if ed.Used != 0 {
			ok = false
		}
	})
	return ok
}

func pathIsChain(path []router.RPoint, from, to router.Point) bool {
	walk := func(start, end router.Point) bool {
		cx, cy := start.X, start.Y
		for _, e := range path {
			var ox, oy int
			if e.Hori {
				ox, oy = e.X+1, e.Y
			} else {
				ox, oy = e.X, e.Y+1
			}
			switch {
			case e.X == cx && e.Y == cy:
				cx, cy = ox, oy
			case ox == cx && oy == cy:
				cx, cy = e.X, e.Y
			default:
				return false
			}
		}
		return cx == end.X && cy == end.Y
	}
	return walk(from, to) || walk(to, from)
}
