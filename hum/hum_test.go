package hum

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gridroute/router"
)

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

func placePath(tp *router.TwoPin, grid *router.Grid) {
	for _, rp := range tp.Path {
		grid.AtRP(rp).Demand++
	}
}

var _ = Describe("Route", func() {
	var cm *router.CostModel

	BeforeEach(func() {
		router.SetSeed(1)
		cm = router.NewCostModel(0)
	})

	It("should detour around a pre-blocked corridor", func() {
		grid := router.NewGrid(3, 3, router.NewEdge(1), router.NewEdge(1))

		// Saturate the bottom row and right column, the monotonic
		// corridor from (0,0) to (2,2).
		grid.At(0, 0, true).Demand++
		grid.At(1, 0, true).Demand++
		grid.At(2, 0, false).Demand++
		grid.At(2, 1, false).Demand++
		cm.BuildCost(grid)

		tp := &router.TwoPin{
			From: router.Point{X: 0, Y: 0},
			To:   router.Point{X: 2, Y: 2},
		}

		Route(tp, grid)
		placePath(tp, grid)

		Expect(tp.Path).NotTo(BeEmpty())
		Expect(pathIsChain(tp.Path, tp.From, tp.To)).To(BeTrue())
		for _, rp := range tp.Path {
			Expect(grid.AtRP(rp).Overflow()).To(BeFalse())
		}
	})

	It("should route at Manhattan length on a uniform grid", func() {
		grid := router.NewGrid(8, 8, router.NewEdge(10), router.NewEdge(10))
		cm.BuildCost(grid)

		tp := &router.TwoPin{
			From: router.Point{X: 2, Y: 2},
			To:   router.Point{X: 5, Y: 5},
		}

		Route(tp, grid)

		Expect(tp.Path).To(HaveLen(6))
		Expect(pathIsChain(tp.Path, tp.From, tp.To)).To(BeTrue())
	})

	It("should learn that far boundaries cannot help on a uniform grid", func() {
		grid := router.NewGrid(8, 8, router.NewEdge(10), router.NewEdge(10))
		cm.BuildCost(grid)

		// Biasing the overflow count pins the first growth to the x
		// axis, so the left and right boundaries end up far from the
		// endpoints.
		tp := &router.TwoPin{
			From:      router.Point{X: 2, Y: 2},
			To:        router.Point{X: 5, Y: 5},
			OverflowV: 1,
		}

		Route(tp, grid)

		Expect(tp.Box).NotTo(BeNil())
		Expect(tp.Box.ExpandL).To(BeFalse())
		Expect(tp.Box.ExpandR).To(BeFalse())
		// The horizontal boundaries still graze the endpoints, where
		// routes as cheap as the optimum pass, so they stay open.
		Expect(tp.Box.ExpandB).To(BeTrue())
		Expect(tp.Box.ExpandU).To(BeTrue())
	})

	It("should keep the box inside the grid while growing", func() {
		grid := router.NewGrid(4, 4, router.NewEdge(2), router.NewEdge(2))
		cm.BuildCost(grid)

		tp := &router.TwoPin{
			From: router.Point{X: 0, Y: 0},
			To:   router.Point{X: 3, Y: 3},
		}

		for i := 0; i < 5; i++ {
			Route(tp, grid)
			tp.Reroute++
		}

		Expect(tp.Box.L).To(BeNumerically(">=", 0))
		Expect(tp.Box.B).To(BeNumerically(">=", 0))
		Expect(tp.Box.R).To(BeNumerically("<=", 3))
		Expect(tp.Box.U).To(BeNumerically("<=", 3))
	})

	It("should grow horizontally when vertical edges overflowed", func() {
		grid := router.NewGrid(20, 20, router.NewEdge(1), router.NewEdge(1))
		cm.BuildCost(grid)

		tp := &router.TwoPin{
			From:      router.Point{X: 8, Y: 8},
			To:        router.Point{X: 10, Y: 12},
			Reroute:   1,
			OverflowV: 3,
			OverflowH: 0,
		}

		Route(tp, grid)

		Expect(tp.Box.L).To(BeNumerically("<", 8))
		Expect(tp.Box.R).To(BeNumerically(">", 10))
		Expect(tp.Box.B).To(Equal(8))
		Expect(tp.Box.U).To(Equal(12))
	})

	It("should handle a straight connection", func() {
		grid := router.NewGrid(6, 6, router.NewEdge(4), router.NewEdge(4))
		cm.BuildCost(grid)

		tp := &router.TwoPin{
			From: router.Point{X: 1, Y: 3},
			To:   router.Point{X: 4, Y: 3},
		}

		Route(tp, grid)

		Expect(pathIsChain(tp.Path, tp.From, tp.To)).To(BeTrue())
	})

	It("should return an empty path for coincident endpoints", func() {
		grid := router.NewGrid(4, 4, router.NewEdge(2), router.NewEdge(2))
		cm.BuildCost(grid)

		tp := &router.TwoPin{
			From: router.Point{X: 2, Y: 2},
			To:   router.Point{X: 2, Y: 2},
		}

		Route(tp, grid)

		Expect(tp.Path).To(BeEmpty())
	})
})
