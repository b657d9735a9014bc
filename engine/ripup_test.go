package engine

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gridroute/ispd"
	"github.com/sarchlab/gridroute/patterns"
	"github.com/sarchlab/gridroute/router"
)

func snapshotPaths(e *Engine) map[*router.TwoPin][]router.RPoint {
	paths := map[*router.TwoPin][]router.RPoint{}
	for _, net := range e.Nets() {
		for _, tp := range net.TwoPins {
			paths[tp] = append([]router.RPoint{}, tp.Path...)
		}
	}
	return paths
}

var _ = Describe("RipupPlace", func() {
	var (
		e    *Engine
		mono routeFunc
	)

	BeforeEach(func() {
		// Two identical nets across a tight 3x3 grid provoke overflow
		// on the shared L-shape.
		data := simpleData(3, 3, 1, 1,
			netOf("n1", 1,
				ispd.Pin{X: 0, Y: 0, Z: 1},
				ispd.Pin{X: 20, Y: 20, Z: 1}),
			netOf("n2", 2,
				ispd.Pin{X: 0, Y: 0, Z: 1},
				ispd.Pin{X: 20, Y: 20, Z: 1}))
		e = buildEngine(data)
		mono = func(tp *router.TwoPin) { patterns.Monotonic(tp, e.costFn) }
	})

	It("should drain every cost lock by the end of a pass", func() {
		e.ripupPlace(mono)

		Expect(allUsedZero(e)).To(BeTrue())
	})

	It("should keep demand consistent with the owned paths", func() {
		for i := 0; i < 3; i++ {
			e.ripupPlace(mono)
			Expect(demandMatchesPaths(e)).To(BeTrue())
		}
	})

	It("should only reroute overflowed two-pins", func() {
		e.markOverflow()
		before := snapshotPaths(e)

		e.ripupPlace(mono)

		for _, net := range e.Nets() {
			for _, tp := range net.TwoPins {
				if !tp.Overflow {
					Expect(tp.Path).To(Equal(before[tp]))
				}
			}
		}
	})

	It("should keep paths contiguous after rerouting", func() {
		e.ripupPlace(mono)

		for _, net := range e.Nets() {
			for _, tp := range net.TwoPins {
				Expect(pathIsChain(tp.Path, tp.From, tp.To)).To(BeTrue())
			}
		}
	})

	It("should be idempotent on a grid with slack", func() {
		data := simpleData(2, 2, 10, 20,
			netOf("n1", 1,
				ispd.Pin{X: 0, Y: 0, Z: 1},
				ispd.Pin{X: 10, Y: 10, Z: 1}))
		slack := buildEngine(data)
		lshape := func(tp *router.TwoPin) { patterns.LShape(tp, slack.costFn) }

		slack.ripupPlace(lshape)
		first := snapshotPaths(slack)
		slack.ripupPlace(lshape)

		for tp, path := range first {
			Expect(tp.Path).To(Equal(path))
		}
	})
})

var _ = Describe("RipupPlaceWL", func() {
	It("should never create overflow while refining", func() {
		data := simpleData(4, 4, 2, 2,
			netOf("n1", 1,
				ispd.Pin{X: 0, Y: 0, Z: 1},
				ispd.Pin{X: 30, Y: 30, Z: 1}),
			netOf("n2", 2,
				ispd.Pin{X: 0, Y: 30, Z: 1},
				ispd.Pin{X: 30, Y: 0, Z: 1}))
		e := buildEngine(data)

		e.Route()
		s := e.checkOverflow()
		Expect(s.TotalOverflow).To(Equal(0))

		mono := func(tp *router.TwoPin) { patterns.Monotonic(tp, e.costFn) }
		for i := 0; i < 3; i++ {
			e.ripupPlaceWL(mono)
			s = e.checkOverflow()
			Expect(s.TotalOverflow).To(Equal(0))
			Expect(allUsedZero(e)).To(BeTrue())
		}
	})

	It("should keep a path that cannot be shortened", func() {
		data := simpleData(2, 2, 10, 20,
			netOf("n1", 1,
				ispd.Pin{X: 0, Y: 0, Z: 1},
				ispd.Pin{X: 10, Y: 10, Z: 1}))
		e := buildEngine(data)

		before := snapshotPaths(e)
		mono := func(tp *router.TwoPin) { patterns.Monotonic(tp, e.costFn) }
		e.ripupPlaceWL(mono)

		for tp, path := range before {
			Expect(tp.Path).To(HaveLen(len(path)))
		}
		Expect(demandMatchesPaths(e)).To(BeTrue())
	})
})
