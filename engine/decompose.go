package engine

import (
	"container/heap"

	"github.com/sarchlab/gridroute/ispd"
	"github.com/sarchlab/gridroute/router"
)

// buildGrid aggregates the layered benchmark capacities into the 2D grid
// and applies the per-edge capacity adjustments.
func (e *Engine) buildGrid(data *ispd.Data) {
	minNet := average(data.MinimumWidth) + average(data.MinimumSpacing)
	if minNet < 1 {
		minNet = 1
	}

	vertCap := sum(data.VerticalCapacity) / minNet
	horiCap := sum(data.HorizontalCapacity) / minNet

	e.grid = router.NewGrid(
		data.NumXGrid, data.NumYGrid,
		router.NewEdge(vertCap), router.NewEdge(horiCap))

	for _, adj := range data.CapacityAdjs {
		g1, g2 := adj.Grid1, adj.Grid2
		if g1.Z != g2.Z {
			continue
		}
		z := g1.Z - 1
		if z < 0 || z >= data.NumLayer {
			continue
		}

		lx, rx := min(g1.X, g2.X), max(g1.X, g2.X)
		ly, ry := min(g1.Y, g2.Y), max(g1.Y, g2.Y)
		if (rx-lx)+(ry-ly) != 1 {
			continue
		}

		hori := rx-lx == 1
		layerCap := data.VerticalCapacity[z]
		if hori {
			layerCap = data.HorizontalCapacity[z]
		}

		reduce := (layerCap - adj.ReducedCapacityLevel) / minNet
		ed := e.grid.At(lx, ly, hori)
		ed.Cap = max(0, ed.Cap-reduce)
	}

	e.cost.BuildCost(e.grid)
}

// buildNets translates pins to tile coordinates, filters out pathological
// and single-tile nets, and decomposes the rest into two-pin spanning
// trees.
func (e *Engine) buildNets(data *ispd.Data) {
	e.nets = e.nets[:0]

	for _, in := range data.Nets {
		net := &router.Net{Name: in.Name, ID: in.ID}

		seen3D := make(map[router.Point]struct{}, len(in.Pins))
		seen2D := make(map[[2]int]struct{}, len(in.Pins))
		for _, p := range in.Pins {
			x := (p.X - data.LowerLeftX) / data.TileWidth
			y := (p.Y - data.LowerLeftY) / data.TileHeight
			z := p.Z - 1

			p3 := router.Point{X: x, Y: y, Z: z}
			if _, ok := seen3D[p3]; !ok {
				seen3D[p3] = struct{}{}
				net.Pin3D = append(net.Pin3D, p3)
			}
			if _, ok := seen2D[[2]int{x, y}]; !ok {
				seen2D[[2]int{x, y}] = struct{}{}
				net.Pin2D = append(net.Pin2D, router.Point{X: x, Y: y})
			}
		}

		if len(net.Pin3D) > maxNetPins || len(net.Pin2D) <= 1 {
			continue
		}

		net.TwoPins = spanningTwoPins(net.Pin2D)
		e.nets = append(e.nets, net)
	}
}

type pinEdge struct {
	dist, from, to int
}

type pinEdgeHeap []pinEdge

func (h pinEdgeHeap) Len() int { return len(h) }

func (h pinEdgeHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }

func (h pinEdgeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pinEdgeHeap) Push(x any) { *h = append(*h, x.(pinEdge)) }

func (h *pinEdgeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// spanningTwoPins grows a Prim-style MST over the net's distinct 2D pins
// under Manhattan distance and emits one two-pin per tree edge.
func spanningTwoPins(pins []router.Point) []*router.TwoPin {
	n := len(pins)
	twoPins := make([]*router.TwoPin, 0, n-1)

	visited := make([]bool, n)
	visited[0] = true

	pq := &pinEdgeHeap{}
	heap.Init(pq)
	pushFrom := func(i int) {
		for j := 0; j < n; j++ {
			if !visited[j] {
				heap.Push(pq, pinEdge{dist: manhattan(pins[i], pins[j]), from: i, to: j})
			}
		}
	}
	pushFrom(0)

	for len(twoPins) < n-1 && pq.Len() > 0 {
		ed := heap.Pop(pq).(pinEdge)
		if visited[ed.to] {
			continue
		}
		visited[ed.to] = true

		twoPins = append(twoPins, &router.TwoPin{
			From: pins[ed.from],
			To:   pins[ed.to],
		})
		pushFrom(ed.to)
	}

	return twoPins
}

func manhattan(a, b router.Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sum(v []int) int {
	s := 0
	for _, x := range v {
		s += x
	}
	return s
}

func average(v []int) int {
	if len(v) == 0 {
		return 0
	}
	return sum(v) / len(v)
}
