// Package engine drives congestion-driven rip-up-and-reroute: it
// aggregates the benchmark into a 2D capacity grid, decomposes nets into
// two-pin connections, and schedules the pattern and HUM routers over
// them until the overflow is gone or stops improving.
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/gridroute/datarecording"
	"github.com/sarchlab/gridroute/ispd"
	"github.com/sarchlab/gridroute/patterns"
	"github.com/sarchlab/gridroute/router"
)

// Nets with more than maxNetPins 3D pins are excluded from routing by
// benchmark convention.
const maxNetPins = 1000

// A routeFunc replaces one two-pin's path under the current cost field.
type routeFunc func(tp *router.TwoPin)

// An Engine owns the grid, the cost model, and the decomposed net list,
// and runs rip-up-and-reroute passes over them.
type Engine struct {
	grid *router.Grid
	cost *router.CostModel
	nets []*router.Net

	adaptiveScoring bool
	fixedSelCost    int
	humEnabled      bool
	humMaxIter      int
	refineIter      int

	log   *logrus.Logger
	rec   datarecording.DataRecorder
	runID string

	cancelled atomic.Bool

	progressLock sync.Mutex
	progress     Progress
}

// A Builder configures and creates engines.
type Builder struct {
	adaptiveScoring bool
	fixedSelCost    int
	humEnabled      bool
	humMaxIter      int
	refineIter      int
	log             *logrus.Logger
	rec             datarecording.DataRecorder
	runID           string
}

// MakeBuilder creates a builder with the default phase configuration.
func MakeBuilder() Builder {
	return Builder{
		adaptiveScoring: true,
		fixedSelCost:    1,
		humEnabled:      true,
		humMaxIter:      10000,
		refineIter:      4,
	}
}

// WithAdaptiveScoring toggles per-phase stiffness selection. When off,
// every phase uses the fixed stiffness for both cost and scoring.
func (b Builder) WithAdaptiveScoring(on bool) Builder {
	b.adaptiveScoring = on
	return b
}

// WithFixedSelCost sets the stiffness used when adaptive scoring is off.
func (b Builder) WithFixedSelCost(sel int) Builder {
	b.fixedSelCost = sel
	return b
}

// WithHUM toggles the HUM phase.
func (b Builder) WithHUM(on bool) Builder {
	b.humEnabled = on
	return b
}

// WithHUMMaxIter bounds the HUM phase iteration count.
func (b Builder) WithHUMMaxIter(n int) Builder {
	b.humMaxIter = n
	return b
}

// WithRefineIter sets the iteration count of each wirelength-refine pass.
func (b Builder) WithRefineIter(n int) Builder {
	b.refineIter = n
	return b
}

// WithLogger sets the progress logger.
func (b Builder) WithLogger(log *logrus.Logger) Builder {
	b.log = log
	return b
}

// WithRecorder attaches a recorder that receives one row per iteration.
func (b Builder) WithRecorder(rec datarecording.DataRecorder, runID string) Builder {
	b.rec = rec
	b.runID = runID
	return b
}

// Build creates an engine, aggregates the benchmark into the 2D grid,
// decomposes the nets, and runs the L-shape pre-route.
func (b Builder) Build(data *ispd.Data) *Engine {
	e := &Engine{
		cost:            router.NewCostModel(0),
		adaptiveScoring: b.adaptiveScoring,
		fixedSelCost:    b.fixedSelCost,
		humEnabled:      b.humEnabled,
		humMaxIter:      b.humMaxIter,
		refineIter:      b.refineIter,
		log:             b.log,
		rec:             b.rec,
		runID:           b.runID,
	}
	if e.log == nil {
		e.log = logrus.New()
	}
	if e.rec != nil {
		e.rec.CreateTable(iterationTable, IterationRecord{})
	}

	e.buildGrid(data)
	e.buildNets(data)
	e.preroute()

	return e
}

// Grid exposes the capacity grid, read-only by convention.
func (e *Engine) Grid() *router.Grid {
	return e.grid
}

// Nets exposes the decomposed nets. After Route completes, the two-pin
// paths carry the final 2D routes for the layer-assignment pass.
func (e *Engine) Nets() []*router.Net {
	return e.nets
}

// Cancel asks the scheduler to stop between iterations. Paths and demands
// stay consistent because a pass always completes before the flag is
// checked.
func (e *Engine) Cancel() {
	e.cancelled.Store(true)
}

// costFn is the cost oracle every router sees: the cached edge cost,
// which is 1.0 for edges locked by the net currently being rerouted.
func (e *Engine) costFn(x, y int, hori bool) float64 {
	return e.grid.At(x, y, hori).Cost
}

// place adds the two-pin's path to the grid demand. Edges pushed into
// overflow record one unit of crime for the next history update.
func (e *Engine) place(tp *router.TwoPin) {
	for _, rp := range tp.Path {
		ed := e.grid.AtRP(rp)
		ed.Demand++
		if ed.Demand > ed.Cap {
			ed.Of++
		}
	}
	tp.Ripped = false
}

// rip removes the two-pin from the grid: it counts where the old path
// overflowed (per axis, for HUM box growth), releases demand, unlocks the
// old edges, and clears the path.
func (e *Engine) rip(tp *router.TwoPin) {
	tp.OverflowV, tp.OverflowH = 0, 0
	for _, rp := range tp.Path {
		ed := e.grid.AtRP(rp)
		if ed.Overflow() {
			if rp.Hori {
				tp.OverflowH++
			} else {
				tp.OverflowV++
			}
		}
		ed.Demand--
	}

	e.addCostTwoPin(tp)

	tp.Path = tp.Path[:0]
	tp.Reroute++
	tp.Ripped = true
}

// delCostTwoPin locks the two-pin's edges at cost 1.0 so the net's own
// wires do not distort the cost field its reroutes see.
func (e *Engine) delCostTwoPin(tp *router.TwoPin) {
	for _, rp := range tp.Path {
		ed := e.grid.AtRP(rp)
		ed.Used++
		ed.Cost = 1.0
	}
}

// addCostTwoPin releases the locks; an edge's cost is recomputed once its
// last lock drops.
func (e *Engine) addCostTwoPin(tp *router.TwoPin) {
	for _, rp := range tp.Path {
		ed := e.grid.AtRP(rp)
		ed.Used--
		if ed.Used == 0 {
			ed.Cost = e.cost.CalcCost(ed)
		}
	}
}

func (e *Engine) delCostNet(net *router.Net) {
	for _, tp := range net.TwoPins {
		e.delCostTwoPin(tp)
	}
}

func (e *Engine) addCostNet(net *router.Net) {
	for _, tp := range net.TwoPins {
		e.addCostTwoPin(tp)
	}
}

// preroute gives every two-pin an initial L-shape under profile 0.
func (e *Engine) preroute() {
	e.cost.SetSelCost(e.selCost(0))
	e.cost.BuildCost(e.grid)
	e.sortForPass()

	for _, net := range e.nets {
		e.delCostNet(net)
		for _, tp := range net.TwoPins {
			patterns.LShape(tp, e.costFn)
			e.place(tp)
			e.delCostTwoPin(tp)
		}
		e.addCostNet(net)
	}

	e.checkOverflow()
}

func (e *Engine) selCost(phase int) int {
	if !e.adaptiveScoring {
		return e.fixedSelCost
	}
	return phase
}
