package engine

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/gridroute/hum"
	"github.com/sarchlab/gridroute/patterns"
	"github.com/sarchlab/gridroute/router"
)

// A PhaseResult tells the scheduler why a phase stopped.
type PhaseResult int

// Phase termination conditions. Converged short-circuits the remaining
// congestion phases; Plateau hands control to the next phase with
// overflow still positive.
const (
	Exhausted PhaseResult = iota
	Converged
	Plateau
	Cancelled
)

func (r PhaseResult) String() string {
	switch r {
	case Converged:
		return "converged"
	case Plateau:
		return "plateau"
	case Cancelled:
		return "cancelled"
	}
	return "exhausted"
}

// plateauWindow is how many consecutive iterations without a strict
// overflow improvement a phase tolerates before giving up.
const plateauWindow = 100

// Progress is a snapshot of the scheduler state, safe to read from
// another goroutine while Route runs.
type Progress struct {
	Phase     string
	Iteration int
	Stats     OverflowStats
	Done      bool
}

// Progress returns the latest scheduler snapshot.
func (e *Engine) Progress() Progress {
	e.progressLock.Lock()
	defer e.progressLock.Unlock()
	return e.progress
}

func (e *Engine) setProgressPhase(phase string, iter int) {
	e.progressLock.Lock()
	e.progress.Phase = phase
	e.progress.Iteration = iter
	e.progressLock.Unlock()
}

func (e *Engine) setProgressStats(s OverflowStats) {
	e.progressLock.Lock()
	e.progress.Stats = s
	e.progressLock.Unlock()
}

func (e *Engine) setProgressDone() {
	e.progressLock.Lock()
	e.progress.Done = true
	e.progressLock.Unlock()
}

const iterationTable = "routing_iterations"

// An IterationRecord is one row of recorded telemetry per iteration.
type IterationRecord struct {
	RunID         string
	Phase         string
	Iteration     int
	TotalOverflow int
	MaxOverflow   int
	Wirelength    int
}

func (e *Engine) report(phase string, iter int, s OverflowStats) {
	e.log.WithFields(logrus.Fields{
		"phase":     phase,
		"iteration": iter,
		"overflow":  s.TotalOverflow,
		"max":       s.MaxOverflow,
		"wlen":      s.Wirelength,
	}).Info("routing iteration")

	if e.rec != nil {
		e.rec.InsertData(iterationTable, IterationRecord{
			RunID:         e.runID,
			Phase:         phase,
			Iteration:     iter,
			TotalOverflow: s.TotalOverflow,
			MaxOverflow:   s.MaxOverflow,
			Wirelength:    s.Wirelength,
		})
	}
}

// routing runs up to iters rip-up-and-reroute passes with the given
// router under the given stiffness profile.
func (e *Engine) routing(name string, route routeFunc, iters, selCost int) PhaseResult {
	e.cost.SetSelCost(e.selCost(selCost))
	e.cost.BuildCost(e.grid)

	best := math.MaxInt
	stall := 0

	for it := 1; it <= iters; it++ {
		if e.cancelled.Load() {
			return Cancelled
		}
		e.setProgressPhase(name, it)

		e.ripupPlace(route)
		s := e.checkOverflow()
		e.report(name, it, s)

		if s.TotalOverflow == 0 {
			return Converged
		}
		if s.TotalOverflow < best {
			best = s.TotalOverflow
			stall = 0
		} else {
			stall++
			if stall >= plateauWindow {
				return Plateau
			}
		}
	}

	return Exhausted
}

// refine runs wirelength-refine passes. Refinement never admits a path
// that creates overflow; if overflow shows up regardless, the phase
// aborts immediately.
func (e *Engine) refine(name string, route routeFunc, iters int) PhaseResult {
	e.cost.SetSelCost(e.selCost(0))
	e.cost.BuildCost(e.grid)

	for it := 1; it <= iters; it++ {
		if e.cancelled.Load() {
			return Cancelled
		}
		e.setProgressPhase(name, it)

		e.ripupPlaceWL(route)
		s := e.checkOverflow()
		e.report(name, it, s)

		if s.TotalOverflow > 0 {
			return Exhausted
		}
	}

	return Converged
}

// Route runs the configured phase sequence: pattern phases legalize the
// easy nets, monotonic adds cost-aware detours, HUM with history handles
// the stubborn minority, and wirelength refinement runs only once the
// overflow is zero.
func (e *Engine) Route() PhaseResult {
	lshape := func(tp *router.TwoPin) { patterns.LShape(tp, e.costFn) }
	zshape := func(tp *router.TwoPin) { patterns.ZShape(tp, e.costFn) }
	mono := func(tp *router.TwoPin) { patterns.Monotonic(tp, e.costFn) }
	humRoute := func(tp *router.TwoPin) { hum.Route(tp, e.grid) }

	phases := []struct {
		name    string
		route   routeFunc
		iters   int
		selCost int
	}{
		{"lshape", lshape, 1, 0},
		{"zshape", zshape, 2, 0},
		{"monotonic", mono, 5, 1},
	}
	if e.humEnabled {
		phases = append(phases, struct {
			name    string
			route   routeFunc
			iters   int
			selCost int
		}{"hum", humRoute, e.humMaxIter, 2})
	}

	result := Exhausted
	for _, p := range phases {
		result = e.routing(p.name, p.route, p.iters, p.selCost)
		if result == Converged || result == Cancelled {
			break
		}
	}
	if result == Cancelled {
		e.setProgressDone()
		return result
	}

	if e.Progress().Stats.TotalOverflow == 0 {
		for _, p := range []struct {
			name  string
			route routeFunc
		}{
			{"refine-monotonic", mono},
			{"refine-zshape", zshape},
			{"refine-lshape", lshape},
		} {
			r := e.refine(p.name, p.route, e.refineIter)
			if r == Cancelled || r == Exhausted {
				result = r
				break
			}
		}
	}

	e.setProgressDone()
	return result
}
