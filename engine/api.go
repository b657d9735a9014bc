package engine

import (
	"errors"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/gridroute/datarecording"
	"github.com/sarchlab/gridroute/ispd"
	"github.com/sarchlab/gridroute/router"
)

// A Mode hints the scheduler toward its optimization target.
type Mode int

// Scheduler modes. Congestion spends more HUM iterations and fewer
// refine passes; Wirelength spends more refine passes and keeps the
// default HUM budget.
const (
	ModeBalanced Mode = iota
	ModeCongestion
	ModeWirelength
)

// ErrNotLoaded is returned by Route when no benchmark has been loaded.
var ErrNotLoaded = errors.New("gridroute: benchmark not loaded")

// PerformanceMetrics reports the outcome of a route call. Residual
// overflow is a legal but degraded outcome, not an error.
type PerformanceMetrics struct {
	RuntimeSec    float64
	TotalOverflow int
	MaxOverflow   int
	Wirelength2D  int64
	MemoryRSS     uint64
}

// A GlobalRouter is the public call surface of the 2D router.
type GlobalRouter struct {
	data   *ispd.Data
	engine *Engine
	loaded bool

	mode            Mode
	adaptiveScoring bool
	humEnabled      bool
	seed            int64

	log   *logrus.Logger
	rec   datarecording.DataRecorder
	runID string

	metrics PerformanceMetrics
}

// NewGlobalRouter creates a router with balanced mode, adaptive scoring,
// and HUM enabled.
func NewGlobalRouter() *GlobalRouter {
	return &GlobalRouter{
		mode:            ModeBalanced,
		adaptiveScoring: true,
		humEnabled:      true,
		seed:            1,
		log:             logrus.New(),
	}
}

// LoadFile parses a benchmark file and prepares the engine.
func (g *GlobalRouter) LoadFile(path string) error {
	data, err := ispd.ParseFile(path)
	if err != nil {
		return err
	}
	g.Init(data)
	return nil
}

// Init takes a parsed benchmark, builds the grid, decomposes the nets,
// and pre-routes them.
func (g *GlobalRouter) Init(data *ispd.Data) {
	router.SetSeed(g.seed)

	g.data = data
	g.engine = g.makeEngine(data)
	g.loaded = true
}

// SetMode selects the scheduler's optimization target. Takes effect at
// the next Init.
func (g *GlobalRouter) SetMode(m Mode) {
	g.mode = m
}

// EnableAdaptiveScoring toggles per-phase stiffness selection.
func (g *GlobalRouter) EnableAdaptiveScoring(on bool) {
	g.adaptiveScoring = on
}

// EnableHUM toggles the HUM phase.
func (g *GlobalRouter) EnableHUM(on bool) {
	g.humEnabled = on
}

// SetSeed fixes the tie-break seed for reproducible runs. Takes effect
// at the next Init.
func (g *GlobalRouter) SetSeed(seed int64) {
	g.seed = seed
}

// SetLogger replaces the progress logger.
func (g *GlobalRouter) SetLogger(log *logrus.Logger) {
	g.log = log
}

// SetRecorder attaches a telemetry recorder; runID tags the recorded
// rows so multiple runs can share one database.
func (g *GlobalRouter) SetRecorder(rec datarecording.DataRecorder, runID string) {
	g.rec = rec
	g.runID = runID
}

// Engine exposes the running engine for monitoring. Nil before Init.
func (g *GlobalRouter) Engine() *Engine {
	return g.engine
}

// Nets exposes the routed nets; the layer-assignment pass reads each
// two-pin's path, endpoints, and flags from here after Route completes.
func (g *GlobalRouter) Nets() []*router.Net {
	if g.engine == nil {
		return nil
	}
	return g.engine.Nets()
}

// Cancel stops the route call between iterations.
func (g *GlobalRouter) Cancel() {
	if g.engine != nil {
		g.engine.Cancel()
	}
}

// Route runs the phase sequence and collects performance metrics.
func (g *GlobalRouter) Route() error {
	if !g.loaded {
		return ErrNotLoaded
	}

	start := time.Now()
	g.engine.Route()

	s := g.engine.Progress().Stats
	g.metrics = PerformanceMetrics{
		RuntimeSec:    time.Since(start).Seconds(),
		TotalOverflow: s.TotalOverflow,
		MaxOverflow:   s.MaxOverflow,
		Wirelength2D:  int64(s.Wirelength),
		MemoryRSS:     processRSS(),
	}

	return nil
}

// PerformanceMetrics returns the metrics of the last Route call.
func (g *GlobalRouter) PerformanceMetrics() PerformanceMetrics {
	return g.metrics
}

// Cleanup drops the grid, the routed paths, and the metrics.
func (g *GlobalRouter) Cleanup() {
	g.data = nil
	g.engine = nil
	g.loaded = false
	g.metrics = PerformanceMetrics{}
}

func (g *GlobalRouter) makeEngine(data *ispd.Data) *Engine {
	b := MakeBuilder().
		WithAdaptiveScoring(g.adaptiveScoring).
		WithHUM(g.humEnabled).
		WithLogger(g.log)

	switch g.mode {
	case ModeCongestion:
		b = b.WithHUMMaxIter(20000).WithRefineIter(2)
	case ModeWirelength:
		b = b.WithRefineIter(8)
	}

	if g.rec != nil {
		b = b.WithRecorder(g.rec, g.runID)
	}

	return b.Build(data)
}

func processRSS() uint64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return 0
	}
	return info.RSS
}
