package main

import (
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/gridroute/datarecording"
	"github.com/sarchlab/gridroute/draw"
	"github.com/sarchlab/gridroute/engine"
	"github.com/sarchlab/gridroute/monitoring"
)

var routeCmd = &cobra.Command{
	Use:   "route [benchmark]",
	Short: "Route one benchmark file and print the final statistics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().Int64("seed", 1, "Tie-break seed")
	routeCmd.Flags().String("mode", "balanced",
		"Scheduler mode: balanced, congestion, or wirelength")
	routeCmd.Flags().Bool("no-hum", false, "Disable the HUM phase")
	routeCmd.Flags().Bool("no-adaptive-scoring", false,
		"Use one fixed stiffness profile for all phases")
	routeCmd.Flags().String("record", "",
		"Record per-iteration metrics into the SQLite file <value>.sqlite3")
	routeCmd.Flags().Int("monitor", 0,
		"Serve live progress on this port (0 disables)")
	routeCmd.Flags().Bool("open", false,
		"Open the monitoring URL in a browser")
	routeCmd.Flags().String("draw", "",
		"Write the final congestion map to this PPM file")
}

func runRoute(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetInt64("seed")
	modeName, _ := cmd.Flags().GetString("mode")
	noHUM, _ := cmd.Flags().GetBool("no-hum")
	noAdaptive, _ := cmd.Flags().GetBool("no-adaptive-scoring")
	recordPath, _ := cmd.Flags().GetString("record")
	monitorPort, _ := cmd.Flags().GetInt("monitor")
	openBrowser, _ := cmd.Flags().GetBool("open")
	drawPath, _ := cmd.Flags().GetString("draw")

	mode, err := parseMode(modeName)
	if err != nil {
		return err
	}

	log := logrus.New()

	gr := engine.NewGlobalRouter()
	gr.SetLogger(log)
	gr.SetSeed(seed)
	gr.SetMode(mode)
	gr.EnableHUM(!noHUM)
	gr.EnableAdaptiveScoring(!noAdaptive)

	if recordPath != "" {
		rec := datarecording.New(recordPath)
		gr.SetRecorder(rec, xid.New().String())
	}

	if err := gr.LoadFile(args[0]); err != nil {
		return err
	}

	if monitorPort != 0 {
		monitor := monitoring.NewMonitor().WithPortNumber(monitorPort)
		if openBrowser {
			monitor = monitor.WithBrowser()
		}
		monitor.RegisterRouter(gr)
		monitor.StartServer()
	}

	if err := gr.Route(); err != nil {
		return err
	}

	m := gr.PerformanceMetrics()
	fmt.Printf("runtime:        %.2fs\n", m.RuntimeSec)
	fmt.Printf("total overflow: %d\n", m.TotalOverflow)
	fmt.Printf("max overflow:   %d\n", m.MaxOverflow)
	fmt.Printf("wirelength 2D:  %d\n", m.Wirelength2D)
	fmt.Printf("memory RSS:     %d\n", m.MemoryRSS)

	if drawPath != "" {
		err := draw.WriteCongestionFile(
			drawPath, gr.Engine().Grid(), draw.Options{})
		if err != nil {
			return err
		}
		log.Infof("congestion map written to %s", drawPath)
	}

	atexit.Exit(0)
	return nil
}

func parseMode(name string) (engine.Mode, error) {
	switch strings.ToLower(name) {
	case "balanced":
		return engine.ModeBalanced, nil
	case "congestion":
		return engine.ModeCongestion, nil
	case "wirelength":
		return engine.ModeWirelength, nil
	}
	return engine.ModeBalanced, fmt.Errorf("unknown mode %q", name)
}
