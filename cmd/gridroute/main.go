// The gridroute command routes ISPD 2008 global-routing benchmarks on
// the 2D grid and reports overflow and wirelength statistics.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use: "gridroute",
	Short: "Gridroute is a congestion-driven 2D global router for " +
		"ISPD 2008 benchmarks.",
	Long: `Gridroute decomposes multi-pin nets into two-pin connections and ` +
		`legalizes them with rip-up-and-reroute over L-shape, Z-shape, ` +
		`monotonic, and history-based (HUM) path search.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// An optional .env in the working directory is loaded into the
		// process environment. Flag defaults are not read from it.
		_ = godotenv.Load()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
