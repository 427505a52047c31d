package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/simquery/optimize-core/pkg/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "soctl",
	Short: "Simulation-optimization studies over noisy oracles",
	Long: `soctl runs simulation-optimization studies: it searches a bounded
lattice of decision variables for the input that minimizes a noisy
simulation objective, using hill climbing, simulated annealing,
cross-entropy, or R-SPLINE.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDefault(logger.NewText(logLevel, os.Stderr))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
