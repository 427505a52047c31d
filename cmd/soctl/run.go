package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simquery/optimize-core/internal/study"
	"github.com/simquery/optimize-core/pkg/config"
	"github.com/simquery/optimize-core/pkg/logger"
)

var studyFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a study from a YAML file",
	Long:  `Loads a study file, solves it, and prints the best solution found.`,
	RunE:  runStudy,
}

func init() {
	runCmd.Flags().StringVarP(&studyFile, "file", "f", "", "Study file path (required)")
	runCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(runCmd)
}

func runStudy(cmd *cobra.Command, args []string) error {
	s, err := config.LoadStudy(studyFile)
	if err != nil {
		return err
	}

	// The study file's log level wins unless the flag was set explicitly.
	if !cmd.Flags().Changed("log-level") {
		logger.SetDefault(logger.NewText(s.LogLevel, os.Stderr))
	}

	runner, err := study.NewRunner(s)
	if err != nil {
		return err
	}
	result, err := runner.Run()
	if err != nil {
		return err
	}

	best := result.Best
	fmt.Printf("best input:   %s\n", best.Input())
	fmt.Printf("objective:    %g (std error %g, %d replications)\n",
		best.Objective(), best.StdError(), best.Replications())
	fmt.Printf("iterations:   %d\n", result.Iterations)
	fmt.Printf("oracle calls: %d (%d replications requested)\n",
		result.OracleCalls, result.ReplicationsRequested)
	if result.Converged {
		fmt.Printf("converged:    %s\n", result.ConvergenceReason)
	} else {
		fmt.Printf("stopped:      %s\n", result.ConvergenceReason)
	}
	return nil
}
