package study

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/simquery/optimize-core/internal/solver"
	"github.com/simquery/optimize-core/pkg/config"
	"github.com/simquery/optimize-core/pkg/logger"
	"github.com/simquery/optimize-core/pkg/utils"
)

// oracleStreamNumber keeps simulation noise off the solver streams.
const oracleStreamNumber = 0

// Runner executes one study end to end.
type Runner struct {
	study *config.Study
	log   *slog.Logger
}

// NewRunner creates a runner for a validated study.
func NewRunner(study *config.Study) (*Runner, error) {
	if study == nil {
		return nil, fmt.Errorf("study is required")
	}
	return &Runner{
		study: study,
		log:   logger.Default,
	}, nil
}

// WithLogger sets the runner's logger.
func (r *Runner) WithLogger(log *slog.Logger) *Runner {
	r.log = log
	return r
}

// Run builds the problem, oracle, and solver from the study and drives the
// solve to completion. A positive restart count wraps the solver so each
// restart runs from an independent stream.
func (r *Runner) Run() (*solver.Result, error) {
	runID := uuid.NewString()
	started := time.Now()

	def, err := BuildDefinition(r.study.Problem)
	if err != nil {
		return nil, fmt.Errorf("building problem: %w", err)
	}

	provider := utils.NewSeededProvider(r.study.Seed)
	eval, err := BuildEvaluator(r.study.Oracle, def.Dimension(), provider.Stream(oracleStreamNumber))
	if err != nil {
		return nil, fmt.Errorf("building oracle: %w", err)
	}

	log := r.log.With("run_id", runID, "algorithm", r.study.Solver.Algorithm)
	log.Info("study started",
		"name", r.study.Name,
		"inputs", def.Dimension(),
		"benchmark", r.study.Oracle.Benchmark,
		"restarts", r.study.Restarts)

	opts := []solver.BaseOption{solver.WithLogger(log)}

	var s solver.Solver
	if r.study.Restarts > 0 {
		factory := func(restart int) (solver.Solver, error) {
			return BuildSolver(r.study.Solver, def, eval, provider, restart, opts...)
		}
		s, err = solver.NewRandomRestart(def, eval, r.study.Restarts, factory, opts...)
	} else {
		s, err = BuildSolver(r.study.Solver, def, eval, provider, 0, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("building solver: %w", err)
	}

	result, err := solver.Run(s)
	if err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}

	log.Info("study finished",
		"elapsed", time.Since(started).Round(time.Millisecond),
		"iterations", result.Iterations,
		"oracle_calls", result.OracleCalls,
		"replications", result.ReplicationsRequested,
		"converged", result.Converged,
		"reason", result.ConvergenceReason,
		"best", result.Best.Input().String(),
		"objective", result.Best.Objective())
	return result, nil
}
