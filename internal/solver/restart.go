package solver

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/simquery/optimize-core/internal/oracle"
	"github.com/simquery/optimize-core/internal/problem"
)

// SolverFactory builds a fresh inner solver for one restart. The restart
// index lets factories vary stream numbers so each restart draws an
// independent starting point.
type SolverFactory func(restart int) (Solver, error)

// RandomRestart is a meta-solver: each outer iteration clears the
// evaluator's cache, builds a fresh inner solver, runs it to completion,
// absorbs its oracle cost, and adopts its best solution unconditionally as
// the new current solution. Restarts are independent; the overall best is
// tracked separately.
type RandomRestart struct {
	*Base
	factory SolverFactory
}

// NewRandomRestart creates a restart wrapper that runs the inner solver
// the given number of times. When the evaluator supports cache
// invalidation, each restart clears it to avoid restart bias from
// memoized results.
func NewRandomRestart(def *problem.Definition, evaluator oracle.Evaluator, restarts int, factory SolverFactory, opts ...BaseOption) (*RandomRestart, error) {
	if factory == nil {
		return nil, fmt.Errorf("solver factory is required")
	}
	base, err := NewBase(def, evaluator, restarts, opts...)
	if err != nil {
		return nil, err
	}
	return &RandomRestart{Base: base, factory: factory}, nil
}

// Initialize is a no-op: every restart produces its own starting point.
func (r *RandomRestart) Initialize() error {
	return nil
}

// Step runs one full restart.
func (r *RandomRestart) Step() error {
	restart := r.Iteration()

	if cache, ok := r.evaluator.(oracle.Cache); ok {
		cache.Clear()
	}

	inner, err := r.factory(restart)
	if err != nil {
		return fmt.Errorf("restart %d: building inner solver: %w", restart, err)
	}

	runID := uuid.NewString()
	r.log.Info("restart begin", "restart", restart, "run_id", runID)

	result, err := Run(inner)
	if err != nil {
		return fmt.Errorf("restart %d: %w", restart, err)
	}

	r.AddCost(result.OracleCalls, result.ReplicationsRequested)
	r.Adopt(result.Best)

	r.log.Info("restart finished",
		"restart", restart,
		"run_id", runID,
		"inner_iterations", result.Iterations,
		"inner_oracle_calls", result.OracleCalls,
		"best", bestObjective(result.Best))
	return nil
}

// Done never stops early: the restart count is the budget.
func (r *RandomRestart) Done() (bool, string) {
	return false, ""
}

func bestObjective(sol *problem.Solution) float64 {
	if sol == nil {
		return math.NaN()
	}
	return sol.Objective()
}
