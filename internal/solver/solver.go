package solver

import (
	"fmt"
	"log/slog"

	"github.com/simquery/optimize-core/internal/oracle"
	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/logger"
)

// Solver is the iteration contract every search algorithm implements.
// Run drives it: Initialize once, then Step until Done reports true or the
// iteration cap is reached.
type Solver interface {
	// Initialize produces and evaluates a starting point, setting both the
	// current and best solution references.
	Initialize() error
	// Step performs one algorithm-specific iteration. It must update the
	// current solution and may update the best solution. A step that gets
	// nothing back from the oracle is a no-op, not an error.
	Step() error
	// Done reports whether the stopping criteria are satisfied, with a
	// human-readable reason.
	Done() (bool, string)
	// Core exposes the shared iteration state.
	Core() *Base
}

// Result is the outcome of a full solve.
type Result struct {
	Best                  *problem.Solution
	Current               *problem.Solution
	Iterations            int
	OracleCalls           int
	ReplicationsRequested int
	Converged             bool
	ConvergenceReason     string
}

// Base holds the iteration state shared by every solver: the problem, the
// evaluator, the iteration counter, current/best solutions, and the
// oracle-cost counters. Every evaluation goes through RequestEvaluations so
// the cost counters stay authoritative.
type Base struct {
	def       *problem.Definition
	evaluator oracle.Evaluator
	log       *slog.Logger

	maxIterations int
	iteration     int

	current *problem.Solution
	best    *problem.Solution

	oracleCalls           int
	replicationsRequested int

	progress func(iteration int, best float64)
}

// BaseOption configures a Base at construction time.
type BaseOption func(*Base)

// WithLogger sets the solver's logger.
func WithLogger(log *slog.Logger) BaseOption {
	return func(b *Base) {
		b.log = log
	}
}

// WithProgress registers a callback invoked after every iteration with the
// iteration number and best objective so far.
func WithProgress(fn func(iteration int, best float64)) BaseOption {
	return func(b *Base) {
		b.progress = fn
	}
}

// NewBase creates the shared solver core.
func NewBase(def *problem.Definition, evaluator oracle.Evaluator, maxIterations int, opts ...BaseOption) (*Base, error) {
	if def == nil {
		return nil, fmt.Errorf("problem definition is required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if maxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", maxIterations)
	}
	b := &Base{
		def:           def,
		evaluator:     evaluator,
		log:           logger.Default,
		maxIterations: maxIterations,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Core returns the base itself, satisfying the Solver interface for
// embedders.
func (b *Base) Core() *Base {
	return b
}

// Definition returns the problem definition.
func (b *Base) Definition() *problem.Definition {
	return b.def
}

// Logger returns the solver's logger.
func (b *Base) Logger() *slog.Logger {
	return b.log
}

// Iteration returns the current iteration number (0 before the first step).
func (b *Base) Iteration() int {
	return b.iteration
}

// MaxIterations returns the iteration cap.
func (b *Base) MaxIterations() int {
	return b.maxIterations
}

// CurrentSolution returns the current solution reference.
func (b *Base) CurrentSolution() *problem.Solution {
	return b.current
}

// BestSolution returns the best solution found so far.
func (b *Base) BestSolution() *problem.Solution {
	return b.best
}

// NumOracleCalls returns the total number of input evaluations requested.
func (b *Base) NumOracleCalls() int {
	return b.oracleCalls
}

// NumReplicationsRequested returns the total replications requested across
// all evaluations. This is the authoritative cost metric.
func (b *Base) NumReplicationsRequested() int {
	return b.replicationsRequested
}

// Adopt sets the current solution unconditionally and promotes it to best
// only when it compares better. Current and best may diverge; algorithms
// such as retrospective approximation rely on that.
func (b *Base) Adopt(sol *problem.Solution) {
	if sol == nil {
		return
	}
	b.current = sol
	if b.best == nil || problem.Compare(sol, b.best) < 0 {
		b.best = sol
	}
}

// AddCost adds externally accounted oracle cost to this solver's counters.
// Meta-solvers use it to absorb an inner solver's totals.
func (b *Base) AddCost(oracleCalls, replications int) {
	b.oracleCalls += oracleCalls
	b.replicationsRequested += replications
}

// RequestEvaluation evaluates a single input at the given replication
// count. It returns nil when the oracle produced no usable result; the
// triggering step should degrade to a no-op.
func (b *Base) RequestEvaluation(input problem.InputMap, replications int) *problem.Solution {
	results := b.RequestEvaluations([]problem.InputMap{input}, replications)
	return results[input.Key()]
}

// RequestEvaluations evaluates a set of inputs at the given replication
// count. It is the sole path to the evaluator: the cost counters are
// incremented here. Results are keyed by input map key; absent keys mean
// the oracle failed for that input. An evaluator error is treated as
// oracle unavailability and yields an empty result set.
func (b *Base) RequestEvaluations(inputs []problem.InputMap, replications int) map[string]*problem.Solution {
	results := make(map[string]*problem.Solution, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	b.oracleCalls += len(inputs)
	b.replicationsRequested += replications * len(inputs)

	solutions, err := b.evaluator.Evaluate(inputs, replications)
	if err != nil {
		b.log.Warn("oracle unavailable, treating iteration as no-op",
			"iteration", b.iteration, "inputs", len(inputs), "error", err)
		return results
	}
	for _, sol := range solutions {
		results[sol.Input().Key()] = sol
	}
	if len(results) < len(inputs) {
		b.log.Debug("oracle returned partial results",
			"iteration", b.iteration, "requested", len(inputs), "returned", len(results))
	}
	return results
}

// bestOf returns the best solution in a result set, or nil when empty.
func bestOf(results map[string]*problem.Solution) *problem.Solution {
	var best *problem.Solution
	for _, sol := range results {
		if best == nil || problem.Compare(sol, best) < 0 {
			best = sol
		}
	}
	return best
}

// Run drives a solver to completion: Initialize, then Step until Done or
// the iteration cap. The cap is an absolute backstop, so a solve always
// terminates. The returned result carries the sentinel bad solution only
// when no feasible point was ever evaluated.
func Run(s Solver) (*Result, error) {
	b := s.Core()

	if err := s.Initialize(); err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}

	converged := false
	reason := "max iterations reached"

	for b.iteration = 1; b.iteration <= b.maxIterations; b.iteration++ {
		if err := s.Step(); err != nil {
			return nil, fmt.Errorf("iteration %d failed: %w", b.iteration, err)
		}
		if b.progress != nil && b.best != nil {
			b.progress(b.iteration, b.best.Objective())
		}
		if done, why := s.Done(); done {
			converged = true
			reason = why
			break
		}
	}
	if b.iteration > b.maxIterations {
		b.iteration = b.maxIterations
	}

	b.log.Info("solve finished",
		"iterations", b.iteration,
		"oracle_calls", b.oracleCalls,
		"replications", b.replicationsRequested,
		"converged", converged,
		"reason", reason)

	return &Result{
		Best:                  b.best,
		Current:               b.current,
		Iterations:            b.iteration,
		OracleCalls:           b.oracleCalls,
		ReplicationsRequested: b.replicationsRequested,
		Converged:             converged,
		ConvergenceReason:     reason,
	}, nil
}
