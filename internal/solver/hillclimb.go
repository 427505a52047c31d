package solver

import (
	"fmt"

	"github.com/simquery/optimize-core/internal/oracle"
	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

// HillClimberConfig configures a stochastic hill climber. The zero value is
// not usable; start from DefaultHillClimberConfig.
type HillClimberConfig struct {
	// MaxIterations caps the iteration loop.
	MaxIterations int
	// Replications decides the sample size per evaluation.
	Replications ReplicationSchedule
	// StabilityWindow enables stagnation-based stopping when positive:
	// the solve stops once that many consecutive current solutions are
	// indistinguishable.
	StabilityWindow int
	// StreamNumber selects the solver's random stream.
	StreamNumber int
	// StartingPoint overrides the default random feasible draw when set.
	StartingPoint StartingPointGenerator
}

// DefaultHillClimberConfig returns the default configuration.
func DefaultHillClimberConfig() HillClimberConfig {
	reps, _ := NewFixedReplications(10)
	return HillClimberConfig{
		MaxIterations:   100,
		Replications:    reps,
		StabilityWindow: 5,
		StreamNumber:    1,
	}
}

// HillClimber evaluates one random neighbor of the current solution per
// iteration and moves only on improvement.
type HillClimber struct {
	*Stochastic
	cfg     HillClimberConfig
	checker *SolutionChecker
}

// NewHillClimber creates a stochastic hill climber.
func NewHillClimber(def *problem.Definition, evaluator oracle.Evaluator, provider utils.StreamProvider, cfg HillClimberConfig, opts ...BaseOption) (*HillClimber, error) {
	if cfg.Replications == nil {
		return nil, fmt.Errorf("replication schedule is required")
	}

	base, err := NewBase(def, evaluator, cfg.MaxIterations, opts...)
	if err != nil {
		return nil, err
	}

	var sopts []StochasticOption
	if cfg.StartingPoint != nil {
		sopts = append(sopts, WithStartingPointGenerator(cfg.StartingPoint))
	}
	stochastic, err := NewStochastic(base, provider, cfg.StreamNumber, sopts...)
	if err != nil {
		return nil, err
	}

	var checker *SolutionChecker
	if cfg.StabilityWindow > 0 {
		checker, err = NewSolutionChecker(cfg.StabilityWindow, nil)
		if err != nil {
			return nil, err
		}
	}

	return &HillClimber{Stochastic: stochastic, cfg: cfg, checker: checker}, nil
}

// Initialize evaluates the starting point at the schedule's first count.
func (h *HillClimber) Initialize() error {
	return h.InitializeAt(h.cfg.Replications.Replications(0))
}

// Step evaluates a random neighbor and moves on improvement.
func (h *HillClimber) Step() error {
	current := h.CurrentSolution()
	reps := h.cfg.Replications.Replications(h.Iteration())

	if current == nil || current.IsBad() {
		// Never got a usable starting evaluation; retry initialization
		// instead of walking from the sentinel.
		start, err := h.def.StartingPoint(h.Stream())
		if err != nil {
			return err
		}
		if sol := h.RequestEvaluation(start, reps); sol != nil {
			h.Adopt(sol)
		}
		return nil
	}

	neighbor, err := h.def.RandomNeighbor(current.Input(), h.Stream())
	if err != nil {
		return fmt.Errorf("neighbor generation failed: %w", err)
	}

	candidate := h.RequestEvaluation(neighbor, reps)
	if candidate == nil {
		return nil // oracle unavailable; no-op iteration
	}

	if problem.Compare(candidate, current) < 0 {
		h.Adopt(candidate)
		h.log.Debug("hill climber moved",
			"iteration", h.Iteration(), "input", neighbor.String(), "objective", candidate.Objective())
	}
	if h.checker != nil {
		h.checker.Record(h.CurrentSolution())
	}
	return nil
}

// Done stops on stability when a window is configured.
func (h *HillClimber) Done() (bool, string) {
	if h.checker != nil && h.checker.CheckSolutions() {
		return true, fmt.Sprintf("current solution stable for %d iterations", h.checker.WindowSize())
	}
	return false, ""
}
