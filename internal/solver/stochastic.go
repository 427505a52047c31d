package solver

import (
	"fmt"

	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

// Stochastic extends Base with an owned random-number stream. The stream
// is obtained from a provider by number, never from a process-global
// generator, so a solver's whole sequence of evaluated points is
// reproducible from the stream state. The stream is mutated only by the
// owning solver.
type Stochastic struct {
	*Base
	stream       *utils.RNStream
	streamNumber int
	startGen     StartingPointGenerator
}

// StartingPointGenerator produces the initial feasible input of a solve.
// Implementations may evaluate probes through the solver, but must draw
// randomness only from the solver's own stream.
type StartingPointGenerator interface {
	Generate(s *Stochastic) (problem.InputMap, error)
	Name() string
}

// StochasticOption configures a Stochastic base.
type StochasticOption func(*Stochastic)

// WithStartingPointGenerator overrides the default random feasible draw.
func WithStartingPointGenerator(gen StartingPointGenerator) StochasticOption {
	return func(s *Stochastic) {
		s.startGen = gen
	}
}

// NewStochastic creates the stochastic solver core.
func NewStochastic(base *Base, provider utils.StreamProvider, streamNumber int, opts ...StochasticOption) (*Stochastic, error) {
	if base == nil {
		return nil, fmt.Errorf("solver base is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("stream provider is required")
	}
	s := &Stochastic{
		Base:         base,
		stream:       provider.Stream(streamNumber),
		streamNumber: streamNumber,
		startGen:     RandomStart{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Stream returns the solver's owned random stream.
func (s *Stochastic) Stream() *utils.RNStream {
	return s.stream
}

// StreamNumber returns the stream number this solver was constructed with.
func (s *Stochastic) StreamNumber() int {
	return s.streamNumber
}

// ResetStream rewinds the owned stream to its initial state.
func (s *Stochastic) ResetStream() {
	s.stream.ResetToStart()
}

// AdvanceSubstream moves the owned stream to its next substream.
func (s *Stochastic) AdvanceSubstream() {
	s.stream.NextSubstream()
}

// SetAntithetic toggles antithetic sampling on the owned stream.
func (s *Stochastic) SetAntithetic(antithetic bool) {
	s.stream.SetAntithetic(antithetic)
}

// Initialize draws a feasible starting point, evaluates it, and sets the
// current and best references. The starting point must be input-feasible;
// an infeasible generator output is a precondition violation. When the
// oracle returns nothing the sentinel bad solution is adopted, so the solve
// surfaces a degenerate result instead of crashing.
func (s *Stochastic) Initialize() error {
	return s.InitializeAt(defaultInitialReplications)
}

// defaultInitialReplications is the sample size of the initialization
// evaluation when an algorithm does not specify its own.
const defaultInitialReplications = 10

// InitializeAt is Initialize with an explicit replication count, for
// algorithms whose replication schedule governs the first evaluation too.
func (s *Stochastic) InitializeAt(replications int) error {
	start, err := s.startGen.Generate(s)
	if err != nil {
		return fmt.Errorf("starting point generation failed: %w", err)
	}
	if !s.def.IsFeasible(start) {
		return fmt.Errorf("starting point %s is not input-feasible", start)
	}

	sol := s.RequestEvaluation(start, replications)
	if sol == nil {
		s.log.Warn("oracle returned nothing for starting point, adopting sentinel", "input", start.String())
		sol = s.def.BadSolution()
	}
	s.Adopt(sol)
	s.log.Debug("initialized", "generator", s.startGen.Name(), "start", start.String(), "objective", sol.Objective())
	return nil
}

// RandomStart draws one random feasible point from the problem definition.
type RandomStart struct{}

// Generate draws the starting point.
func (RandomStart) Generate(s *Stochastic) (problem.InputMap, error) {
	return s.def.StartingPoint(s.stream)
}

// Name identifies the generator in logs.
func (RandomStart) Name() string { return "random" }

// BestOfProbes draws several random feasible points, evaluates each at a
// small replication count, and starts from the best. The probe cost is
// charged to the solver's counters like any other evaluation.
type BestOfProbes struct {
	// Probes is the number of random candidates to evaluate.
	Probes int
	// Replications is the sample size of each probe evaluation.
	Replications int
}

// Generate picks the best of the probes.
func (g BestOfProbes) Generate(s *Stochastic) (problem.InputMap, error) {
	if g.Probes <= 0 {
		return problem.InputMap{}, fmt.Errorf("probes must be positive, got %d", g.Probes)
	}
	reps := g.Replications
	if reps <= 0 {
		reps = 1
	}

	candidates := make([]problem.InputMap, 0, g.Probes)
	for i := 0; i < g.Probes; i++ {
		c, err := s.def.StartingPoint(s.stream)
		if err != nil {
			return problem.InputMap{}, err
		}
		candidates = append(candidates, c)
	}

	results := s.RequestEvaluations(candidates, reps)
	if best := bestOf(results); best != nil {
		return best.Input(), nil
	}
	// Oracle gave nothing back; fall back to the first feasible draw.
	return candidates[0], nil
}

// Name identifies the generator in logs.
func (g BestOfProbes) Name() string { return "best-of-probes" }
