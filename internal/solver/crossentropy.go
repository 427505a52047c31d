package solver

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/simquery/optimize-core/internal/oracle"
	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

// SampleSizer decides the population size per iteration. Adaptive schemes
// inject their own; the default is constant.
type SampleSizer func(iteration int) int

// EliteSizer decides the elite-subset size for a population of the given
// size.
type EliteSizer func(iteration, sampleSize int) int

// CrossEntropyConfig configures a cross-entropy solver.
type CrossEntropyConfig struct {
	// MaxIterations caps the iteration loop.
	MaxIterations int
	// Replications decides the sample size per evaluation.
	Replications ReplicationSchedule
	// SampleSize is the population size per iteration.
	SampleSize int
	// ElitePct is the fraction of the population kept as the elite set.
	ElitePct float64
	// MinEliteSize floors the elite set size.
	MinEliteSize int
	// Smoothing is the exponential-smoothing factor of sampler updates.
	Smoothing float64
	// CVThreshold is the coefficient-of-variation convergence bound on the
	// sampler's standard deviations.
	CVThreshold float64
	// StabilityWindow is the size of the current-solution stability window.
	StabilityWindow int
	// StreamNumber selects the solver's random stream.
	StreamNumber int
	// StartingPoint overrides the default random feasible draw when set.
	StartingPoint StartingPointGenerator
	// Sampler decides population size per iteration; nil uses SampleSize.
	Sampler SampleSizer
	// Elite decides elite size per iteration; nil uses ElitePct/MinEliteSize.
	Elite EliteSizer
}

// DefaultCrossEntropyConfig returns the default configuration.
func DefaultCrossEntropyConfig() CrossEntropyConfig {
	reps, _ := NewFixedReplications(10)
	return CrossEntropyConfig{
		MaxIterations:   100,
		Replications:    reps,
		SampleSize:      50,
		ElitePct:        0.1,
		MinEliteSize:    2,
		Smoothing:       0.7,
		CVThreshold:     0.01,
		StabilityWindow: 5,
		StreamNumber:    1,
	}
}

// CrossEntropy is the cross-entropy method: sample a population from a
// parametric distribution, evaluate it, and pull the distribution toward
// the best-performing fraction until it degenerates onto an optimum or the
// current solution stops moving.
type CrossEntropy struct {
	*Stochastic
	cfg     CrossEntropyConfig
	sampler *GaussianSampler
	checker *SolutionChecker
}

// NewCrossEntropy creates a cross-entropy solver. The sampler's initial
// mean and stddev must match the problem dimension.
func NewCrossEntropy(def *problem.Definition, evaluator oracle.Evaluator, provider utils.StreamProvider, sampler *GaussianSampler, cfg CrossEntropyConfig, opts ...BaseOption) (*CrossEntropy, error) {
	if cfg.Replications == nil {
		return nil, fmt.Errorf("replication schedule is required")
	}
	if sampler == nil {
		return nil, fmt.Errorf("sampler is required")
	}
	if sampler.Dimension() != def.Dimension() {
		return nil, fmt.Errorf("sampler has %d dimensions, problem has %d", sampler.Dimension(), def.Dimension())
	}
	if cfg.SampleSize <= 0 && cfg.Sampler == nil {
		return nil, fmt.Errorf("sample size must be positive, got %d", cfg.SampleSize)
	}
	if cfg.ElitePct <= 0 || cfg.ElitePct > 1 {
		return nil, fmt.Errorf("elite percentage must be in (0, 1], got %g", cfg.ElitePct)
	}
	if cfg.MinEliteSize <= 0 {
		return nil, fmt.Errorf("minimum elite size must be positive, got %d", cfg.MinEliteSize)
	}
	if cfg.StabilityWindow < 2 {
		return nil, fmt.Errorf("stability window must be at least 2, got %d", cfg.StabilityWindow)
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
	checker, err := NewSolutionChecker(cfg.StabilityWindow, nil)
	if err != nil {
		return nil, err
	}

	return &CrossEntropy{
		Stochastic: stochastic,
		cfg:        cfg,
		sampler:    sampler,
		checker:    checker,
	}, nil
}

// Sampler returns the sampling distribution; read-only use by callers.
func (c *CrossEntropy) Sampler() *GaussianSampler {
	return c.sampler
}

// Initialize evaluates the starting point at the schedule's first count.
func (c *CrossEntropy) Initialize() error {
	return c.InitializeAt(c.cfg.Replications.Replications(0))
}

// Step draws the population, evaluates it, and smooths the sampler toward
// the elite set. An iteration whose population yields no oracle results is
// skipped without touching any state: retry next iteration.
func (c *CrossEntropy) Step() error {
	iter := c.Iteration()
	size := c.sampleSize(iter)
	reps := c.cfg.Replications.Replications(iter)

	// Draw the population and convert to feasible candidates. Duplicate
	// lattice points collapse onto one evaluation via the key map.
	seen := make(map[string]bool, size)
	inputs := make([]problem.InputMap, 0, size)
	for i := 0; i < size; i++ {
		vec, ok := c.def.NearestFeasible(c.sampler.Sample(c.Stream()))
		if !ok {
			continue
		}
		input, err := c.def.ToInputMap(vec)
		if err != nil {
			return err
		}
		if seen[input.Key()] {
			continue
		}
		seen[input.Key()] = true
		inputs = append(inputs, input)
	}

	results := c.RequestEvaluations(inputs, reps)
	if len(results) == 0 {
		c.log.Debug("cross-entropy iteration skipped: no oracle results", "iteration", iter)
		return nil
	}

	solutions := make([]*problem.Solution, 0, len(results))
	for _, sol := range results {
		solutions = append(solutions, sol)
	}
	sort.Slice(solutions, func(i, j int) bool {
		return problem.Compare(solutions[i], solutions[j]) < 0
	})

	eliteCount := utils.Min(c.eliteSize(iter, size), len(solutions))
	elite := solutions[:eliteCount]

	vectors := make([][]float64, len(elite))
	for i, sol := range elite {
		vectors[i] = sol.Input().Vector()
	}
	if err := c.sampler.Update(vectors); err != nil {
		return fmt.Errorf("sampler update failed: %w", err)
	}

	c.Adopt(elite[0])
	c.checker.Record(elite[0])
	c.log.Debug("cross-entropy iteration",
		"iteration", iter, "population", len(inputs), "elite", eliteCount, "best", elite[0].Objective())
	return nil
}

// Done stops on sampler degeneracy or current-solution stability.
func (c *CrossEntropy) Done() (bool, string) {
	if c.sampler.Converged() {
		return true, "sampling distribution converged"
	}
	if c.checker.CheckSolutions() {
		return true, fmt.Sprintf("current solution stable for %d iterations", c.checker.WindowSize())
	}
	return false, ""
}

func (c *CrossEntropy) sampleSize(iteration int) int {
	if c.cfg.Sampler != nil {
		if n := c.cfg.Sampler(iteration); n > 0 {
			return n
		}
	}
	return c.cfg.SampleSize
}

func (c *CrossEntropy) eliteSize(iteration, sampleSize int) int {
	if c.cfg.Elite != nil {
		if n := c.cfg.Elite(iteration, sampleSize); n > 0 {
			return n
		}
	}
	n := int(math.Ceil(c.cfg.ElitePct * float64(sampleSize)))
	return utils.Max(n, c.cfg.MinEliteSize)
}

// RecommendedSampleSize derives a population size from a desired confidence
// level and half-width bound on estimating the elite-fraction quantile:
// n = z²·p(1−p)/h², with z the standard-normal quantile of the two-sided
// confidence level.
func RecommendedSampleSize(confidence, halfWidth, elitePct float64) (int, error) {
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("confidence must be in (0, 1), got %g", confidence)
	}
	if halfWidth <= 0 {
		return 0, fmt.Errorf("half width must be positive, got %g", halfWidth)
	}
	if elitePct <= 0 || elitePct >= 1 {
		return 0, fmt.Errorf("elite percentage must be in (0, 1), got %g", elitePct)
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - (1-confidence)/2)
	n := z * z * elitePct * (1 - elitePct) / (halfWidth * halfWidth)
	return int(math.Ceil(n)), nil
}
