package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/simquery/optimize-core/internal/oracle"
	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

// RSplineConfig configures an R-SPLINE solver.
type RSplineConfig struct {
	// MaxIterations caps the outer retrospective loop.
	MaxIterations int
	// InitialSampleSize and SampleGrowthRate grow the per-iteration
	// replication count m_k geometrically.
	InitialSampleSize int
	SampleGrowthRate  float64
	// InitialCallLimit and CallLimitGrowthRate grow the per-iteration
	// SPLINE call budget b_k geometrically.
	InitialCallLimit    int
	CallLimitGrowthRate float64
	// PerturbationFactor is the half-width of the uniform noise added per
	// dimension before simplex construction, escaping exact lattice ties.
	PerturbationFactor float64
	// SPLIIterationLimit caps the PLI/line-search repetitions inside one
	// SPLI call.
	SPLIIterationLimit int
	// InitialStepSize and StepGrowthFactor shape the geometrically growing
	// line search: step i is InitialStepSize·StepGrowthFactor^(i−1).
	InitialStepSize float64
	StepGrowthFactor float64
	// NeighborhoodRadius, Metric, and Traversal shape the NE enumeration.
	NeighborhoodRadius    int
	NeighborhoodMetric    Metric
	NeighborhoodTraversal Traversal
	// StabilityWindow is the size of the current-solution stability window.
	StabilityWindow int
	// StreamNumber selects the solver's random stream.
	StreamNumber int
	// StartingPoint overrides the default random feasible draw when set.
	StartingPoint StartingPointGenerator
}

// DefaultRSplineConfig returns the default configuration.
func DefaultRSplineConfig() RSplineConfig {
	return RSplineConfig{
		MaxIterations:         50,
		InitialSampleSize:     8,
		SampleGrowthRate:      0.1,
		InitialCallLimit:      10,
		CallLimitGrowthRate:   0.1,
		PerturbationFactor:    0.15,
		SPLIIterationLimit:    10,
		InitialStepSize:       2.0,
		StepGrowthFactor:      2.0,
		NeighborhoodRadius:    1,
		NeighborhoodMetric:    VonNeumann,
		NeighborhoodTraversal: Scan,
		StabilityWindow:       5,
		StreamNumber:          1,
	}
}

// RSpline is retrospective search with piecewise-linear interpolation and
// neighborhood enumeration, for integer-ordered problems. Each outer
// iteration solves one retrospective sample-path problem (fixed sample
// size m_k) with SPLINE and adopts its result unconditionally: the next
// iteration is seeded with the previous iteration's result, not the
// incumbent best, so current and best solutions may diverge.
type RSpline struct {
	*Stochastic
	cfg        RSplineConfig
	sampleSize *GrowthReplications
	callLimit  *GrowthReplications
	finder     *NeighborhoodFinder
	checker    *SolutionChecker
}

// NewRSpline creates an R-SPLINE solver. The problem must be
// integer-ordered.
func NewRSpline(def *problem.Definition, evaluator oracle.Evaluator, provider utils.StreamProvider, cfg RSplineConfig, opts ...BaseOption) (*RSpline, error) {
	if !def.IntegerOrdered() {
		return nil, fmt.Errorf("R-SPLINE requires an integer-ordered problem")
	}
	if cfg.PerturbationFactor <= 0 || cfg.PerturbationFactor >= 0.5 {
		return nil, fmt.Errorf("perturbation factor must be in (0, 0.5), got %g", cfg.PerturbationFactor)
	}
	if cfg.SPLIIterationLimit <= 0 {
		return nil, fmt.Errorf("SPLI iteration limit must be positive, got %d", cfg.SPLIIterationLimit)
	}
	if cfg.InitialStepSize <= 0 {
		return nil, fmt.Errorf("initial step size must be positive, got %g", cfg.InitialStepSize)
	}
	if cfg.StepGrowthFactor <= 1 {
		return nil, fmt.Errorf("step growth factor must exceed 1, got %g", cfg.StepGrowthFactor)
	}

	sampleSize, err := NewGrowthReplications(cfg.InitialSampleSize, cfg.SampleGrowthRate, math.MaxInt32)
	if err != nil {
		return nil, fmt.Errorf("sample-size schedule: %w", err)
	}
	callLimit, err := NewGrowthReplications(cfg.InitialCallLimit, cfg.CallLimitGrowthRate, math.MaxInt32)
	if err != nil {
		return nil, fmt.Errorf("call-limit schedule: %w", err)
	}
	finder, err := NewNeighborhoodFinder(cfg.NeighborhoodMetric, cfg.NeighborhoodTraversal, cfg.NeighborhoodRadius)
	if err != nil {
		return nil, err
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
	checker, err := NewSolutionChecker(utils.Max(cfg.StabilityWindow, 2), nil)
	if err != nil {
		return nil, err
	}

	return &RSpline{
		Stochastic: stochastic,
		cfg:        cfg,
		sampleSize: sampleSize,
		callLimit:  callLimit,
		finder:     finder,
		checker:    checker,
	}, nil
}

// Initialize evaluates the starting point at the first sample size.
func (r *RSpline) Initialize() error {
	return r.InitializeAt(r.sampleSize.Replications(0))
}

// Step runs SPLINE on the current retrospective sample-path problem and
// replaces the current solution with its result unconditionally.
func (r *RSpline) Step() error {
	k := r.Iteration()
	m := r.sampleSize.Replications(k)
	b := r.callLimit.Replications(k)

	current := r.CurrentSolution()
	if current == nil || current.IsBad() {
		start, err := r.def.StartingPoint(r.Stream())
		if err != nil {
			return err
		}
		if sol := r.RequestEvaluation(start, m); sol != nil {
			r.Adopt(sol)
		}
		return nil
	}

	result, err := r.spline(current, m, b)
	if err != nil {
		return err
	}
	r.Adopt(result)
	r.checker.Record(result)
	r.log.Debug("spline outer iteration",
		"iteration", k, "sample_size", m, "call_limit", b,
		"current", result.Objective(), "best", r.BestSolution().Objective())
	return nil
}

// Done stops when the current solution has stabilized.
func (r *RSpline) Done() (bool, string) {
	if r.checker.CheckSolutions() {
		return true, fmt.Sprintf("current solution stable for %d iterations", r.checker.WindowSize())
	}
	return false, ""
}

// spline solves one retrospective sample-path problem: re-evaluate the
// seed at the new sample size, then alternate line search (SPLI) and
// neighborhood enumeration (NE) until they coincide or the call budget is
// exhausted. The starting solution is the non-worsening fallback: spline
// never returns anything worse than it, and never anything infeasible.
func (r *RSpline) spline(seed *problem.Solution, sampleSize, callLimit int) (*problem.Solution, error) {
	if !r.def.IsFeasible(seed.Input()) {
		return nil, fmt.Errorf("spline seed %s is not input-feasible", seed.Input())
	}

	start := seed
	if sol := r.RequestEvaluation(seed.Input(), sampleSize); sol != nil {
		start = sol
	}

	current := start
	for call := 0; call < callLimit; call++ {
		afterSPLI, err := r.spli(current, sampleSize)
		if err != nil {
			return nil, err
		}
		afterNE, err := r.neighborhoodSearch(afterSPLI, sampleSize)
		if err != nil {
			return nil, err
		}
		r.log.Debug("spline inner call",
			"call", call, "spli", afterSPLI.Objective(), "ne", afterNE.Objective())

		current = afterNE
		if afterNE.Input().Equal(afterSPLI.Input()) {
			// Local optimality under this neighborhood.
			break
		}
	}

	if !r.def.IsFeasible(current.Input()) {
		return start, nil
	}
	return problem.Better(start, current), nil
}

// pliResult carries the outcome of one piecewise-linear interpolation: the
// best feasible vertex solution (nil when no vertex was usable), the
// interpolated objective, and the gradient estimate (nil unless every
// vertex was feasible and evaluated).
type pliResult struct {
	best         *problem.Solution
	interpolated float64
	gradient     []float64
}

// pli builds the perturbed simplex around a point, evaluates its feasible
// vertices, interpolates the objective, and estimates a gradient when the
// full simplex was available.
func (r *RSpline) pli(point []float64, sampleSize int) (*pliResult, error) {
	d := len(point)
	perturbed := make([]float64, d)
	for i, v := range point {
		perturbed[i] = v + r.Stream().UniformFloat64(-r.cfg.PerturbationFactor, r.cfg.PerturbationFactor)
	}

	simplex, err := BuildSimplex(perturbed)
	if err != nil {
		return nil, err
	}

	type vertexRef struct {
		index  int
		weight float64
		input  problem.InputMap
	}
	feasible := make([]vertexRef, 0, d+1)
	for k, vertex := range simplex.Vertices {
		vec := latticeToFloat(vertex)
		if !r.def.IsFeasibleVector(vec) {
			continue
		}
		input, err := r.def.ToInputMap(vec)
		if err != nil {
			return nil, err
		}
		feasible = append(feasible, vertexRef{index: k, weight: simplex.Weights[k], input: input})
	}
	if len(feasible) == 0 {
		// No usable vertex: sentinel outcome, no gradient.
		return &pliResult{interpolated: math.Inf(1)}, nil
	}

	inputs := make([]problem.InputMap, len(feasible))
	for i, ref := range feasible {
		inputs[i] = ref.input
	}
	results := r.RequestEvaluations(inputs, sampleSize)
	if len(results) == 0 {
		return &pliResult{interpolated: math.Inf(1)}, nil
	}

	// Weight-normalized interpolation over the vertices that came back.
	var weighted, weightSum float64
	var best *problem.Solution
	vertexObjectives := make(map[int]float64, len(results))
	for _, ref := range feasible {
		sol, ok := results[ref.input.Key()]
		if !ok {
			continue
		}
		vertexObjectives[ref.index] = sol.Objective()
		weighted += ref.weight * sol.Objective()
		weightSum += ref.weight
		if best == nil || problem.Compare(sol, best) < 0 {
			best = sol
		}
	}
	if weightSum <= 0 {
		weightSum = 1
	}

	res := &pliResult{best: best, interpolated: weighted / weightSum}

	// A gradient needs the whole simplex: all d+1 vertices feasible and
	// evaluated. Differences of consecutive vertex objectives map back to
	// input dimensions through the fractional-part sort order.
	if len(vertexObjectives) == d+1 {
		gradient := make([]float64, d)
		for j := 0; j < d; j++ {
			gradient[simplex.Order[j]] = vertexObjectives[j+1] - vertexObjectives[j]
		}
		res.gradient = gradient
	}
	return res, nil
}

// spli repeats PLI plus a growing-step line search against the gradient.
// Gradient-free PLI outcomes still update the best-known solution; the
// first two line-search steps abort the whole call when they fail to
// improve (wrong direction), later failures only end the line search.
func (r *RSpline) spli(seed *problem.Solution, sampleSize int) (*problem.Solution, error) {
	if !r.def.IsFeasible(seed.Input()) {
		return nil, fmt.Errorf("spli seed %s is not input-feasible", seed.Input())
	}

	best := seed
	for iter := 0; iter < r.cfg.SPLIIterationLimit; iter++ {
		res, err := r.pli(best.Input().Vector(), sampleSize)
		if err != nil {
			return nil, err
		}
		if res.best != nil && problem.Compare(res.best, best) < 0 {
			best = res.best
		}
		if res.gradient == nil {
			return best, nil
		}
		norm := floats.Norm(res.gradient, 2)
		if norm == 0 {
			return best, nil
		}

		direction := make([]float64, len(res.gradient))
		for i, g := range res.gradient {
			direction[i] = -g / norm
		}

		base := best.Input().Vector()
		step := r.cfg.InitialStepSize
		for stepNum := 1; ; stepNum++ {
			candidate := make([]float64, len(base))
			for i := range base {
				candidate[i] = base[i] + step*direction[i]
			}
			vec, ok := r.def.NearestFeasible(candidate)
			if !ok {
				break // infeasible: abort the line search
			}
			input, err := r.def.ToInputMap(vec)
			if err != nil {
				return nil, err
			}

			sol := r.RequestEvaluation(input, sampleSize)
			improved := sol != nil && problem.Compare(sol, best) < 0
			if improved {
				best = sol
				step *= r.cfg.StepGrowthFactor
				continue
			}
			if stepNum <= 2 {
				// Early non-improvement means the descent direction is
				// wrong; give up on this SPLI call entirely.
				return best, nil
			}
			break
		}
	}
	return best, nil
}

// neighborhoodSearch enumerates the lattice neighborhood of the seed,
// evaluates the feasible points, and returns the better of the seed and
// the best neighbor. An empty feasible neighborhood returns the seed with
// zero additional oracle calls.
func (r *RSpline) neighborhoodSearch(seed *problem.Solution, sampleSize int) (*problem.Solution, error) {
	if !r.def.IsFeasible(seed.Input()) {
		return nil, fmt.Errorf("neighborhood search seed %s is not input-feasible", seed.Input())
	}

	center := floatToLattice(seed.Input().Vector())
	neighbors := r.finder.Neighbors(center, false)

	inputs := make([]problem.InputMap, 0, len(neighbors))
	for _, n := range neighbors {
		vec := latticeToFloat(n)
		if !r.def.IsFeasibleVector(vec) {
			continue
		}
		input, err := r.def.ToInputMap(vec)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	if len(inputs) == 0 {
		return seed, nil
	}

	results := r.RequestEvaluations(inputs, sampleSize)
	bestNeighbor := bestOf(results)
	if bestNeighbor == nil {
		return seed, nil
	}
	return problem.Better(seed, bestNeighbor), nil
}

func latticeToFloat(point []int) []float64 {
	out := make([]float64, len(point))
	for i, v := range point {
		out[i] = float64(v)
	}
	return out
}

func floatToLattice(point []float64) []int {
	out := make([]int, len(point))
	for i, v := range point {
		out[i] = int(math.Round(v))
	}
	return out
}
