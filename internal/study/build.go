package study

import (
	"fmt"
	"math"

	"github.com/simquery/optimize-core/internal/oracle"
	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/internal/solver"
	"github.com/simquery/optimize-core/pkg/config"
	"github.com/simquery/optimize-core/pkg/utils"
)

// BuildDefinition converts the problem section into a definition.
func BuildDefinition(p config.Problem) (*problem.Definition, error) {
	specs := make([]problem.InputSpec, len(p.Inputs))
	for i, in := range p.Inputs {
		specs[i] = problem.InputSpec{
			Name:        in.Name,
			Min:         in.Min,
			Max:         in.Max,
			Granularity: in.Granularity,
		}
	}
	return problem.NewDefinition(specs)
}

// BuildEvaluator converts the oracle section into an evaluator. The oracle
// observes with its own stream so solver decisions and simulation noise stay
// on separate streams.
func BuildEvaluator(o config.Oracle, dimension int, stream *utils.RNStream) (oracle.Evaluator, error) {
	var fn oracle.Oracle
	switch o.Benchmark {
	case "quadratic":
		fn = oracle.NewQuadraticOracle(o.Optimum, o.NoiseStd)
	case "sphere":
		fn = oracle.NewSphereOracle(dimension, o.NoiseStd)
	default:
		return nil, fmt.Errorf("unknown benchmark %q", o.Benchmark)
	}

	eval, err := oracle.NewSimulationEvaluator(fn, stream)
	if err != nil {
		return nil, err
	}
	if !o.Cache {
		return eval, nil
	}
	return oracle.NewCachingEvaluator(eval)
}

// BuildSolver converts the solver section into a ready-to-run solver. The
// streamOffset shifts the configured stream number, giving meta-solvers an
// independent stream per restart.
func BuildSolver(s config.Solver, def *problem.Definition, eval oracle.Evaluator, provider utils.StreamProvider, streamOffset int, opts ...solver.BaseOption) (solver.Solver, error) {
	switch s.Algorithm {
	case "hill_climber":
		cfg := solver.DefaultHillClimberConfig()
		if s.MaxIterations > 0 {
			cfg.MaxIterations = s.MaxIterations
		}
		if s.StabilityWindow > 0 {
			cfg.StabilityWindow = s.StabilityWindow
		}
		cfg.StreamNumber = streamNumber(s, streamOffset)
		if reps, err := buildReplications(s.Replications, cfg.Replications); err != nil {
			return nil, err
		} else {
			cfg.Replications = reps
		}
		return solver.NewHillClimber(def, eval, provider, cfg, opts...)

	case "annealing":
		cfg := solver.DefaultAnnealingConfig()
		if s.MaxIterations > 0 {
			cfg.MaxIterations = s.MaxIterations
		}
		if s.TemperatureFloor > 0 {
			cfg.TemperatureFloor = s.TemperatureFloor
		}
		cfg.StreamNumber = streamNumber(s, streamOffset)
		if reps, err := buildReplications(s.Replications, cfg.Replications); err != nil {
			return nil, err
		} else {
			cfg.Replications = reps
		}
		if cooling, err := buildCooling(s.Cooling, cfg.Cooling); err != nil {
			return nil, err
		} else {
			cfg.Cooling = cooling
		}
		return solver.NewAnnealing(def, eval, provider, cfg, opts...)

	case "cross_entropy":
		cfg := solver.DefaultCrossEntropyConfig()
		if s.MaxIterations > 0 {
			cfg.MaxIterations = s.MaxIterations
		}
		if s.SampleSize > 0 {
			cfg.SampleSize = s.SampleSize
		}
		if s.ElitePct > 0 {
			cfg.ElitePct = s.ElitePct
		}
		if s.MinEliteSize > 0 {
			cfg.MinEliteSize = s.MinEliteSize
		}
		if s.Smoothing > 0 {
			cfg.Smoothing = s.Smoothing
		}
		if s.CVThreshold > 0 {
			cfg.CVThreshold = s.CVThreshold
		}
		if s.StabilityWindow > 0 {
			cfg.StabilityWindow = s.StabilityWindow
		}
		cfg.StreamNumber = streamNumber(s, streamOffset)
		if reps, err := buildReplications(s.Replications, cfg.Replications); err != nil {
			return nil, err
		} else {
			cfg.Replications = reps
		}
		sampler, err := solver.NewGaussianSampler(s.InitialMean, s.InitialStdDev, cfg.Smoothing, cfg.CVThreshold)
		if err != nil {
			return nil, fmt.Errorf("sampler: %w", err)
		}
		return solver.NewCrossEntropy(def, eval, provider, sampler, cfg, opts...)

	case "rspline":
		cfg := solver.DefaultRSplineConfig()
		if s.MaxIterations > 0 {
			cfg.MaxIterations = s.MaxIterations
		}
		if s.InitialSampleSize > 0 {
			cfg.InitialSampleSize = s.InitialSampleSize
		}
		if s.SampleGrowthRate > 0 {
			cfg.SampleGrowthRate = s.SampleGrowthRate
		}
		if s.InitialCallLimit > 0 {
			cfg.InitialCallLimit = s.InitialCallLimit
		}
		if s.CallLimitGrowthRate > 0 {
			cfg.CallLimitGrowthRate = s.CallLimitGrowthRate
		}
		if s.PerturbationFactor > 0 {
			cfg.PerturbationFactor = s.PerturbationFactor
		}
		if s.SPLIIterationLimit > 0 {
			cfg.SPLIIterationLimit = s.SPLIIterationLimit
		}
		if s.InitialStepSize > 0 {
			cfg.InitialStepSize = s.InitialStepSize
		}
		if s.StepGrowthFactor > 0 {
			cfg.StepGrowthFactor = s.StepGrowthFactor
		}
		if s.StabilityWindow > 0 {
			cfg.StabilityWindow = s.StabilityWindow
		}
		cfg.StreamNumber = streamNumber(s, streamOffset)
		if n := s.Neighborhood; n != nil {
			cfg.NeighborhoodRadius = n.Radius
			cfg.NeighborhoodMetric = solver.VonNeumann
			if n.Metric == "moore" {
				cfg.NeighborhoodMetric = solver.Moore
			}
			cfg.NeighborhoodTraversal = solver.Scan
			if n.Traversal == "bfs" {
				cfg.NeighborhoodTraversal = solver.BFS
			}
		}
		return solver.NewRSpline(def, eval, provider, cfg, opts...)

	default:
		return nil, fmt.Errorf("unknown algorithm %q", s.Algorithm)
	}
}

func streamNumber(s config.Solver, offset int) int {
	n := s.StreamNumber
	if n <= 0 {
		n = 1
	}
	return n + offset
}

// buildReplications converts the replications section, falling back to the
// algorithm's default schedule when absent.
func buildReplications(r *config.Replications, fallback solver.ReplicationSchedule) (solver.ReplicationSchedule, error) {
	if r == nil {
		return fallback, nil
	}
	switch r.Schedule {
	case "fixed":
		return solver.NewFixedReplications(r.Count)
	case "growth":
		ceiling := r.Ceiling
		if ceiling == 0 {
			ceiling = math.MaxInt32
		}
		return solver.NewGrowthReplications(r.Initial, r.GrowthRate, ceiling)
	default:
		return nil, fmt.Errorf("unknown replication schedule %q", r.Schedule)
	}
}

// buildCooling converts the cooling section, falling back to the default
// schedule when absent.
func buildCooling(c *config.Cooling, fallback solver.CoolingSchedule) (solver.CoolingSchedule, error) {
	if c == nil {
		return fallback, nil
	}
	switch c.Schedule {
	case "linear":
		return solver.NewLinearCooling(c.Initial, c.Step, c.Floor)
	case "exponential":
		return solver.NewExponentialCooling(c.Initial, c.Rate)
	case "logarithmic":
		return solver.NewLogarithmicCooling(c.Initial)
	default:
		return nil, fmt.Errorf("unknown cooling schedule %q", c.Schedule)
	}
}
