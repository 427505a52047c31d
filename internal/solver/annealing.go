package solver

import (
	"fmt"
	"math"

	"github.com/simquery/optimize-core/internal/oracle"
	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

// AnnealingConfig configures a simulated-annealing solver.
type AnnealingConfig struct {
	// MaxIterations caps the iteration loop.
	MaxIterations int
	// Replications decides the sample size per evaluation.
	Replications ReplicationSchedule
	// Cooling decides the temperature per iteration.
	Cooling CoolingSchedule
	// TemperatureFloor stops the solve once the temperature reaches it.
	TemperatureFloor float64
	// StreamNumber selects the solver's random stream.
	StreamNumber int
	// StartingPoint overrides the default random feasible draw when set.
	StartingPoint StartingPointGenerator
}

// DefaultAnnealingConfig returns the default configuration: exponential
// cooling from 100 with rate 0.95.
func DefaultAnnealingConfig() AnnealingConfig {
	reps, _ := NewFixedReplications(10)
	cooling, _ := NewExponentialCooling(100, 0.95)
	return AnnealingConfig{
		MaxIterations:    500,
		Replications:     reps,
		Cooling:          cooling,
		TemperatureFloor: 1e-3,
		StreamNumber:     1,
	}
}

// Annealing is classic simulated annealing: always accept an improving
// neighbor, accept a worsening one with probability exp(−Δ/T), and cool T
// via the injected schedule.
type Annealing struct {
	*Stochastic
	cfg         AnnealingConfig
	temperature float64
}

// NewAnnealing creates a simulated-annealing solver.
func NewAnnealing(def *problem.Definition, evaluator oracle.Evaluator, provider utils.StreamProvider, cfg AnnealingConfig, opts ...BaseOption) (*Annealing, error) {
	if cfg.Replications == nil {
		return nil, fmt.Errorf("replication schedule is required")
	}
	if cfg.Cooling == nil {
		return nil, fmt.Errorf("cooling schedule is required")
	}
	if cfg.TemperatureFloor < 0 {
		return nil, fmt.Errorf("temperature floor cannot be negative, got %g", cfg.TemperatureFloor)
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

	return &Annealing{
		Stochastic:  stochastic,
		cfg:         cfg,
		temperature: cfg.Cooling.NextTemperature(0),
	}, nil
}

// Temperature returns the current temperature.
func (a *Annealing) Temperature() float64 {
	return a.temperature
}

// Initialize evaluates the starting point at the schedule's first count.
func (a *Annealing) Initialize() error {
	return a.InitializeAt(a.cfg.Replications.Replications(0))
}

// Step proposes one neighbor and applies the Metropolis acceptance rule.
func (a *Annealing) Step() error {
	current := a.CurrentSolution()
	reps := a.cfg.Replications.Replications(a.Iteration())

	if current == nil || current.IsBad() {
		start, err := a.def.StartingPoint(a.Stream())
		if err != nil {
			return err
		}
		if sol := a.RequestEvaluation(start, reps); sol != nil {
			a.Adopt(sol)
		}
		a.cool()
		return nil
	}

	neighbor, err := a.def.RandomNeighbor(current.Input(), a.Stream())
	if err != nil {
		return fmt.Errorf("neighbor generation failed: %w", err)
	}

	candidate := a.RequestEvaluation(neighbor, reps)
	if candidate == nil {
		a.cool()
		return nil
	}

	delta := candidate.Objective() - current.Objective()
	accept := delta < 0
	if !accept && a.temperature > 0 {
		u := a.Stream().Float64()
		accept = u < math.Exp(-delta/a.temperature)
	}
	if accept {
		a.Adopt(candidate)
		a.log.Debug("annealing accepted",
			"iteration", a.Iteration(), "delta", delta, "temperature", a.temperature)
	}

	a.cool()
	return nil
}

func (a *Annealing) cool() {
	a.temperature = a.cfg.Cooling.NextTemperature(a.Iteration())
}

// Done stops once the temperature has reached the floor.
func (a *Annealing) Done() (bool, string) {
	if a.temperature <= a.cfg.TemperatureFloor {
		return true, fmt.Sprintf("temperature %g reached floor %g", a.temperature, a.cfg.TemperatureFloor)
	}
	return false, ""
}
