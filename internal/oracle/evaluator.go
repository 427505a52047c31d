package oracle

import (
	"fmt"

	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

// Evaluator executes the oracle for a set of input points at a requested
// replication count. The returned list may omit inputs whose evaluation
// failed; it may even be empty. Callers must key results by input map
// value, never by position.
type Evaluator interface {
	Evaluate(inputs []problem.InputMap, replications int) ([]*problem.Solution, error)
}

// Cache is the invalidation surface of evaluators that memoize results.
// RandomRestart clears it between restarts to avoid restart bias.
type Cache interface {
	Clear()
}

// Oracle produces one noisy observation of the objective for an input.
// Implementations back a single simulation replication.
type Oracle interface {
	Observe(input problem.InputMap, stream *utils.RNStream) (float64, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(input problem.InputMap, stream *utils.RNStream) (float64, error)

// Observe calls the function.
func (f OracleFunc) Observe(input problem.InputMap, stream *utils.RNStream) (float64, error) {
	return f(input, stream)
}

// Penalty maps an input to a deterministic constraint-violation penalty
// added to the raw objective. Zero for feasible inputs.
type Penalty func(input problem.InputMap) float64

// SimulationEvaluator runs an Oracle for the requested replication count
// per input and aggregates the observations into a Solution. Inputs whose
// observations error are dropped from the result set.
type SimulationEvaluator struct {
	oracle  Oracle
	stream  *utils.RNStream
	penalty Penalty
}

// SimOption configures a SimulationEvaluator.
type SimOption func(*SimulationEvaluator)

// WithPenalty adds a deterministic penalty term to every aggregate.
func WithPenalty(p Penalty) SimOption {
	return func(e *SimulationEvaluator) {
		e.penalty = p
	}
}

// NewSimulationEvaluator creates an evaluator over the given oracle,
// drawing observation noise from the given stream.
func NewSimulationEvaluator(oracle Oracle, stream *utils.RNStream, opts ...SimOption) (*SimulationEvaluator, error) {
	if oracle == nil {
		return nil, fmt.Errorf("oracle is required")
	}
	if stream == nil {
		return nil, fmt.Errorf("random stream is required")
	}
	e := &SimulationEvaluator{oracle: oracle, stream: stream}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate runs replications observations of every input and returns one
// Solution per input that produced usable observations.
func (e *SimulationEvaluator) Evaluate(inputs []problem.InputMap, replications int) ([]*problem.Solution, error) {
	if replications <= 0 {
		return nil, fmt.Errorf("replications must be positive, got %d", replications)
	}

	results := make([]*problem.Solution, 0, len(inputs))
	for _, input := range inputs {
		observations := make([]float64, 0, replications)
		failed := false
		for r := 0; r < replications; r++ {
			obs, err := e.oracle.Observe(input, e.stream)
			if err != nil {
				failed = true
				break
			}
			observations = append(observations, obs)
		}
		if failed || len(observations) == 0 {
			continue
		}

		objective := utils.Mean(observations)
		if e.penalty != nil {
			objective += e.penalty(input)
		}
		results = append(results, problem.NewSolution(input, len(observations), objective, utils.Variance(observations)))
	}
	return results, nil
}
