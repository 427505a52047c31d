package solver

import (
	"testing"

	"github.com/simquery/optimize-core/internal/oracle"
	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

// intProblem2D returns the [0,10]x[0,10] integer lattice problem used
// throughout the solver tests.
func intProblem2D(t *testing.T) *problem.Definition {
	t.Helper()
	def, err := problem.NewDefinition([]problem.InputSpec{
		{Name: "x", Min: 0, Max: 10, Granularity: 1},
		{Name: "y", Min: 0, Max: 10, Granularity: 1},
	})
	if err != nil {
		t.Fatalf("failed to build problem: %v", err)
	}
	return def
}

// quadraticEvaluator evaluates a noisy quadratic bowl with the given optimum.
func quadraticEvaluator(t *testing.T, optimum []float64, noiseStd float64, seed int64) oracle.Evaluator {
	t.Helper()
	eval, err := oracle.NewSimulationEvaluator(oracle.NewQuadraticOracle(optimum, noiseStd), utils.NewRNStream(seed))
	if err != nil {
		t.Fatalf("failed to build evaluator: %v", err)
	}
	return eval
}

func mustInput(t *testing.T, def *problem.Definition, v ...float64) problem.InputMap {
	t.Helper()
	im, err := def.ToInputMap(v)
	if err != nil {
		t.Fatalf("failed to build input map: %v", err)
	}
	return im
}

// fixedStart always starts the solve from the same vector.
type fixedStart struct {
	vector []float64
}

func (g fixedStart) Generate(s *Stochastic) (problem.InputMap, error) {
	return s.Definition().ToInputMap(g.vector)
}

func (g fixedStart) Name() string { return "fixed" }

// emptyEvaluator simulates a permanently unavailable oracle.
type emptyEvaluator struct{}

func (emptyEvaluator) Evaluate(inputs []problem.InputMap, replications int) ([]*problem.Solution, error) {
	return nil, nil
}

// scriptedEvaluator returns pre-seeded solutions by input key and drops
// everything else.
type scriptedEvaluator struct {
	solutions map[string]*problem.Solution
	calls     int
}

func (s *scriptedEvaluator) Evaluate(inputs []problem.InputMap, replications int) ([]*problem.Solution, error) {
	s.calls += len(inputs)
	var out []*problem.Solution
	for _, in := range inputs {
		if sol, ok := s.solutions[in.Key()]; ok {
			out = append(out, sol)
		}
	}
	return out, nil
}
