package oracle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

func testDefinition(t *testing.T) *problem.Definition {
	t.Helper()
	def, err := problem.NewDefinition([]problem.InputSpec{
		{Name: "x", Min: 0, Max: 10, Granularity: 1},
		{Name: "y", Min: 0, Max: 10, Granularity: 1},
	})
	require.NoError(t, err)
	return def
}

func inputAt(t *testing.T, def *problem.Definition, v ...float64) problem.InputMap {
	t.Helper()
	im, err := def.ToInputMap(v)
	require.NoError(t, err)
	return im
}

func TestSimulationEvaluatorAggregates(t *testing.T) {
	def := testDefinition(t)
	eval, err := NewSimulationEvaluator(NewQuadraticOracle([]float64{3, 7}, 0), utils.NewRNStream(1))
	require.NoError(t, err)

	input := inputAt(t, def, 3, 7)
	results, err := eval.Evaluate([]problem.InputMap{input}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	sol := results[0]
	assert.Equal(t, 5, sol.Replications())
	assert.InDelta(t, 0.0, sol.Objective(), 1e-12, "noiseless quadratic at the optimum")
	assert.Equal(t, 0.0, sol.Variance())
	assert.True(t, sol.Input().Equal(input))
}

func TestSimulationEvaluatorNoise(t *testing.T) {
	def := testDefinition(t)
	eval, err := NewSimulationEvaluator(NewQuadraticOracle([]float64{3, 7}, 2.0), utils.NewRNStream(1))
	require.NoError(t, err)

	input := inputAt(t, def, 0, 0)
	results, err := eval.Evaluate([]problem.InputMap{input}, 200)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// True objective is 9 + 49 = 58; 200 replications of sd=2 noise keep
	// the estimate within a comfortable band.
	assert.InDelta(t, 58.0, results[0].Objective(), 1.0)
	assert.Greater(t, results[0].Variance(), 0.0)
}

func TestSimulationEvaluatorPenalty(t *testing.T) {
	def := testDefinition(t)
	penalty := func(input problem.InputMap) float64 {
		x, _ := input.Value("x")
		if x > 5 {
			return 100
		}
		return 0
	}
	eval, err := NewSimulationEvaluator(NewQuadraticOracle([]float64{3, 7}, 0), utils.NewRNStream(1), WithPenalty(penalty))
	require.NoError(t, err)

	results, err := eval.Evaluate([]problem.InputMap{inputAt(t, def, 8, 7)}, 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 25.0+100.0, results[0].Objective(), 1e-12)
}

func TestSimulationEvaluatorDropsFailedInputs(t *testing.T) {
	def := testDefinition(t)
	failing := OracleFunc(func(input problem.InputMap, stream *utils.RNStream) (float64, error) {
		if x, _ := input.Value("x"); x == 0 {
			return 0, errors.New("model blew up")
		}
		return 1.0, nil
	})
	eval, err := NewSimulationEvaluator(failing, utils.NewRNStream(1))
	require.NoError(t, err)

	inputs := []problem.InputMap{inputAt(t, def, 0, 0), inputAt(t, def, 1, 1)}
	results, err := eval.Evaluate(inputs, 2)
	require.NoError(t, err)
	require.Len(t, results, 1, "failed input must be absent, not an error")
	assert.True(t, results[0].Input().Equal(inputs[1]))
}

func TestSimulationEvaluatorRejectsBadReplications(t *testing.T) {
	eval, err := NewSimulationEvaluator(NewSphereOracle(2, 0), utils.NewRNStream(1))
	require.NoError(t, err)

	_, err = eval.Evaluate(nil, 0)
	assert.Error(t, err)
}

func TestCachingEvaluatorReusesSufficientReplications(t *testing.T) {
	def := testDefinition(t)
	calls := 0
	counting := evaluatorFunc(func(inputs []problem.InputMap, reps int) ([]*problem.Solution, error) {
		calls += len(inputs)
		out := make([]*problem.Solution, len(inputs))
		for i, in := range inputs {
			out[i] = problem.NewSolution(in, reps, 1.0, 0.1)
		}
		return out, nil
	})

	cached, err := NewCachingEvaluator(counting)
	require.NoError(t, err)

	input := inputAt(t, def, 2, 2)

	_, err = cached.Evaluate([]problem.InputMap{input}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// Same or lower precision: served from cache.
	_, err = cached.Evaluate([]problem.InputMap{input}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// Higher precision: re-evaluated.
	results, err := cached.Evaluate([]problem.InputMap{input}, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, results, 1)
	assert.Equal(t, 20, results[0].Replications())
}

func TestCachingEvaluatorClear(t *testing.T) {
	def := testDefinition(t)
	calls := 0
	counting := evaluatorFunc(func(inputs []problem.InputMap, reps int) ([]*problem.Solution, error) {
		calls += len(inputs)
		out := make([]*problem.Solution, len(inputs))
		for i, in := range inputs {
			out[i] = problem.NewSolution(in, reps, 1.0, 0.1)
		}
		return out, nil
	})

	cached, err := NewCachingEvaluator(counting)
	require.NoError(t, err)

	input := inputAt(t, def, 2, 2)
	_, _ = cached.Evaluate([]problem.InputMap{input}, 10)
	require.Equal(t, 1, cached.Size())

	cached.Clear()
	assert.Equal(t, 0, cached.Size())

	_, _ = cached.Evaluate([]problem.InputMap{input}, 10)
	assert.Equal(t, 2, calls, "cleared cache must re-evaluate")
}

// evaluatorFunc adapts a function to the Evaluator interface for tests.
type evaluatorFunc func(inputs []problem.InputMap, replications int) ([]*problem.Solution, error)

func (f evaluatorFunc) Evaluate(inputs []problem.InputMap, replications int) ([]*problem.Solution, error) {
	return f(inputs, replications)
}
