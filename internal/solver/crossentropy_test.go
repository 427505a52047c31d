package solver

import (
	"math"
	"testing"

	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

func testSampler(t *testing.T, mean, stddev []float64) *GaussianSampler {
	t.Helper()
	s, err := NewGaussianSampler(mean, stddev, 0.7, 0.01)
	if err != nil {
		t.Fatalf("failed to build sampler: %v", err)
	}
	return s
}

func TestNewCrossEntropyValidation(t *testing.T) {
	def := intProblem2D(t)
	eval := quadraticEvaluator(t, []float64{3, 7}, 0, 11)
	provider := utils.NewSeededProvider(11)
	sampler := testSampler(t, []float64{5, 5}, []float64{3, 3})

	tests := []struct {
		name   string
		mutate func(*CrossEntropyConfig)
	}{
		{"zero sample size", func(c *CrossEntropyConfig) { c.SampleSize = 0 }},
		{"nil replications", func(c *CrossEntropyConfig) { c.Replications = nil }},
		{"zero elite pct", func(c *CrossEntropyConfig) { c.ElitePct = 0 }},
		{"elite pct above one", func(c *CrossEntropyConfig) { c.ElitePct = 1.5 }},
		{"zero min elite", func(c *CrossEntropyConfig) { c.MinEliteSize = 0 }},
		{"window too small", func(c *CrossEntropyConfig) { c.StabilityWindow = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCrossEntropyConfig()
			tt.mutate(&cfg)
			if _, err := NewCrossEntropy(def, eval, provider, sampler, cfg); err == nil {
				t.Fatalf("expected config error")
			}
		})
	}

	cfg := DefaultCrossEntropyConfig()
	if _, err := NewCrossEntropy(def, eval, provider, nil, cfg); err == nil {
		t.Fatalf("expected error for nil sampler")
	}
	narrow := testSampler(t, []float64{5}, []float64{3})
	if _, err := NewCrossEntropy(def, eval, provider, narrow, cfg); err == nil {
		t.Fatalf("expected error for sampler/problem dimension mismatch")
	}
}

func TestCrossEntropyEliteSizing(t *testing.T) {
	def := intProblem2D(t)
	eval := quadraticEvaluator(t, []float64{3, 7}, 0, 11)
	provider := utils.NewSeededProvider(11)

	cfg := DefaultCrossEntropyConfig()
	cfg.ElitePct = 0.1
	cfg.MinEliteSize = 2
	ce, err := NewCrossEntropy(def, eval, provider, testSampler(t, []float64{5, 5}, []float64{3, 3}), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ce.eliteSize(1, 50); got != 5 {
		t.Fatalf("elite size for population 50 = %d, expected 5", got)
	}
	// ceil(0.1*10) = 1, floored by MinEliteSize.
	if got := ce.eliteSize(1, 10); got != 2 {
		t.Fatalf("elite size for population 10 = %d, expected the floor 2", got)
	}

	cfg.Elite = func(iteration, sampleSize int) int { return 7 }
	cfg.Sampler = func(iteration int) int { return 13 }
	ce, err = NewCrossEntropy(def, eval, provider, testSampler(t, []float64{5, 5}, []float64{3, 3}), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ce.eliteSize(1, 50); got != 7 {
		t.Fatalf("custom elite sizer ignored, got %d", got)
	}
	if got := ce.sampleSize(1); got != 13 {
		t.Fatalf("custom sample sizer ignored, got %d", got)
	}
}

func TestCrossEntropySkipsIterationWithoutResults(t *testing.T) {
	def := intProblem2D(t)
	provider := utils.NewSeededProvider(11)
	sampler := testSampler(t, []float64{5, 5}, []float64{3, 3})
	meanBefore := sampler.Mean()

	cfg := DefaultCrossEntropyConfig()
	ce, err := NewCrossEntropy(def, emptyEvaluator{}, provider, sampler, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ce.Initialize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ce.Step(); err != nil {
		t.Fatalf("a resultless iteration must not fail: %v", err)
	}

	meanAfter := sampler.Mean()
	for i := range meanBefore {
		if meanBefore[i] != meanAfter[i] {
			t.Fatalf("sampler mean changed on a skipped iteration: %v -> %v", meanBefore, meanAfter)
		}
	}
}

func TestCrossEntropyFindsMinimum(t *testing.T) {
	def, err := problem.NewDefinition([]problem.InputSpec{
		{Name: "x", Min: -20, Max: 20, Granularity: 1},
	})
	if err != nil {
		t.Fatalf("failed to build problem: %v", err)
	}
	eval := quadraticEvaluator(t, []float64{0}, 0, 29)
	provider := utils.NewSeededProvider(29)
	sampler := testSampler(t, []float64{5}, []float64{2})

	cfg := DefaultCrossEntropyConfig()
	cfg.MaxIterations = 50
	ce, err := NewCrossEntropy(def, eval, provider, sampler, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := Run(ce)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if result.Best == nil {
		t.Fatalf("solve produced no best solution")
	}
	if got := result.Best.Input().Vector()[0]; math.Abs(got) > 0.5 {
		t.Fatalf("best input = %f, expected the minimum at 0", got)
	}
	if got := sampler.Mean()[0]; math.Abs(got) > 0.5 {
		t.Fatalf("sampler mean = %f, expected to contract onto 0", got)
	}
}

func TestRecommendedSampleSize(t *testing.T) {
	// z(0.975) = 1.959964; ceil(z^2 * 0.1*0.9 / 0.01^2) = 3458.
	n, err := RecommendedSampleSize(0.95, 0.01, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3458 {
		t.Fatalf("recommended sample size = %d, expected 3458", n)
	}

	if _, err := RecommendedSampleSize(0, 0.01, 0.1); err == nil {
		t.Fatalf("expected error for confidence 0")
	}
	if _, err := RecommendedSampleSize(0.95, 0, 0.1); err == nil {
		t.Fatalf("expected error for zero half width")
	}
	if _, err := RecommendedSampleSize(0.95, 0.01, 1); err == nil {
		t.Fatalf("expected error for elite percentage 1")
	}
}
