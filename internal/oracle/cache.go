package oracle

import (
	"fmt"
	"sync"

	"github.com/simquery/optimize-core/internal/problem"
)

// CachingEvaluator memoizes solutions by input map key. A cached solution
// satisfies a request when it carries at least the requested number of
// replications; otherwise the inner evaluator is asked again and the
// higher-precision result replaces the cached one.
type CachingEvaluator struct {
	inner Evaluator

	mu    sync.Mutex
	cache map[string]*problem.Solution
}

// NewCachingEvaluator wraps an evaluator with a result cache.
func NewCachingEvaluator(inner Evaluator) (*CachingEvaluator, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner evaluator is required")
	}
	return &CachingEvaluator{
		inner: inner,
		cache: make(map[string]*problem.Solution),
	}, nil
}

// Evaluate serves what it can from the cache and forwards the rest.
func (c *CachingEvaluator) Evaluate(inputs []problem.InputMap, replications int) ([]*problem.Solution, error) {
	results := make([]*problem.Solution, 0, len(inputs))
	missing := make([]problem.InputMap, 0, len(inputs))

	c.mu.Lock()
	for _, input := range inputs {
		if sol, ok := c.cache[input.Key()]; ok && sol.Replications() >= replications {
			results = append(results, sol)
			continue
		}
		missing = append(missing, input)
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return results, nil
	}

	fresh, err := c.inner.Evaluate(missing, replications)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for _, sol := range fresh {
		c.cache[sol.Input().Key()] = sol
	}
	c.mu.Unlock()

	return append(results, fresh...), nil
}

// Clear drops every cached solution.
func (c *CachingEvaluator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*problem.Solution)
}

// Size returns the number of cached solutions.
func (c *CachingEvaluator) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
