package solver

import (
	"fmt"

	"github.com/simquery/optimize-core/internal/problem"
)

// EqualityTest decides whether two solutions are indistinguishable for the
// purpose of convergence detection.
type EqualityTest func(a, b *problem.Solution) bool

// DefaultEqualityTest treats two solutions as equal when they carry the
// same inputs and their objective confidence intervals (mean ± z·stderr)
// overlap.
func DefaultEqualityTest(z float64) EqualityTest {
	return func(a, b *problem.Solution) bool {
		if a == nil || b == nil {
			return false
		}
		if !a.Input().Equal(b.Input()) {
			return false
		}
		aLo, aHi := a.ConfidenceInterval(z)
		bLo, bHi := b.ConfidenceInterval(z)
		return aLo <= bHi && bLo <= aHi
	}
}

// SolutionChecker detects search stagnation from a fixed-size sliding
// window of recent current solutions: it reports convergence when the
// window is full and every pair of solutions in it is equal under the
// injected test. It is shared across algorithms; each owns its own
// instance.
type SolutionChecker struct {
	window []*problem.Solution
	next   int
	count  int
	equal  EqualityTest
}

// NewSolutionChecker creates a checker over a window of the given size.
func NewSolutionChecker(windowSize int, equal EqualityTest) (*SolutionChecker, error) {
	if windowSize < 2 {
		return nil, fmt.Errorf("window size must be at least 2, got %d", windowSize)
	}
	if equal == nil {
		equal = DefaultEqualityTest(1.96)
	}
	return &SolutionChecker{
		window: make([]*problem.Solution, windowSize),
		equal:  equal,
	}, nil
}

// Record appends a current solution to the window, evicting the oldest
// entry once the window is full.
func (c *SolutionChecker) Record(sol *problem.Solution) {
	if sol == nil {
		return
	}
	c.window[c.next] = sol
	c.next = (c.next + 1) % len(c.window)
	if c.count < len(c.window) {
		c.count++
	}
}

// CheckSolutions reports whether the window is full and all entries are
// pairwise equal.
func (c *SolutionChecker) CheckSolutions() bool {
	if c.count < len(c.window) {
		return false
	}
	for i := 0; i < len(c.window); i++ {
		for j := i + 1; j < len(c.window); j++ {
			if !c.equal(c.window[i], c.window[j]) {
				return false
			}
		}
	}
	return true
}

// Reset empties the window.
func (c *SolutionChecker) Reset() {
	for i := range c.window {
		c.window[i] = nil
	}
	c.next = 0
	c.count = 0
}

// WindowSize returns the configured window size.
func (c *SolutionChecker) WindowSize() int {
	return len(c.window)
}
