package problem

import (
	"fmt"
	"math"
)

// Solution is the immutable record of one evaluated input: the input map,
// the number of replications observed, the estimated penalized objective,
// and the sample variance of the observations. Solutions are created only
// by evaluators; requesting more precision means evaluating again and
// replacing the reference.
type Solution struct {
	input        InputMap
	replications int
	objective    float64
	variance     float64
}

// NewSolution creates a solution record.
func NewSolution(input InputMap, replications int, objective, variance float64) *Solution {
	return &Solution{
		input:        input,
		replications: replications,
		objective:    objective,
		variance:     variance,
	}
}

// Input returns the evaluated input map.
func (s *Solution) Input() InputMap {
	return s.input
}

// Replications returns the number of oracle replications behind the estimate.
func (s *Solution) Replications() int {
	return s.replications
}

// Objective returns the estimated penalized objective value.
func (s *Solution) Objective() float64 {
	return s.objective
}

// Variance returns the sample variance of the observations.
func (s *Solution) Variance() float64 {
	return s.variance
}

// StdError returns the standard error of the objective estimate.
func (s *Solution) StdError() float64 {
	if s.replications <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(s.variance / float64(s.replications))
}

// ConfidenceInterval returns the objective interval mean ± z·stderr.
func (s *Solution) ConfidenceInterval(z float64) (lo, hi float64) {
	hw := z * s.StdError()
	return s.objective - hw, s.objective + hw
}

// IsBad reports whether this is the sentinel "no usable result" solution.
func (s *Solution) IsBad() bool {
	return math.IsInf(s.objective, 1) && s.replications == 0
}

func (s *Solution) String() string {
	return fmt.Sprintf("%s obj=%g n=%d", s.input, s.objective, s.replications)
}

// Compare orders solutions by penalized objective value; lower is better.
// Equal objectives break ties toward the solution with more replications
// (greater statistical confidence). Returns -1 if a is better, 1 if b is
// better, 0 if they are indistinguishable. Nil is treated as worst.
func Compare(a, b *Solution) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if a.objective < b.objective {
		return -1
	}
	if a.objective > b.objective {
		return 1
	}
	if a.replications > b.replications {
		return -1
	}
	if a.replications < b.replications {
		return 1
	}
	return 0
}

// Better returns whichever of a, b compares better, preferring a on ties.
func Better(a, b *Solution) *Solution {
	if Compare(a, b) <= 0 {
		return a
	}
	return b
}
