package solver

import (
	"fmt"
	"math"
)

// CoolingSchedule decides the simulated-annealing temperature as a pure
// function of the iteration number. Temperatures are monotone
// non-increasing in the iteration.
type CoolingSchedule interface {
	NextTemperature(iteration int) float64
	Name() string
}

// LinearCooling decreases the temperature by a fixed step per iteration,
// never going below the floor.
type LinearCooling struct {
	initial float64
	step    float64
	floor   float64
}

// NewLinearCooling creates a linear schedule.
func NewLinearCooling(initial, step, floor float64) (*LinearCooling, error) {
	if initial <= 0 {
		return nil, fmt.Errorf("initial temperature must be positive, got %g", initial)
	}
	if step <= 0 {
		return nil, fmt.Errorf("cooling step must be positive, got %g", step)
	}
	if floor < 0 || floor >= initial {
		return nil, fmt.Errorf("floor %g must be in [0, initial temperature)", floor)
	}
	return &LinearCooling{initial: initial, step: step, floor: floor}, nil
}

// NextTemperature returns max(initial − step·iteration, floor).
func (c *LinearCooling) NextTemperature(iteration int) float64 {
	t := c.initial - c.step*float64(iteration)
	if t < c.floor {
		return c.floor
	}
	return t
}

// Name identifies the schedule.
func (c *LinearCooling) Name() string { return "linear" }

// ExponentialCooling decays the temperature geometrically.
type ExponentialCooling struct {
	initial float64
	rate    float64
}

// NewExponentialCooling creates an exponential schedule with decay rate in
// (0, 1).
func NewExponentialCooling(initial, rate float64) (*ExponentialCooling, error) {
	if initial <= 0 {
		return nil, fmt.Errorf("initial temperature must be positive, got %g", initial)
	}
	if rate <= 0 || rate >= 1 {
		return nil, fmt.Errorf("decay rate must be in (0, 1), got %g", rate)
	}
	return &ExponentialCooling{initial: initial, rate: rate}, nil
}

// NextTemperature returns initial·rate^iteration.
func (c *ExponentialCooling) NextTemperature(iteration int) float64 {
	return c.initial * math.Pow(c.rate, float64(iteration))
}

// Name identifies the schedule.
func (c *ExponentialCooling) Name() string { return "exponential" }

// LogarithmicCooling cools as initial/ln(e + iteration), the classic
// slowly-converging schedule.
type LogarithmicCooling struct {
	initial float64
}

// NewLogarithmicCooling creates a logarithmic schedule.
func NewLogarithmicCooling(initial float64) (*LogarithmicCooling, error) {
	if initial <= 0 {
		return nil, fmt.Errorf("initial temperature must be positive, got %g", initial)
	}
	return &LogarithmicCooling{initial: initial}, nil
}

// NextTemperature returns initial/ln(e + iteration).
func (c *LogarithmicCooling) NextTemperature(iteration int) float64 {
	if iteration < 0 {
		iteration = 0
	}
	return c.initial / math.Log(math.E+float64(iteration))
}

// Name identifies the schedule.
func (c *LogarithmicCooling) Name() string { return "logarithmic" }
