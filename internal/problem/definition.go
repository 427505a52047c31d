package problem

import (
	"fmt"
	"math"

	"github.com/simquery/optimize-core/pkg/utils"
)

// maxFeasibleAttempts bounds random searches for a feasible point before
// giving up. Constraint sets tighter than this are a configuration problem.
const maxFeasibleAttempts = 10000

// InputSpec describes one input dimension of the search space.
type InputSpec struct {
	Name string
	// Min and Max bound the input inclusively.
	Min float64
	Max float64
	// Granularity is the lattice step of the input. Zero means continuous;
	// 1 gives an integer-ordered input.
	Granularity float64
}

// Constraint is a deterministic feasibility predicate over an input map,
// evaluated in addition to the per-input range checks.
type Constraint func(InputMap) bool

// Definition describes the input space, feasibility rules, and helper
// generators of a simulation-optimization problem. It is immutable after
// construction and safe to share read-only across solver instances.
type Definition struct {
	inputs     []InputSpec
	constraint Constraint
}

// Option configures a Definition at construction time.
type Option func(*Definition)

// WithConstraint adds a deterministic constraint to the definition.
func WithConstraint(c Constraint) Option {
	return func(d *Definition) {
		d.constraint = c
	}
}

// NewDefinition creates a problem definition from input specs.
func NewDefinition(inputs []InputSpec, opts ...Option) (*Definition, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("at least one input must be defined")
	}

	names := make(map[string]bool)
	for i, in := range inputs {
		if in.Name == "" {
			return nil, fmt.Errorf("input %d: name cannot be empty", i)
		}
		if names[in.Name] {
			return nil, fmt.Errorf("duplicate input name: %s", in.Name)
		}
		names[in.Name] = true
		if in.Min > in.Max {
			return nil, fmt.Errorf("input %s: min %g exceeds max %g", in.Name, in.Min, in.Max)
		}
		if in.Granularity < 0 {
			return nil, fmt.Errorf("input %s: granularity cannot be negative", in.Name)
		}
	}

	d := &Definition{inputs: append([]InputSpec(nil), inputs...)}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dimension returns the number of input dimensions.
func (d *Definition) Dimension() int {
	return len(d.inputs)
}

// Inputs returns a copy of the input specs.
func (d *Definition) Inputs() []InputSpec {
	return append([]InputSpec(nil), d.inputs...)
}

// IntegerOrdered reports whether every input lies on an integer lattice.
// R-SPLINE requires this.
func (d *Definition) IntegerOrdered() bool {
	for _, in := range d.inputs {
		if in.Granularity != 1 {
			return false
		}
	}
	return true
}

// ToInputMap converts a raw vector into an immutable input map. The vector
// length must match the problem dimension.
func (d *Definition) ToInputMap(vector []float64) (InputMap, error) {
	if len(vector) != len(d.inputs) {
		return InputMap{}, fmt.Errorf("vector has %d values, problem has %d inputs", len(vector), len(d.inputs))
	}
	names := make([]string, len(d.inputs))
	for i, in := range d.inputs {
		names[i] = in.Name
	}
	return newInputMap(names, vector), nil
}

// IsFeasibleVector checks range, lattice, and constraint feasibility of a
// raw vector.
func (d *Definition) IsFeasibleVector(vector []float64) bool {
	if len(vector) != len(d.inputs) {
		return false
	}
	for i, in := range d.inputs {
		v := vector[i]
		if math.IsNaN(v) || v < in.Min || v > in.Max {
			return false
		}
		if in.Granularity > 0 {
			rounded := utils.RoundToStep(v, in.Granularity)
			if math.Abs(rounded-v) > latticeTolerance {
				return false
			}
		}
	}
	if d.constraint != nil {
		im, err := d.ToInputMap(vector)
		if err != nil {
			return false
		}
		return d.constraint(im)
	}
	return true
}

// latticeTolerance absorbs float error when checking lattice membership.
const latticeTolerance = 1e-9

// IsFeasible checks feasibility of an input map.
func (d *Definition) IsFeasible(input InputMap) bool {
	return d.IsFeasibleVector(input.Vector())
}

// NearestFeasible maps an arbitrary vector to the closest in-range lattice
// point. The boolean result is false when that point still violates the
// deterministic constraint.
func (d *Definition) NearestFeasible(vector []float64) ([]float64, bool) {
	if len(vector) != len(d.inputs) {
		return nil, false
	}
	out := make([]float64, len(vector))
	for i, in := range d.inputs {
		v := utils.ClampFloat64(vector[i], in.Min, in.Max)
		if in.Granularity > 0 {
			v = utils.RoundToStep(v, in.Granularity)
			// Rounding can step past a bound when the bound itself is
			// off-lattice.
			v = utils.ClampFloat64(v, in.Min, in.Max)
		}
		out[i] = v
	}
	return out, d.IsFeasibleVector(out)
}

// StartingPoint draws a random feasible input map using the given stream.
// It fails if no feasible point is found within a bounded number of draws.
func (d *Definition) StartingPoint(stream *utils.RNStream) (InputMap, error) {
	for attempt := 0; attempt < maxFeasibleAttempts; attempt++ {
		vector := make([]float64, len(d.inputs))
		for i, in := range d.inputs {
			v := stream.UniformFloat64(in.Min, in.Max)
			if in.Granularity > 0 {
				v = utils.ClampFloat64(utils.RoundToStep(v, in.Granularity), in.Min, in.Max)
			}
			vector[i] = v
		}
		if d.IsFeasibleVector(vector) {
			return d.ToInputMap(vector)
		}
	}
	return InputMap{}, fmt.Errorf("no feasible starting point found after %d attempts", maxFeasibleAttempts)
}

// RandomNeighbor generates a feasible input map near the center by
// perturbing one randomly chosen dimension. Integer-ordered inputs step by
// one granularity unit; continuous inputs take a small uniform step.
func (d *Definition) RandomNeighbor(center InputMap, stream *utils.RNStream) (InputMap, error) {
	base := center.Vector()
	if len(base) != len(d.inputs) {
		return InputMap{}, fmt.Errorf("center has %d values, problem has %d inputs", len(base), len(d.inputs))
	}

	for attempt := 0; attempt < maxFeasibleAttempts; attempt++ {
		vector := append([]float64(nil), base...)
		i := stream.Intn(len(d.inputs))
		in := d.inputs[i]

		var step float64
		if in.Granularity > 0 {
			step = in.Granularity
		} else {
			step = (in.Max - in.Min) * 0.05 * stream.Float64()
		}
		if stream.Float64() < 0.5 {
			step = -step
		}
		vector[i] = utils.ClampFloat64(vector[i]+step, in.Min, in.Max)
		if in.Granularity > 0 {
			vector[i] = utils.RoundToStep(vector[i], in.Granularity)
		}

		if d.IsFeasibleVector(vector) && !sameVector(vector, base) {
			return d.ToInputMap(vector)
		}
	}
	return InputMap{}, fmt.Errorf("no feasible neighbor of %s found after %d attempts", center, maxFeasibleAttempts)
}

// BadSolution returns the sentinel solution used when the oracle produced
// no usable result. Its penalized objective is +Inf so any real solution
// compares better.
func (d *Definition) BadSolution() *Solution {
	return &Solution{objective: math.Inf(1)}
}

func sameVector(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
