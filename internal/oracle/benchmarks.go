package oracle

import (
	"fmt"

	"github.com/simquery/optimize-core/internal/problem"
	"github.com/simquery/optimize-core/pkg/utils"
)

// NewQuadraticOracle returns an oracle observing a noisy quadratic bowl
// with its minimum at the given optimum. Each observation adds Gaussian
// noise with the given standard deviation, so replication averaging is
// what recovers the true objective.
func NewQuadraticOracle(optimum []float64, noiseStd float64) OracleFunc {
	return func(input problem.InputMap, stream *utils.RNStream) (float64, error) {
		v := input.Vector()
		if len(v) != len(optimum) {
			return 0, fmt.Errorf("input has %d values, optimum has %d", len(v), len(optimum))
		}
		sum := 0.0
		for i := range v {
			d := v[i] - optimum[i]
			sum += d * d
		}
		if noiseStd > 0 {
			sum += stream.NormFloat64(0, noiseStd)
		}
		return sum, nil
	}
}

// NewSphereOracle returns a noisy quadratic centered at the origin.
func NewSphereOracle(dimension int, noiseStd float64) OracleFunc {
	return NewQuadraticOracle(make([]float64, dimension), noiseStd)
}
