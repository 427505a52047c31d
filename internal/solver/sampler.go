package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/simquery/optimize-core/pkg/utils"
)

// GaussianSampler maintains the cross-entropy method's parametric sampling
// distribution: one (mean, stddev) pair per input dimension, updated by
// exponential smoothing from elite sample statistics.
type GaussianSampler struct {
	mean        []float64
	stddev      []float64
	smoothing   float64
	cvThreshold float64
}

// NewGaussianSampler creates a sampler. The initial standard deviations
// must all be positive and wide enough that the sampler is not already
// converged; a degenerate initial sampler is a configuration error, not a
// converged state.
func NewGaussianSampler(mean, stddev []float64, smoothing, cvThreshold float64) (*GaussianSampler, error) {
	if len(mean) == 0 {
		return nil, fmt.Errorf("sampler needs at least one dimension")
	}
	if len(mean) != len(stddev) {
		return nil, fmt.Errorf("mean has %d dimensions, stddev has %d", len(mean), len(stddev))
	}
	if smoothing <= 0 || smoothing > 1 {
		return nil, fmt.Errorf("smoothing must be in (0, 1], got %g", smoothing)
	}
	if cvThreshold <= 0 {
		return nil, fmt.Errorf("coefficient-of-variation threshold must be positive, got %g", cvThreshold)
	}
	for i, sd := range stddev {
		if sd <= 0 {
			return nil, fmt.Errorf("dimension %d: initial stddev must be positive, got %g", i, sd)
		}
	}

	s := &GaussianSampler{
		mean:        append([]float64(nil), mean...),
		stddev:      append([]float64(nil), stddev...),
		smoothing:   smoothing,
		cvThreshold: cvThreshold,
	}
	if s.Converged() {
		return nil, fmt.Errorf("initial sampler is already degenerate: every stddev is below the convergence threshold")
	}
	return s, nil
}

// Dimension returns the number of sampled dimensions.
func (s *GaussianSampler) Dimension() int {
	return len(s.mean)
}

// Mean returns a copy of the current mean vector.
func (s *GaussianSampler) Mean() []float64 {
	return append([]float64(nil), s.mean...)
}

// StdDev returns a copy of the current standard-deviation vector.
func (s *GaussianSampler) StdDev() []float64 {
	return append([]float64(nil), s.stddev...)
}

// Sample draws one vector from the current distribution.
func (s *GaussianSampler) Sample(stream *utils.RNStream) []float64 {
	out := make([]float64, len(s.mean))
	for i := range out {
		out[i] = stream.NormFloat64(s.mean[i], s.stddev[i])
	}
	return out
}

// Update smooths the distribution toward the empirical statistics of the
// elite sample: new = α·elite + (1−α)·old, per dimension.
func (s *GaussianSampler) Update(elite [][]float64) error {
	if len(elite) == 0 {
		return fmt.Errorf("elite sample is empty")
	}
	for i, e := range elite {
		if len(e) != len(s.mean) {
			return fmt.Errorf("elite vector %d has %d dimensions, sampler has %d", i, len(e), len(s.mean))
		}
	}

	column := make([]float64, len(elite))
	for dim := 0; dim < len(s.mean); dim++ {
		for j, e := range elite {
			column[j] = e[dim]
		}
		empMean := stat.Mean(column, nil)
		empStd := 0.0
		if len(column) > 1 {
			empStd = stat.StdDev(column, nil)
		}
		s.mean[dim] = s.smoothing*empMean + (1-s.smoothing)*s.mean[dim]
		s.stddev[dim] = s.smoothing*empStd + (1-s.smoothing)*s.stddev[dim]
	}
	return nil
}

// Converged reports whether every dimension's standard deviation has
// fallen below its coefficient-of-variation-derived threshold,
// cvThreshold·max(|mean|, 1). The max guard keeps the threshold meaningful
// for distributions centered near zero.
func (s *GaussianSampler) Converged() bool {
	for i := range s.stddev {
		threshold := s.cvThreshold * math.Max(math.Abs(s.mean[i]), 1.0)
		if s.stddev[i] >= threshold {
			return false
		}
	}
	return true
}
