package solver

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// SimplexData describes the integer lattice simplex surrounding a
// continuous point: the d+1 vertices, their convex-combination weights,
// the fractional parts of the point, and the permutation that sorted those
// fractional parts descending. The permutation maps vertex-to-vertex
// objective differences back to input dimensions during gradient
// estimation.
//
// Invariants: weights are non-negative and sum to 1; Vertices[0] is the
// coordinate-wise floor of the point; Vertices[k] adds unit steps in the k
// dimensions with the largest fractional parts.
type SimplexData struct {
	Vertices  [][]int
	Weights   []float64
	Fractions []float64
	Order     []int
}

// BuildSimplex constructs the piecewise-linear interpolation simplex of a
// continuous point.
func BuildSimplex(point []float64) (*SimplexData, error) {
	d := len(point)
	if d == 0 {
		return nil, fmt.Errorf("point must have at least one dimension")
	}
	for i, v := range point {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("dimension %d: point value %g is not finite", i, v)
		}
	}

	floor := make([]int, d)
	fractions := make([]float64, d)
	for i, v := range point {
		f := math.Floor(v)
		floor[i] = int(f)
		fractions[i] = v - f
	}

	order := make([]int, d)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fractions[order[a]] > fractions[order[b]]
	})

	vertices := make([][]int, d+1)
	vertices[0] = append([]int(nil), floor...)
	for k := 1; k <= d; k++ {
		v := append([]int(nil), vertices[k-1]...)
		v[order[k-1]]++
		vertices[k] = v
	}

	weights := make([]float64, d+1)
	weights[0] = 1 - fractions[order[0]]
	for k := 1; k < d; k++ {
		weights[k] = fractions[order[k-1]] - fractions[order[k]]
	}
	weights[d] = fractions[order[d-1]]

	if s := floats.Sum(weights); math.Abs(s-1) > 1e-9 {
		return nil, fmt.Errorf("simplex weights sum to %g, expected 1", s)
	}

	return &SimplexData{
		Vertices:  vertices,
		Weights:   weights,
		Fractions: fractions,
		Order:     order,
	}, nil
}

// Interpolate reproduces the continuous point as the weighted sum of the
// vertices.
func (s *SimplexData) Interpolate() []float64 {
	d := len(s.Fractions)
	out := make([]float64, d)
	for k, v := range s.Vertices {
		for i := 0; i < d; i++ {
			out[i] += s.Weights[k] * float64(v[i])
		}
	}
	return out
}
