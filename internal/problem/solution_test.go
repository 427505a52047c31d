package problem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareByObjective(t *testing.T) {
	a := NewSolution(InputMap{}, 10, 1.0, 0.5)
	b := NewSolution(InputMap{}, 10, 2.0, 0.5)

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
	assert.Equal(t, 0, Compare(a, a))
}

func TestCompareTieBreaksOnReplications(t *testing.T) {
	lowConfidence := NewSolution(InputMap{}, 5, 1.0, 0.5)
	highConfidence := NewSolution(InputMap{}, 50, 1.0, 0.5)

	assert.Equal(t, -1, Compare(highConfidence, lowConfidence))
	assert.Equal(t, 1, Compare(lowConfidence, highConfidence))
}

func TestCompareNil(t *testing.T) {
	s := NewSolution(InputMap{}, 1, 1.0, 0)

	assert.Equal(t, -1, Compare(s, nil))
	assert.Equal(t, 1, Compare(nil, s))
	assert.Equal(t, 0, Compare(nil, nil))
}

func TestBetter(t *testing.T) {
	a := NewSolution(InputMap{}, 10, 1.0, 0)
	b := NewSolution(InputMap{}, 10, 2.0, 0)

	assert.Same(t, a, Better(a, b))
	assert.Same(t, a, Better(b, a))
	// Ties prefer the first argument.
	assert.Same(t, b, Better(b, b))
}

func TestConfidenceInterval(t *testing.T) {
	s := NewSolution(InputMap{}, 25, 10.0, 4.0)

	// stderr = sqrt(4/25) = 0.4
	require.InDelta(t, 0.4, s.StdError(), 1e-12)

	lo, hi := s.ConfidenceInterval(1.96)
	assert.InDelta(t, 10.0-1.96*0.4, lo, 1e-12)
	assert.InDelta(t, 10.0+1.96*0.4, hi, 1e-12)
}

func TestStdErrorNoReplications(t *testing.T) {
	s := NewSolution(InputMap{}, 0, math.Inf(1), 0)
	assert.True(t, math.IsInf(s.StdError(), 1))
}
