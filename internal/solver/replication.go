package solver

import (
	"fmt"
	"math"
)

// ReplicationSchedule decides how many oracle replications to request for
// an evaluation as a pure function of the iteration number. Early
// iterations tolerate cheap, noisy estimates; later iterations need
// precision to avoid chasing noise.
type ReplicationSchedule interface {
	Replications(iteration int) int
	Name() string
}

// FixedReplications requests a constant replication count every iteration.
type FixedReplications struct {
	count int
}

// NewFixedReplications creates a constant schedule.
func NewFixedReplications(count int) (*FixedReplications, error) {
	if count <= 0 {
		return nil, fmt.Errorf("replication count must be positive, got %d", count)
	}
	return &FixedReplications{count: count}, nil
}

// Replications returns the constant count.
func (f *FixedReplications) Replications(iteration int) int {
	return f.count
}

// Name identifies the schedule.
func (f *FixedReplications) Name() string { return "fixed" }

// GrowthReplications grows the replication count geometrically with the
// iteration number up to a ceiling.
type GrowthReplications struct {
	initial int
	rate    float64
	ceiling int
}

// NewGrowthReplications creates a geometric-growth schedule. The count at
// iteration n is ceil(initial·(1+rate)^n), capped at ceiling.
func NewGrowthReplications(initial int, rate float64, ceiling int) (*GrowthReplications, error) {
	if initial <= 0 {
		return nil, fmt.Errorf("initial replication count must be positive, got %d", initial)
	}
	if rate < 0 {
		return nil, fmt.Errorf("growth rate cannot be negative, got %g", rate)
	}
	if ceiling < initial {
		return nil, fmt.Errorf("ceiling %d is below initial count %d", ceiling, initial)
	}
	return &GrowthReplications{initial: initial, rate: rate, ceiling: ceiling}, nil
}

// Replications returns the scheduled count for the iteration.
func (g *GrowthReplications) Replications(iteration int) int {
	if iteration < 0 {
		iteration = 0
	}
	n := float64(g.initial) * math.Pow(1+g.rate, float64(iteration))
	count := int(math.Ceil(n))
	if count > g.ceiling {
		return g.ceiling
	}
	return count
}

// Name identifies the schedule.
func (g *GrowthReplications) Name() string { return "growth" }
