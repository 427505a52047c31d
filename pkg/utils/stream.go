package utils

import (
	"math/rand"
	"time"
)

// substreamStride separates substream seeds far enough that consecutive
// substreams do not overlap in practice.
const substreamStride = 1_000_003

// streamStride separates the base seeds handed out to distinct stream numbers.
const streamStride = 982_451_653

// RNStream is a reproducible random-number stream owned by a single solver.
// It supports resetting to its initial state, advancing to the next
// substream, and antithetic sampling (every uniform draw u becomes 1-u).
type RNStream struct {
	seed       int64
	substream  int64
	antithetic bool
	rng        *rand.Rand
}

// NewRNStream creates a stream from the given seed. A zero seed picks a
// time-based seed, which makes the stream non-reproducible.
func NewRNStream(seed int64) *RNStream {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &RNStream{seed: seed}
	s.Reset()
	return s
}

// Reset rewinds the stream to the beginning of its current substream.
func (s *RNStream) Reset() {
	s.rng = rand.New(rand.NewSource(s.seed + s.substream*substreamStride))
}

// ResetToStart rewinds the stream to substream zero and its initial state.
func (s *RNStream) ResetToStart() {
	s.substream = 0
	s.Reset()
}

// NextSubstream advances to the beginning of the next substream.
func (s *RNStream) NextSubstream() {
	s.substream++
	s.Reset()
}

// SetAntithetic toggles antithetic sampling for subsequent draws.
func (s *RNStream) SetAntithetic(antithetic bool) {
	s.antithetic = antithetic
}

// Antithetic reports whether antithetic sampling is active.
func (s *RNStream) Antithetic() bool {
	return s.antithetic
}

// Float64 returns a random float64 in [0.0, 1.0).
func (s *RNStream) Float64() float64 {
	u := s.rng.Float64()
	if s.antithetic {
		return 1.0 - u
	}
	return u
}

// Intn returns a random int in [0, n).
func (s *RNStream) Intn(n int) int {
	if s.antithetic {
		// Derive from the (possibly reflected) uniform so antithetic
		// streams stay antithetic for integer draws too.
		return int(s.Float64() * float64(n))
	}
	return s.rng.Intn(n)
}

// UniformFloat64 returns a uniformly distributed random number in [min, max).
func (s *RNStream) UniformFloat64(min, max float64) float64 {
	return min + s.Float64()*(max-min)
}

// NormFloat64 returns a normally distributed random number with mean and stddev.
func (s *RNStream) NormFloat64(mean, stddev float64) float64 {
	return s.rng.NormFloat64()*stddev + mean
}

// Perm returns a random permutation of [0, n).
func (s *RNStream) Perm(n int) []int {
	return s.rng.Perm(n)
}

// StreamProvider hands out independent random-number streams by number.
// Implementations must return the same stream state for the same number
// and base seed, so runs are reproducible.
type StreamProvider interface {
	// Stream returns a fresh stream for the given stream number.
	Stream(streamNumber int) *RNStream
}

// SeededProvider derives stream seeds deterministically from a base seed.
type SeededProvider struct {
	baseSeed int64
}

// NewSeededProvider creates a provider rooted at the given base seed.
// A zero base seed yields time-seeded, non-reproducible streams.
func NewSeededProvider(baseSeed int64) *SeededProvider {
	return &SeededProvider{baseSeed: baseSeed}
}

// Stream returns the stream for the given number.
func (p *SeededProvider) Stream(streamNumber int) *RNStream {
	if p.baseSeed == 0 {
		return NewRNStream(0)
	}
	return NewRNStream(p.baseSeed + int64(streamNumber)*streamStride)
}
