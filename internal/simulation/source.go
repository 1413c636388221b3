// backend-go/internal/simulation/source.go
package simulation

import "math/rand"

// Source is the seedable uniform generator behind every stochastic draw.
// Each trajectory gets its own split sub-stream so parallel evaluation
// cannot reorder draws: the stream a trajectory consumes depends only on
// the base seed and the trajectory index, never on scheduling.
type Source struct {
	seed int64
	rng  *rand.Rand
}

// NewSource creates a source seeded with the given value.
func NewSource(seed int64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Split derives an independent sub-stream for the given index. Splitting
// does not advance the parent stream.
func (s *Source) Split(index int64) *Source {
	return NewSource(s.seed ^ (index+1)*0x5deece66d)
}

// Float64 returns the next uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Seed reports the seed this source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}
