package kmedgo

import (
	"math/rand"

	"github.com/hupe1980/kmedgo/comm"
)

// Sampler draws random values that every worker of the group agrees
// on: rank 0 draws from its seeded source and broadcasts the result.
// All draw methods are collective.
type Sampler struct {
	c   *comm.Communicator
	rng *rand.Rand // only consulted on rank 0
}

// NewSampler creates a sampler for the given communicator. Every
// worker must pass the same seed.
func NewSampler(c *comm.Communicator, seed int64) *Sampler {
	var rng *rand.Rand
	if c.Rank() == 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	return &Sampler{c: c, rng: rng}
}

// Intn returns a random integer in [0, n), identical on all workers.
func (s *Sampler) Intn(n int) int {
	v := 0
	if s.c.Rank() == 0 {
		v = s.rng.Intn(n)
	}
	return s.c.BcastInt(v, 0)
}

// Float64 returns a random value in [0, 1), identical on all workers.
func (s *Sampler) Float64() float64 {
	var v float64
	if s.c.Rank() == 0 {
		v = s.rng.Float64()
	}
	return s.c.BcastFloat64(v, 0)
}

// Perm returns the first k elements of a random permutation of [0, n),
// identical on all workers.
func (s *Sampler) Perm(n, k int) []int {
	idxs := make([]int, k)
	if s.c.Rank() == 0 {
		perm := s.rng.Perm(n)
		copy(idxs, perm[:k])
	}
	for i := range idxs {
		idxs[i] = s.c.BcastInt(idxs[i], 0)
	}
	return idxs
}
