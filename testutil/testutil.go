package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// FillGaussian fills dst with normally distributed values centered at
// mean with the given standard deviation.
func (r *RNG) FillGaussian(dst []float32, mean, stddev float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = mean + stddev*float32(r.rand.NormFloat64())
	}
}

// UniformMatrix returns a rows x cols row-major matrix with entries
// in [0, 1).
func (r *RNG) UniformMatrix(rows, cols int) []float32 {
	data := make([]float32, rows*cols)
	r.FillUniform(data)
	return data
}

// Shuffle permutes rows of a row-major matrix in place.
func (r *RNG) Shuffle(data []float32, rows, cols int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(rows, func(i, j int) {
		ri := data[i*cols : (i+1)*cols]
		rj := data[j*cols : (j+1)*cols]
		for c := range ri {
			ri[c], rj[c] = rj[c], ri[c]
		}
	})
}

// Blobs generates a synthetic clustered dataset. Each entry of means
// becomes one cluster of perRow rows whose coordinates are all drawn
// from a Gaussian around that mean. Returns the row-major data and
// the ground-truth label of every row, in generation order.
func Blobs(rng *RNG, means []float32, perCluster, cols int, stddev float32) ([]float32, []int32) {
	data := make([]float32, 0, len(means)*perCluster*cols)
	labels := make([]int32, 0, len(means)*perCluster)

	row := make([]float32, cols)
	for ci, mean := range means {
		for i := 0; i < perCluster; i++ {
			rng.FillGaussian(row, mean, stddev)
			data = append(data, row...)
			labels = append(labels, int32(ci))
		}
	}
	return data, labels
}
