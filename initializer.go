package kmedgo

import (
	"context"
	"fmt"

	"github.com/hupe1980/kmedgo/darray"
	"github.com/hupe1980/kmedgo/distance"
)

// Initializer produces the initial cluster centers: a replicated k x D
// row-major buffer, identical on every worker. Initialize is a
// collective operation.
type Initializer interface {
	Initialize(ctx context.Context, x *darray.Matrix, k int, s *Sampler) ([]float32, error)
}

// InitRandom chooses k distinct data rows uniformly at random as the
// initial centers.
func InitRandom() Initializer {
	return &randomInit{}
}

type randomInit struct{}

func (randomInit) Initialize(_ context.Context, x *darray.Matrix, k int, s *Sampler) ([]float32, error) {
	cols := x.Cols()
	centers := make([]float32, k*cols)

	for i, global := range s.Perm(x.Rows(), k) {
		row, err := x.Row(global)
		if err != nil {
			return nil, err
		}
		copy(centers[i*cols:(i+1)*cols], row)
	}

	return centers, nil
}

// InitProbabilityBased chooses centers with distance-weighted sampling
// (the k-medians++ scheme): the first center is uniform, each further
// center is drawn with probability proportional to its Manhattan
// distance to the nearest already-chosen center.
func InitProbabilityBased() Initializer {
	return &probabilityInit{distFn: distance.Manhattan}
}

type probabilityInit struct {
	distFn distance.Func
}

func (p *probabilityInit) Initialize(_ context.Context, x *darray.Matrix, k int, s *Sampler) ([]float32, error) {
	c := x.Comm()
	cols := x.Cols()
	centers := make([]float32, k*cols)

	first, err := x.Row(s.Intn(x.Rows()))
	if err != nil {
		return nil, err
	}
	copy(centers[:cols], first)

	// weights[i] is the distance of local row i to its nearest chosen
	// center, maintained incrementally as centers are added.
	weights := make([]float64, x.LocalRows())
	for i := range weights {
		weights[i] = float64(p.distFn(x.LocalRow(i), first))
	}

	for j := 1; j < k; j++ {
		var localSum float64
		for _, w := range weights {
			localSum += w
		}
		rankSums := c.AllgatherFloat64(localSum)

		var total float64
		for _, rs := range rankSums {
			total += rs
		}

		var global int
		if total == 0 {
			// All rows coincide with a chosen center; fall back to
			// a uniform draw.
			global = s.Intn(x.Rows())
		} else {
			global = p.weightedDraw(x, weights, rankSums, s.Float64()*total)
		}

		row, err := x.Row(global)
		if err != nil {
			return nil, err
		}
		copy(centers[j*cols:(j+1)*cols], row)

		for i := range weights {
			if d := float64(p.distFn(x.LocalRow(i), row)); d < weights[i] {
				weights[i] = d
			}
		}
	}

	return centers, nil
}

// weightedDraw resolves the global row index whose cumulative weight
// interval contains u. Every worker computes the same result from the
// gathered per-rank sums.
func (p *probabilityInit) weightedDraw(x *darray.Matrix, weights []float64, rankSums []float64, u float64) int {
	c := x.Comm()
	part := x.Partition()

	owner := 0
	var before float64
	for r := 0; r < c.Size(); r++ {
		if u < before+rankSums[r] {
			owner = r
			break
		}
		before += rankSums[r]
		owner = r
	}

	// The owner locates the row within its shard and broadcasts it.
	global := 0
	if c.Rank() == owner {
		rem := u - before
		idx := len(weights) - 1
		var cum float64
		for i, w := range weights {
			cum += w
			if rem < cum {
				idx = i
				break
			}
		}
		global = part.Offset(owner) + idx
	}
	return c.BcastInt(global, owner)
}

// InitGiven uses a caller-supplied k x D center matrix verbatim.
func InitGiven(centers []float32, k, cols int) Initializer {
	return &givenInit{centers: centers, k: k, cols: cols}
}

type givenInit struct {
	centers []float32
	k       int
	cols    int
}

func (g *givenInit) Initialize(_ context.Context, x *darray.Matrix, k int, _ *Sampler) ([]float32, error) {
	if g.k != k {
		return nil, fmt.Errorf("%w: initializer provides %d centers, need %d", ErrInvalidInput, g.k, k)
	}
	if g.cols != x.Cols() {
		return nil, &ErrDimensionMismatch{Expected: x.Cols(), Actual: g.cols}
	}
	if len(g.centers) != g.k*g.cols {
		return nil, fmt.Errorf("%w: center buffer length %d does not match %dx%d", ErrInvalidInput, len(g.centers), g.k, g.cols)
	}

	centers := make([]float32, len(g.centers))
	copy(centers, g.centers)
	return centers, nil
}
