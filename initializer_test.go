package kmedgo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmedgo/comm"
	"github.com/hupe1980/kmedgo/darray"
	"github.com/hupe1980/kmedgo/testutil"
)

// containsRow reports whether candidate matches any row of the
// row-major data buffer.
func containsRow(data []float32, cols int, candidate []float32) bool {
	for off := 0; off+cols <= len(data); off += cols {
		match := true
		for c := 0; c < cols; c++ {
			if data[off+c] != candidate[c] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestInitRandom(t *testing.T) {
	rng := testutil.NewRNG(5)
	data := rng.UniformMatrix(12, 4)

	runGroup(t, 3, func(ctx context.Context, c *comm.Communicator) error {
		x, err := darray.NewDense(c, data, 12, 4)
		require.NoError(t, err)

		s := NewSampler(c, 1)
		centers, err := InitRandom().Initialize(ctx, x, 3, s)
		require.NoError(t, err)
		require.Len(t, centers, 3*4)

		// Every center is an actual data row, and no row is used twice.
		seen := make(map[string]bool)
		for i := 0; i < 3; i++ {
			center := centers[i*4 : (i+1)*4]
			assert.True(t, containsRow(data, 4, center))

			key := fmt.Sprintf("%v", center)
			assert.False(t, seen[key], "center %d duplicates another", i)
			seen[key] = true
		}

		// All workers hold the same buffer.
		gathered := c.AllgatherFloat32s(centers)
		for rank := 1; rank < c.Size(); rank++ {
			assert.Equal(t, gathered[0], gathered[rank])
		}
		return nil
	})
}

func TestInitProbabilityBased(t *testing.T) {
	rng := testutil.NewRNG(9)
	data, _ := testutil.Blobs(rng, []float32{-10, 10}, 8, 2, 0.5)

	runGroup(t, 2, func(ctx context.Context, c *comm.Communicator) error {
		x, err := darray.NewDense(c, data, 16, 2)
		require.NoError(t, err)

		s := NewSampler(c, 1)
		centers, err := InitProbabilityBased().Initialize(ctx, x, 2, s)
		require.NoError(t, err)
		require.Len(t, centers, 2*2)

		// Centers are real data rows; a chosen row has zero weight so
		// it cannot be drawn twice.
		assert.True(t, containsRow(data, 2, centers[0:2]))
		assert.True(t, containsRow(data, 2, centers[2:4]))
		assert.NotEqual(t, centers[0:2], centers[2:4])

		gathered := c.AllgatherFloat32s(centers)
		for rank := 1; rank < c.Size(); rank++ {
			assert.Equal(t, gathered[0], gathered[rank])
		}
		return nil
	})
}

func TestInitProbabilityBased_IdenticalRows(t *testing.T) {
	// All rows coincide, so distance weights collapse to zero and the
	// initializer falls back to uniform draws.
	data := []float32{3, 3, 3, 3}

	runGroup(t, 2, func(ctx context.Context, c *comm.Communicator) error {
		x, err := darray.NewDense(c, data, 4, 1)
		require.NoError(t, err)

		s := NewSampler(c, 1)
		centers, err := InitProbabilityBased().Initialize(ctx, x, 2, s)
		require.NoError(t, err)

		assert.Equal(t, []float32{3, 3}, centers)
		return nil
	})
}

func TestInitGiven(t *testing.T) {
	runGroup(t, 1, func(ctx context.Context, c *comm.Communicator) error {
		x, err := darray.NewDense(c, []float32{1, 2, 3, 4}, 2, 2)
		require.NoError(t, err)

		s := NewSampler(c, 1)

		want := []float32{0, 0, 5, 5}
		centers, err := InitGiven(want, 2, 2).Initialize(ctx, x, 2, s)
		require.NoError(t, err)
		assert.Equal(t, want, centers)

		// The initializer copies; mutating its buffer afterwards must
		// not leak into the returned centers.
		want[0] = 99
		assert.Equal(t, float32(0), centers[0])

		_, err = InitGiven(want, 3, 2).Initialize(ctx, x, 2, s)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = InitGiven(want, 2, 3).Initialize(ctx, x, 2, s)
		var dimErr *ErrDimensionMismatch
		assert.ErrorAs(t, err, &dimErr)

		_, err = InitGiven(want[:3], 2, 2).Initialize(ctx, x, 2, s)
		assert.ErrorIs(t, err, ErrInvalidInput)
		return nil
	})
}
