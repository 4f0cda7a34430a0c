package darray

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmedgo/comm"
)

// runGroup runs fn on a worker group of the given size and fails the
// test on the first worker error.
func runGroup(t *testing.T, size int, fn func(c *comm.Communicator) error) {
	t.Helper()
	err := comm.Run(context.Background(), size, func(_ context.Context, c *comm.Communicator) error {
		return fn(c)
	})
	require.NoError(t, err)
}

func TestNewDense(t *testing.T) {
	data := []float32{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
		9, 10,
	}

	runGroup(t, 2, func(c *comm.Communicator) error {
		m, err := NewDense(c, data, 5, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, m.Rows())
		assert.Equal(t, 2, m.Cols())

		if c.Rank() == 0 {
			assert.Equal(t, 3, m.LocalRows())
			assert.Equal(t, []float32{1, 2}, m.LocalRow(0))
			assert.Equal(t, 0, m.GlobalIndex(0))
		} else {
			assert.Equal(t, 2, m.LocalRows())
			assert.Equal(t, []float32{7, 8}, m.LocalRow(0))
			assert.Equal(t, 3, m.GlobalIndex(0))
		}
		return nil
	})
}

func TestNewDenseInvalid(t *testing.T) {
	runGroup(t, 1, func(c *comm.Communicator) error {
		_, err := NewDense(c, []float32{1, 2, 3}, 2, 2)
		assert.Error(t, err)
		_, err = NewDense(c, nil, 0, 0)
		assert.Error(t, err)
		return nil
	})
}

func TestRowBroadcast(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8}

	runGroup(t, 3, func(c *comm.Communicator) error {
		m, err := NewDense(c, data, 4, 2)
		require.NoError(t, err)

		for global := 0; global < 4; global++ {
			row, err := m.Row(global)
			require.NoError(t, err)
			assert.Equal(t, data[global*2:(global+1)*2], row)
		}

		_, err = m.Row(4)
		assert.Error(t, err)
		return nil
	})
}

func TestSelect(t *testing.T) {
	data := []float32{
		0, 0,
		1, 1,
		2, 2,
		3, 3,
		4, 4,
		5, 5,
	}

	runGroup(t, 3, func(c *comm.Communicator) error {
		m, err := NewDense(c, data, 6, 2)
		require.NoError(t, err)

		sel := roaring.New()
		sel.AddMany([]uint32{1, 3, 5})

		sub := m.Select(sel)
		assert.Equal(t, 3, sub.Rows())
		assert.Equal(t, 2, sub.Cols())

		// Global order preserved: rows 1, 3, 5.
		d := sub.Consolidate()
		assert.Equal(t, []float32{1, 1}, d.Row(0))
		assert.Equal(t, []float32{3, 3}, d.Row(1))
		assert.Equal(t, []float32{5, 5}, d.Row(2))

		// Rebalanced: each of the 3 workers owns one row.
		assert.Equal(t, 1, sub.LocalRows())
		return nil
	})
}

func TestSelectEmpty(t *testing.T) {
	runGroup(t, 2, func(c *comm.Communicator) error {
		m, err := NewDense(c, []float32{1, 2, 3, 4}, 2, 2)
		require.NoError(t, err)

		sub := m.Select(roaring.New())
		assert.Equal(t, 0, sub.Rows())
		assert.Equal(t, 0, sub.LocalRows())
		return nil
	})
}

func TestBalance(t *testing.T) {
	runGroup(t, 2, func(c *comm.Communicator) error {
		// All rows start on rank 0.
		var local []float32
		if c.Rank() == 0 {
			local = []float32{1, 2, 3, 4, 5, 6, 7, 8}
		}
		m, err := FromLocal(c, local, 2)
		require.NoError(t, err)
		assert.Equal(t, 4, m.Rows())

		b := m.Balance()
		assert.Equal(t, 4, b.Rows())
		assert.Equal(t, 2, b.LocalRows())

		d := b.Consolidate()
		assert.Equal(t, []float32{1, 2}, d.Row(0))
		assert.Equal(t, []float32{7, 8}, d.Row(3))
		return nil
	})
}

func TestConsolidate(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}

	runGroup(t, 3, func(c *comm.Communicator) error {
		m, err := NewDense(c, data, 3, 2)
		require.NoError(t, err)

		d := m.Consolidate()
		assert.Equal(t, 3, d.Rows())
		for i := 0; i < 3; i++ {
			assert.Equal(t, data[i*2:(i+1)*2], d.Row(i))
		}
		return nil
	})
}

func TestMedianColumnsOdd(t *testing.T) {
	data := []float32{
		1, 10,
		2, 30,
		3, 20,
	}

	runGroup(t, 2, func(c *comm.Communicator) error {
		m, err := NewDense(c, data, 3, 2)
		require.NoError(t, err)

		med, err := m.MedianColumns()
		require.NoError(t, err)
		assert.Equal(t, []float32{2, 20}, med)
		return nil
	})
}

func TestMedianColumnsEven(t *testing.T) {
	data := []float32{
		1, 0,
		2, 0,
		3, 0,
		10, 0,
	}

	runGroup(t, 2, func(c *comm.Communicator) error {
		m, err := NewDense(c, data, 4, 2)
		require.NoError(t, err)

		med, err := m.MedianColumns()
		require.NoError(t, err)
		assert.InDelta(t, 2.5, med[0], 1e-6)
		assert.InDelta(t, 0.0, med[1], 1e-6)
		return nil
	})
}

func TestMedianColumnsSingleRow(t *testing.T) {
	runGroup(t, 2, func(c *comm.Communicator) error {
		var local []float32
		if c.Rank() == 0 {
			local = []float32{7, -3}
		}
		m, err := FromLocal(c, local, 2)
		require.NoError(t, err)

		med, err := m.MedianColumns()
		require.NoError(t, err)
		assert.Equal(t, []float32{7, -3}, med)
		return nil
	})
}

func TestMedianColumnsEmpty(t *testing.T) {
	runGroup(t, 2, func(c *comm.Communicator) error {
		m, err := FromLocal(c, nil, 2)
		require.NoError(t, err)

		_, err = m.MedianColumns()
		assert.Error(t, err)
		return nil
	})
}

func TestMedianPartitionInvariance(t *testing.T) {
	data := []float32{
		5, 1,
		1, 2,
		4, 3,
		2, 4,
		3, 5,
	}

	var want []float32
	runGroup(t, 1, func(c *comm.Communicator) error {
		m, err := NewDense(c, data, 5, 2)
		require.NoError(t, err)
		want, err = m.MedianColumns()
		return err
	})

	runGroup(t, 4, func(c *comm.Communicator) error {
		m, err := NewDense(c, data, 5, 2)
		require.NoError(t, err)
		got, err := m.MedianColumns()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		return nil
	})
}

func TestVector(t *testing.T) {
	runGroup(t, 2, func(c *comm.Communicator) error {
		part := NewPartition(5, 2)
		v := NewVector(part, c.Rank())

		assert.Equal(t, 5, v.Rows())
		for i := 0; i < v.LocalLen(); i++ {
			assert.Equal(t, int32(0), v.At(i))
		}

		v.Set(0, 2)
		require.NoError(t, v.Validate(3))
		v.Set(0, 3)
		assert.Error(t, v.Validate(3))
		return nil
	})
}

func TestVectorSamePartition(t *testing.T) {
	runGroup(t, 2, func(c *comm.Communicator) error {
		m, err := NewDense(c, make([]float32, 10), 5, 2)
		require.NoError(t, err)

		v := NewVector(NewPartition(5, 2), c.Rank())
		assert.True(t, v.SamePartition(m))

		w := NewVector(NewPartition(4, 2), c.Rank())
		assert.False(t, w.SamePartition(m))
		return nil
	})
}

func TestLoadDense(t *testing.T) {
	data := []float32{1.5, -2, 3, 4, 5, 6}
	path := filepath.Join(t.TempDir(), "matrix.f32")

	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	require.NoError(t, os.WriteFile(path, buf, 0o600))

	runGroup(t, 2, func(c *comm.Communicator) error {
		m, err := LoadDense(c, path, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, m.Rows())

		d := m.Consolidate()
		assert.Equal(t, []float32{1.5, -2}, d.Row(0))
		assert.Equal(t, []float32{5, 6}, d.Row(2))
		return nil
	})
}

func TestLoadDenseBadSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.f32")
	require.NoError(t, os.WriteFile(path, make([]byte, 10), 0o600))

	runGroup(t, 1, func(c *comm.Communicator) error {
		_, err := LoadDense(c, path, 2)
		assert.Error(t, err)
		return nil
	})
}
