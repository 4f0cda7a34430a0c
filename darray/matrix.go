package darray

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/kmedgo/comm"
)

// Matrix is a row-partitioned float32 matrix. Each worker holds the
// rows assigned to it by the partition table; the Matrix value itself
// is worker-local, but the set of values across the group describes a
// single global matrix.
type Matrix struct {
	c     *comm.Communicator
	cols  int
	part  Partition
	local []float32 // Count(rank) * cols values, row-major
}

// NewDense builds a partitioned matrix from a fully replicated dense
// buffer. Every worker must pass identical data; each keeps a copy of
// its balanced share. Collective.
func NewDense(c *comm.Communicator, data []float32, rows, cols int) (*Matrix, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("cols must be positive, got %d", cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("data length %d does not match %dx%d", len(data), rows, cols)
	}

	part := NewPartition(rows, c.Size())
	off := part.Offset(c.Rank()) * cols
	n := part.Count(c.Rank()) * cols

	local := make([]float32, n)
	copy(local, data[off:off+n])

	return &Matrix{c: c, cols: cols, part: part, local: local}, nil
}

// FromLocal builds a partitioned matrix from each worker's local rows.
// The partition reflects the actual ownership; it is not rebalanced.
// Collective.
func FromLocal(c *comm.Communicator, local []float32, cols int) (*Matrix, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("cols must be positive, got %d", cols)
	}
	if len(local)%cols != 0 {
		return nil, fmt.Errorf("local length %d is not a multiple of cols %d", len(local), cols)
	}

	counts := c.AllgatherInt(len(local) / cols)
	part := newPartitionFromCounts(counts)

	buf := make([]float32, len(local))
	copy(buf, local)

	return &Matrix{c: c, cols: cols, part: part, local: buf}, nil
}

// Rows returns the global row count.
func (m *Matrix) Rows() int { return m.part.Rows() }

// Comm returns the communicator the matrix is partitioned over.
func (m *Matrix) Comm() *comm.Communicator { return m.c }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// Partition returns the row partition table.
func (m *Matrix) Partition() Partition { return m.part }

// LocalRows returns the number of rows owned by this worker.
func (m *Matrix) LocalRows() int { return m.part.Count(m.c.Rank()) }

// LocalRow returns the i-th locally owned row. The returned slice
// aliases the matrix storage and must not be modified.
func (m *Matrix) LocalRow(i int) []float32 {
	return m.local[i*m.cols : (i+1)*m.cols]
}

// GlobalIndex translates a local row index to its global row index.
func (m *Matrix) GlobalIndex(i int) int {
	return m.part.Offset(m.c.Rank()) + i
}

// Row materializes the row with the given global index on every
// worker: the owner broadcasts its copy. Collective.
func (m *Matrix) Row(global int) ([]float32, error) {
	owner, err := m.part.Owner(global)
	if err != nil {
		return nil, err
	}

	var buf []float32
	if m.c.Rank() == owner {
		buf = m.LocalRow(global - m.part.Offset(owner))
	}
	return m.c.BcastFloat32s(buf, owner), nil
}

// Select returns a new matrix containing the rows whose global indices
// are set in sel, rebalanced across all workers so that no worker is
// starved of rows. Row order follows global index order. Collective.
func (m *Matrix) Select(sel *roaring.Bitmap) *Matrix {
	var picked []float32
	off := m.part.Offset(m.c.Rank())
	for i := 0; i < m.LocalRows(); i++ {
		if sel.Contains(uint32(off + i)) {
			picked = append(picked, m.LocalRow(i)...)
		}
	}

	return m.rebalance(picked)
}

// Balance returns a copy of the matrix redistributed to the balanced
// contiguous partition. Collective.
func (m *Matrix) Balance() *Matrix {
	target := NewPartition(m.Rows(), m.c.Size())
	if m.part.equal(target) {
		buf := make([]float32, len(m.local))
		copy(buf, m.local)
		return &Matrix{c: m.c, cols: m.cols, part: m.part, local: buf}
	}
	return m.rebalance(m.local)
}

// rebalance gathers each worker's contributed rows (in rank order,
// which preserves global order) and keeps this worker's balanced
// share of the result.
func (m *Matrix) rebalance(contrib []float32) *Matrix {
	gathered := m.c.AllgatherFloat32s(contrib)

	var total int
	for _, g := range gathered {
		total += len(g)
	}
	rows := total / m.cols
	part := NewPartition(rows, m.c.Size())

	start := part.Offset(m.c.Rank()) * m.cols
	n := part.Count(m.c.Rank()) * m.cols
	local := make([]float32, 0, n)

	pos := 0
	for _, g := range gathered {
		for _, v := range g {
			if pos >= start && pos < start+n {
				local = append(local, v)
			}
			pos++
		}
	}

	return &Matrix{c: m.c, cols: m.cols, part: part, local: local}
}

// Consolidate replicates all rows on every worker. Collective.
func (m *Matrix) Consolidate() *Dense {
	gathered := m.c.AllgatherFloat32s(m.local)

	data := make([]float32, 0, m.Rows()*m.cols)
	for _, g := range gathered {
		data = append(data, g...)
	}

	return &Dense{data: data, rows: m.Rows(), cols: m.cols}
}

// MedianColumns computes the coordinate-wise median over all rows.
// Every worker returns the identical result. Collective.
func (m *Matrix) MedianColumns() ([]float32, error) {
	return m.Consolidate().MedianColumns()
}

// Dense is a fully replicated (single-partition) matrix, the result of
// consolidating a partitioned matrix onto every worker.
type Dense struct {
	data []float32
	rows int
	cols int
}

// NewDenseBuffer wraps a row-major buffer as a replicated dense matrix.
// The buffer is not copied.
func NewDenseBuffer(data []float32, rows, cols int) (*Dense, error) {
	if cols <= 0 || rows < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d", len(data), rows, cols)
	}
	return &Dense{data: data, rows: rows, cols: cols}, nil
}

// Data returns the underlying row-major buffer. It must not be
// modified.
func (d *Dense) Data() []float32 { return d.data }

// Rows returns the row count.
func (d *Dense) Rows() int { return d.rows }

// Cols returns the column count.
func (d *Dense) Cols() int { return d.cols }

// Row returns the i-th row. The slice aliases the dense storage.
func (d *Dense) Row(i int) []float32 {
	return d.data[i*d.cols : (i+1)*d.cols]
}

// MedianColumns computes the coordinate-wise median: entry j is the
// exact median of column j. For an even row count the mean of the two
// middle values is used.
func (d *Dense) MedianColumns() ([]float32, error) {
	if d.rows == 0 {
		return nil, fmt.Errorf("median of empty matrix")
	}

	med := make([]float32, d.cols)
	col := make([]float64, d.rows)
	for j := 0; j < d.cols; j++ {
		for i := 0; i < d.rows; i++ {
			col[i] = float64(d.data[i*d.cols+j])
		}
		sort.Float64s(col)

		mid := d.rows / 2
		if d.rows%2 == 1 {
			med[j] = float32(col[mid])
		} else {
			med[j] = float32((col[mid-1] + col[mid]) / 2)
		}
	}

	return med, nil
}
