package darray

import "fmt"

// Partition describes how rows are distributed across the workers of a
// group: worker r owns Counts[r] contiguous rows starting at global
// index Displs[r].
type Partition struct {
	counts []int
	displs []int
}

// NewPartition returns the balanced contiguous partition of rows across
// size workers: every worker gets rows/size rows and the first
// rows%size workers get one extra.
func NewPartition(rows, size int) Partition {
	counts := make([]int, size)
	displs := make([]int, size)

	base := rows / size
	extra := rows % size

	off := 0
	for r := 0; r < size; r++ {
		counts[r] = base
		if r < extra {
			counts[r]++
		}
		displs[r] = off
		off += counts[r]
	}

	return Partition{counts: counts, displs: displs}
}

// newPartitionFromCounts builds a partition from explicit per-worker
// row counts (as produced by an allgather).
func newPartitionFromCounts(counts []int) Partition {
	displs := make([]int, len(counts))
	off := 0
	for r, n := range counts {
		displs[r] = off
		off += n
	}
	return Partition{counts: counts, displs: displs}
}

// Size returns the number of workers the partition spans.
func (p Partition) Size() int { return len(p.counts) }

// Rows returns the total number of rows.
func (p Partition) Rows() int {
	var rows int
	for _, n := range p.counts {
		rows += n
	}
	return rows
}

// Count returns the number of rows owned by rank.
func (p Partition) Count(rank int) int { return p.counts[rank] }

// Offset returns the global index of rank's first row.
func (p Partition) Offset(rank int) int { return p.displs[rank] }

// Owner returns the rank that owns the given global row index.
func (p Partition) Owner(global int) (int, error) {
	if global < 0 || global >= p.Rows() {
		return 0, fmt.Errorf("row %d out of range [0,%d)", global, p.Rows())
	}

	owner := 0
	for r := range p.displs {
		if p.displs[r] > global {
			break
		}
		owner = r
	}
	return owner, nil
}

// equal reports whether two partitions describe the same distribution.
func (p Partition) equal(o Partition) bool {
	if len(p.counts) != len(o.counts) {
		return false
	}
	for r := range p.counts {
		if p.counts[r] != o.counts[r] || p.displs[r] != o.displs[r] {
			return false
		}
	}
	return true
}
