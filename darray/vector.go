package darray

import "fmt"

// Vector is a row-partitioned int32 vector, partitioned identically to
// the matrix it labels.
type Vector struct {
	part  Partition
	rank  int
	local []int32
}

// NewVector creates a zero-initialized vector with the given partition
// for the given rank.
func NewVector(part Partition, rank int) *Vector {
	return &Vector{
		part:  part,
		rank:  rank,
		local: make([]int32, part.Count(rank)),
	}
}

// Rows returns the global length.
func (v *Vector) Rows() int { return v.part.Rows() }

// LocalLen returns the number of locally owned entries.
func (v *Vector) LocalLen() int { return len(v.local) }

// At returns the i-th locally owned entry.
func (v *Vector) At(i int) int32 { return v.local[i] }

// Set assigns the i-th locally owned entry.
func (v *Vector) Set(i int, val int32) { v.local[i] = val }

// GlobalIndex translates a local index to its global index.
func (v *Vector) GlobalIndex(i int) int {
	return v.part.Offset(v.rank) + i
}

// Local returns the locally owned entries. The slice aliases the
// vector storage.
func (v *Vector) Local() []int32 { return v.local }

// SamePartition reports whether the vector shares m's row partition.
func (v *Vector) SamePartition(m *Matrix) bool {
	return v.part.equal(m.part)
}

// Validate checks that every entry lies in [0, k).
func (v *Vector) Validate(k int32) error {
	for i, val := range v.local {
		if val < 0 || val >= k {
			return fmt.Errorf("label %d at row %d out of range [0,%d)", val, v.GlobalIndex(i), k)
		}
	}
	return nil
}
