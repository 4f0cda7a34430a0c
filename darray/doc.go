// Package darray provides a row-partitioned float32 matrix for
// data-parallel clustering.
//
// A Matrix is split along the row axis across the workers of a
// comm.Group: each worker owns a contiguous (possibly empty) range of
// rows described by the partition's per-worker row-count/offset table.
// All operations that move rows between workers (balancing, selection,
// consolidation, the coordinate-wise median) are blocking collectives;
// every worker must invoke them together.
//
// Matrices are treated as immutable once constructed. Operations
// return new values instead of mutating in place.
package darray
