package kmedgo

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/kmedgo/darray"
	"github.com/hupe1980/kmedgo/internal/math32"
)

// updateCenters recomputes every cluster center as the coordinate-wise
// median of its assigned rows. prev is read-only; the result is a
// fresh buffer so that the caller can diff old and new centers for the
// convergence check. Collective: all workers return the identical
// buffer contents.
//
// A cluster with no surviving rows is reseeded from a uniformly random
// row of the original matrix, broadcast by its owner. This is the
// designed fallback, not an error: a cluster can legitimately become
// empty mid-optimization, and reseeding from a real data point lets a
// later iteration recover it.
func (f *fitter) updateCenters(ctx context.Context, x *darray.Matrix, labels *darray.Vector, prev []float32) []float32 {
	k := f.k
	cols := x.Cols()

	centers := make([]float32, len(prev))
	copy(centers, prev)

	for i := 0; i < k; i++ {
		// Rows assigned to cluster i, minus rows whose absolute sum is
		// zero. The zero-sum filter mirrors the mask-multiply scheme
		// this updater descends from: non-members become all-zero rows
		// and are discarded by the filter. A genuine all-zero data row
		// is discarded with them even when it belongs to the cluster -
		// a known artifact that is kept, not fixed.
		sel := roaring.New()
		for j := 0; j < labels.LocalLen(); j++ {
			if labels.At(j) != int32(i) {
				continue
			}
			if math32.AbsSum(x.LocalRow(j)) == 0 {
				continue
			}
			sel.Add(uint32(labels.GlobalIndex(j)))
		}

		clean := x.Select(f.c.AllreduceOr(sel))

		var center []float32
		switch {
		case clean.Rows() == 0:
			row := f.fallbackRow(ctx, x, i)
			center = row
		case clean.Rows() <= f.c.Size():
			// Fewer surviving rows than workers: consolidate before
			// taking the median so the selection is exact.
			med, err := clean.Consolidate().MedianColumns()
			if err != nil {
				// Unreachable: Rows() > 0 was just checked.
				panic(err)
			}
			center = med
		default:
			med, err := clean.MedianColumns()
			if err != nil {
				panic(err)
			}
			center = med
		}

		copy(centers[i*cols:(i+1)*cols], center)
	}

	return centers
}

// fallbackRow draws one uniformly random row of the original matrix,
// materialized by its owner and broadcast to all workers.
func (f *fitter) fallbackRow(ctx context.Context, x *darray.Matrix, cluster int) []float32 {
	sample := f.sampler.Intn(x.Rows())

	row, err := x.Row(sample)
	if err != nil {
		// Unreachable: sample is in [0, Rows).
		panic(err)
	}

	f.metrics.RecordFallback(cluster)
	f.logger.LogFallback(ctx, cluster, sample)

	return row
}
