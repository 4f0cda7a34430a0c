package kmedgo

import (
	"math"

	"github.com/hupe1980/kmedgo/darray"
	"github.com/hupe1980/kmedgo/distance"
)

// assign labels every locally owned row with the index of its nearest
// center. Ties break toward the lower cluster index. Workers only
// touch their own shard, so no collective is needed; the labels stay
// partitioned like x.
func assign(x *darray.Matrix, centers []float32, k int, distFn distance.Func, labels *darray.Vector) {
	cols := x.Cols()

	for i := 0; i < x.LocalRows(); i++ {
		row := x.LocalRow(i)

		best := 0
		minDist := float32(math.MaxFloat32)
		for j := 0; j < k; j++ {
			if d := distFn(row, centers[j*cols:(j+1)*cols]); d < minDist {
				minDist = d
				best = j
			}
		}

		labels.Set(i, int32(best))
	}
}
