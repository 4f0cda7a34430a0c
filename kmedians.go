package kmedgo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/kmedgo/comm"
	"github.com/hupe1980/kmedgo/darray"
	"github.com/hupe1980/kmedgo/distance"
)

// KMedians is a distributed K-Medians clustering engine: Lloyd's
// algorithm with the Manhattan (L1) assignment metric and
// coordinate-wise medians as cluster representatives.
//
// A KMedians value is immutable configuration and safe to share; Fit
// is a collective operation that every worker of the group must call
// with its shard of the same data matrix.
type KMedians struct {
	k    int
	opts options
}

// New creates a K-Medians engine that partitions data into k clusters.
func New(k int, optFns ...Option) *KMedians {
	return &KMedians{
		k:    k,
		opts: applyOptions(optFns),
	}
}

// Result holds the outcome of a fit.
type Result struct {
	// Centers is the final k x D center matrix, replicated identically
	// on every worker.
	Centers *darray.Dense

	// Labels assigns every row its cluster index in [0, k). Labels is
	// partitioned like the input matrix.
	Labels *darray.Vector

	// Iterations is the number of Lloyd passes that ran.
	Iterations int

	// Inertia is the sum of squared element-wise differences between
	// the last two center matrices.
	Inertia float64
}

// fitter carries the per-fit worker state.
type fitter struct {
	c       *comm.Communicator
	k       int
	distFn  distance.Func
	sampler *Sampler
	logger  *Logger
	metrics MetricsCollector
}

// Fit clusters the rows of x. It is a collective operation: every
// worker must call Fit together with consistent configuration, and
// every worker receives the identical Centers matrix.
//
// Input validation failures are reported before the first iteration;
// no partial results are ever returned.
func (km *KMedians) Fit(ctx context.Context, x *darray.Matrix) (*Result, error) {
	if km.k < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidK, km.k)
	}
	if x == nil {
		return nil, fmt.Errorf("%w: matrix is nil", ErrInvalidInput)
	}
	if x.Rows() == 0 {
		return nil, fmt.Errorf("%w: matrix has no rows", ErrInvalidInput)
	}
	if x.Rows() < km.k {
		return nil, fmt.Errorf("%w: %d rows cannot form %d clusters", ErrInvalidInput, x.Rows(), km.k)
	}

	c := x.Comm()
	f := &fitter{
		c:       c,
		k:       km.k,
		distFn:  distance.Manhattan,
		sampler: NewSampler(c, km.opts.seed),
		logger:  km.opts.logger.WithRank(c.Rank()),
		metrics: km.opts.metrics,
	}

	centers, err := km.opts.init.Initialize(ctx, x, km.k, f.sampler)
	if err != nil {
		return nil, err
	}

	labels := darray.NewVector(x.Partition(), c.Rank())

	logEvery := rate.Sometimes{First: 3, Interval: time.Second}

	var (
		iterations int
		inertia    float64
	)
	for iterations < km.opts.maxIter {
		// Cancellation must be observed by all workers at the same
		// iteration or the group deadlocks, so rank 0 decides.
		if f.checkCanceled(ctx) {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			f.logger.LogFit(ctx, iterations, inertia, err)
			return nil, err
		}

		iterations++
		iterStart := time.Now()

		assignStart := time.Now()
		assign(x, centers, km.k, f.distFn, labels)
		f.metrics.RecordAssignment(time.Since(assignStart))

		updateStart := time.Now()
		newCenters := f.updateCenters(ctx, x, labels, centers)
		f.metrics.RecordUpdate(time.Since(updateStart))

		inertia = centerDisplacement(centers, newCenters)
		centers = newCenters

		f.metrics.RecordIteration(inertia, time.Since(iterStart))
		logEvery.Do(func() {
			f.logger.LogIteration(ctx, iterations, inertia)
		})

		if km.opts.tol >= 0 && inertia <= km.opts.tol {
			break
		}
	}

	dense, err := darray.NewDenseBuffer(centers, km.k, x.Cols())
	if err != nil {
		return nil, err
	}

	f.logger.LogFit(ctx, iterations, inertia, nil)

	return &Result{
		Centers:    dense,
		Labels:     labels,
		Iterations: iterations,
		Inertia:    inertia,
	}, nil
}

// checkCanceled is a collective cancellation probe: rank 0's view of
// the context is broadcast so every worker takes the same branch.
func (f *fitter) checkCanceled(ctx context.Context) bool {
	flag := 0
	if f.c.Rank() == 0 && ctx.Err() != nil {
		flag = 1
	}
	return f.c.BcastInt(flag, 0) == 1
}

// centerDisplacement is the inertia signal: the sum of squared
// element-wise differences between consecutive center matrices.
func centerDisplacement(old, next []float32) float64 {
	var sum float64
	for i := range old {
		d := float64(old[i]) - float64(next[i])
		sum += d * d
	}
	return sum
}
