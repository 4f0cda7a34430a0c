// Package kmedgo provides a distributed K-Medians clustering engine.
//
// K-Medians is Lloyd's algorithm specialized to the Manhattan (L1)
// metric: rows of a row-partitioned data matrix are assigned to their
// nearest cluster center, and each center is recomputed as the
// coordinate-wise median of its assigned rows. Clusters that receive
// no rows are reseeded from a uniformly random data row instead of
// collapsing.
//
// # Quick Start
//
//	err := comm.Run(ctx, 4, func(ctx context.Context, c *comm.Communicator) error {
//	    x, err := darray.NewDense(c, data, rows, cols)
//	    if err != nil {
//	        return err
//	    }
//
//	    km := kmedgo.New(8, kmedgo.WithMaxIter(300), kmedgo.WithTol(1e-4))
//	    res, err := km.Fit(ctx, x)
//	    if err != nil {
//	        return err
//	    }
//	    // res.Centers is identical on every worker.
//	    return nil
//	})
//
// # Execution Model
//
// The engine is single-program-multiple-data: every worker of a
// comm.Group calls Fit with the same configuration and its shard of
// the data, and all data movement happens through blocking collective
// operations. After every iteration the cluster centers are a single
// canonical value replicated on all workers.
//
// # Snapshots
//
// A fitted model can be published to a blobstore.Store and used to
// warm-start a later fit via InitGiven. See SaveSnapshot and
// LoadSnapshot.
package kmedgo
