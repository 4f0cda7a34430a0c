// Package testutil provides testing utilities for kmedgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random matrices and synthetic
// clustered datasets with known ground-truth centers.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	data := rng.UniformMatrix(100, 8)
//
// # Clustered Datasets
//
//	data, want := testutil.Blobs(rng, []float32{-10, 0, 10}, 50, 4, 0.5)
package testutil
