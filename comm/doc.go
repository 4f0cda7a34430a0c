// Package comm provides the worker group used for data-parallel
// clustering.
//
// The execution model is single-program-multiple-data: a fixed set of
// workers runs the same control flow in lockstep, and every operation
// that moves data between workers is a blocking collective - it does
// not return on any worker until all workers have participated.
//
// There is no asynchronous variant and no cancellation inside a
// collective. All workers must invoke the same sequence of collectives
// with consistent arguments; a worker that diverges deadlocks the
// group, which is a caller contract violation, not a recoverable
// condition.
package comm
