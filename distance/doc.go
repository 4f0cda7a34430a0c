// Package distance provides the distance metrics used for cluster
// assignment.
//
// K-Medians fixes the assignment metric to Manhattan (L1), but the
// metric is injected through the Func seam so that sibling variants
// (e.g. a squared-L2 based K-Means) can reuse the same fit loop.
package distance
