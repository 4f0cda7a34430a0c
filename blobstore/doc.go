// Package blobstore abstracts where model snapshots live.
//
// A Store is a flat namespace of immutable blobs. The local and
// memory implementations cover single-machine use and tests; the
// minio and s3 subpackages publish snapshots to object storage so
// that other processes can warm-start from them.
package blobstore
