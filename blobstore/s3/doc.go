// Package s3 implements blobstore.Store for Amazon S3, plus a
// DynamoDB-backed Registry that tracks which published snapshot is
// current. S3 has no compare-and-swap, so concurrent publishers
// coordinate through DynamoDB conditional writes.
package s3
