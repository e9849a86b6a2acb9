// Package blobstore abstracts where table metadata files live so the same
// operations run against a local directory, an S3 bucket, or a MinIO
// deployment.
//
// The access pattern is deliberately coarse: whole-blob reads via Fetch and
// whole-blob writes via Put, matching how the metadata files are consumed.
// Blobs that are already memory-resident implement Mappable and are fetched
// without copying.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads, in-place writes
//   - MemoryStore: map-backed store for tests
//   - s3.Store: Amazon S3 (subpackage s3)
//   - minio.Store: MinIO and other S3-compatible endpoints (subpackage minio)
//
// Absence is always reported via ErrNotFound, which equals os.ErrNotExist.
package blobstore
