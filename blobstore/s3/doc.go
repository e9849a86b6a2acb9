// Package s3 implements blobstore.BlobStore on Amazon S3.
//
// The metadata access pattern maps directly onto object storage: a lookup
// table or tombstone bitmap is read whole (one GET per Fetch) and written
// back whole (one upload per Put). Object existence and size come from
// HeadObject; absence surfaces as blobstore.ErrNotFound.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//	store := s3.NewStore(s3sdk.NewFromConfig(cfg), "my-bucket", "tables/")
package s3
