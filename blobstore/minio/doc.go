// Package minio implements blobstore.BlobStore using the MinIO client,
// covering MinIO itself and other S3-compatible systems such as Ceph,
// SeaweedFS, and Garage.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil { ... }
//	store := minioblob.NewStore(client, "tables", "")
package minio
