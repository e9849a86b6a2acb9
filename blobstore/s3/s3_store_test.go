package s3

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexlab/liveness/blobstore"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	prefix := fmt.Sprintf("test-liveness-%d/", time.Now().UnixNano())
	store := NewStore(awss3.NewFromConfig(cfg), bucket, prefix)

	t.Run("put and read", func(t *testing.T) {
		data := []byte{0x03, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00}
		require.NoError(t, store.Put(ctx, "t1.spm", data))

		blob, err := store.Open(ctx, "t1.spm")
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), blob.Size())

		buf := make([]byte, 4)
		n, err := blob.ReadAt(buf, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, data[4:8], buf)
		require.NoError(t, blob.Close())

		got, release, err := blobstore.Fetch(ctx, store, "t1.spm")
		require.NoError(t, err)
		assert.Equal(t, data, got)
		require.NoError(t, release())

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, names, "t1.spm")

		require.NoError(t, store.Delete(ctx, "t1.spm"))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.Open(ctx, "nonexistent")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
