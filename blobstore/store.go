package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/indexlab/liveness/internal/conv"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations must return an error satisfying
// errors.Is(err, ErrNotFound). The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// BlobStore abstracts where table metadata files live. Implementations must
// be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put replaces the blob's contents in one whole-object write.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting an absent blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of blobs starting with prefix, in no
	// particular order. Returned names are valid arguments to Open.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for blobs whose contents are already in
// memory. Bytes is zero-copy; the slice is valid until the blob is closed.
type Mappable interface {
	Bytes() ([]byte, error)
}

func noopRelease() error { return nil }

// Fetch returns the blob's full contents along with a release function the
// caller must invoke once the bytes are no longer needed. Mappable blobs
// hand back their mapping without copying, so release unmaps it; other
// blobs are read into a fresh slice and release is a no-op.
func Fetch(ctx context.Context, store BlobStore, name string) ([]byte, func() error, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	if m, ok := blob.(Mappable); ok {
		data, err := m.Bytes()
		if err == nil {
			return data, blob.Close, nil
		}
		// Fall through to a copying read.
	}

	size, err := conv.Int64ToInt(blob.Size())
	if err != nil {
		blob.Close()
		return nil, nil, fmt.Errorf("blobstore: %s: %w", name, err)
	}
	data := make([]byte, size)
	if size > 0 {
		n, err := blob.ReadAt(data, 0)
		if err != nil && !(errors.Is(err, io.EOF) && n == len(data)) {
			blob.Close()
			return nil, nil, fmt.Errorf("blobstore: read %s: %w", name, err)
		}
		if n != len(data) {
			blob.Close()
			return nil, nil, fmt.Errorf("blobstore: read %s: %w", name, io.ErrUnexpectedEOF)
		}
	}
	if err := blob.Close(); err != nil {
		return nil, nil, err
	}
	return data, noopRelease, nil
}
