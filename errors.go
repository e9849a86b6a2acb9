package liveness

import (
	"errors"
	"fmt"

	"github.com/indexlab/liveness/blobstore"
)

var (
	// ErrTableNotFound is returned when a table's lookup file does not exist
	// in the blob store.
	ErrTableNotFound = errors.New("lookup table not found")

	// ErrTombstoneNotFound is returned when a table's tombstone bitmap does
	// not exist. The bitmap is created by the store's indexer alongside the
	// lookup table; this module never creates it.
	ErrTombstoneNotFound = errors.New("tombstone bitmap not found")
)

// translateOpenError maps a blob-store open failure onto the root error
// surface, keeping the blob name attached.
func translateOpenError(err error, name string, notFound error) error {
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %s", notFound, name)
	}
	return fmt.Errorf("read %s: %w", name, err)
}
