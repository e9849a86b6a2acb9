package model

import (
	"math"
	"strings"
)

// DocumentID is the user-facing stable identifier for a document.
// IDs are sparse, assigned by the client, and never reused by the store.
type DocumentID uint64

// RowID is the dense storage position of a document within a table.
// It is transient and may change when the table is rebuilt.
type RowID uint32

// InvalidRowID never denotes a real row. Inside lookup-table blocks it
// doubles as the block terminator.
const InvalidRowID RowID = math.MaxUint32

// Entry pairs a document with its storage row.
type Entry struct {
	DocID DocumentID
	RowID RowID
}

// Metadata file suffixes. For a table with base path P, the docID-to-rowID
// lookup table lives at P+LookupSuffix and the dead-row bitmap at
// P+TombstoneSuffix.
const (
	LookupSuffix    = ".spt"
	TombstoneSuffix = ".spm"
)

// LookupPath returns the lookup-table path for a table base path.
func LookupPath(base string) string {
	return base + LookupSuffix
}

// TombstonePath returns the tombstone-bitmap path for a table base path.
func TombstonePath(base string) string {
	return base + TombstoneSuffix
}

// TableBase strips a metadata suffix from path, if present. It accepts
// bare base paths so callers may pass either form.
func TableBase(path string) string {
	if s := strings.TrimSuffix(path, LookupSuffix); s != path {
		return s
	}
	return strings.TrimSuffix(path, TombstoneSuffix)
}
