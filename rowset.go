package liveness

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/indexlab/liveness/model"
)

// RowSet is a set of row IDs backed by a 32-bit Roaring Bitmap.
// Mark-killed batches use it to deduplicate resolved rows and to walk them
// in ascending order.
type RowSet struct {
	rb *roaring.Bitmap
}

// NewRowSet creates a new empty row set.
func NewRowSet() *RowSet {
	return &RowSet{
		rb: roaring.New(),
	}
}

// Add adds a row ID to the set.
func (r *RowSet) Add(row model.RowID) {
	r.rb.Add(uint32(row))
}

// Contains checks if a row ID is in the set.
func (r *RowSet) Contains(row model.RowID) bool {
	return r.rb.Contains(uint32(row))
}

// IsEmpty returns true if the set is empty.
func (r *RowSet) IsEmpty() bool {
	return r.rb.IsEmpty()
}

// Cardinality returns the number of rows in the set.
func (r *RowSet) Cardinality() uint64 {
	return r.rb.GetCardinality()
}

// Iterator returns an iterator over the set in ascending row order.
func (r *RowSet) Iterator() iter.Seq[model.RowID] {
	return func(yield func(model.RowID) bool) {
		it := r.rb.Iterator()
		for it.HasNext() {
			if !yield(model.RowID(it.Next())) {
				return
			}
		}
	}
}
