package tombstone

import (
	"encoding/binary"
	"math/bits"

	"github.com/indexlab/liveness/model"
)

const (
	wordBits  = 32
	wordShift = 5
	wordMask  = wordBits - 1

	// WordLen is the on-disk size of one bitmap word.
	WordLen = 4
)

// Bitmap records dead rows, one bit per row position. Bit row%32 of
// little-endian uint32 word row/32 is set when the row is dead. The zero
// value is an empty bitmap with no dead rows.
//
// Bitmap is not safe for concurrent mutation.
type Bitmap struct {
	words []uint32
}

// New returns an empty bitmap.
func New() *Bitmap {
	return &Bitmap{}
}

// FromBytes decodes a bitmap from its serialized form. Trailing bytes that
// do not fill a whole word are ignored. The data is copied; the caller may
// release it afterwards.
func FromBytes(data []byte) *Bitmap {
	n := len(data) / WordLen
	b := &Bitmap{words: make([]uint32, n)}
	for i := 0; i < n; i++ {
		b.words[i] = binary.LittleEndian.Uint32(data[i*WordLen:])
	}
	return b
}

// Set marks row dead, growing storage to exactly row/32+1 words when the
// row lies beyond it. Growth is zero-filled and never undone.
func (b *Bitmap) Set(row model.RowID) {
	word := int(row >> wordShift)
	if word >= len(b.words) {
		b.words = append(b.words, make([]uint32, word+1-len(b.words))...)
	}
	b.words[word] |= 1 << (row & wordMask)
}

// Contains reports whether row is marked dead. Rows beyond the stored words
// are alive.
func (b *Bitmap) Contains(row model.RowID) bool {
	word := int(row >> wordShift)
	if word >= len(b.words) {
		return false
	}
	return b.words[word]&(1<<(row&wordMask)) != 0
}

// ForEach calls fn for every dead row in ascending order until fn returns
// false. Zero words are skipped whole.
func (b *Bitmap) ForEach(fn func(model.RowID) bool) {
	for i, w := range b.words {
		for w != 0 {
			bit := bits.TrailingZeros32(w)
			if !fn(model.RowID(i*wordBits + bit)) {
				return
			}
			w &= w - 1
		}
	}
}

// Rows returns every dead row in ascending order.
func (b *Bitmap) Rows() []model.RowID {
	rows := make([]model.RowID, 0, b.Count())
	b.ForEach(func(r model.RowID) bool {
		rows = append(rows, r)
		return true
	})
	return rows
}

// Count returns the number of dead rows.
func (b *Bitmap) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount32(w)
	}
	return n
}

// Words returns the number of stored words, set bits or not.
func (b *Bitmap) Words() int {
	return len(b.words)
}

// Bytes returns the serialized bitmap: Words() little-endian uint32 values,
// 4*Words() bytes in total.
func (b *Bitmap) Bytes() []byte {
	out := make([]byte, len(b.words)*WordLen)
	for i, w := range b.words {
		binary.LittleEndian.PutUint32(out[i*WordLen:], w)
	}
	return out
}

// Clone returns an independent copy.
func (b *Bitmap) Clone() *Bitmap {
	c := &Bitmap{words: make([]uint32, len(b.words))}
	copy(c.words, b.words)
	return c
}
