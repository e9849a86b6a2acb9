package testutil

import (
	"encoding/binary"
	"math/rand"
	"sync"

	"github.com/indexlab/liveness/internal/conv"
	"github.com/indexlab/liveness/internal/wire"
	"github.com/indexlab/liveness/lookup"
	"github.com/indexlab/liveness/model"
	"github.com/indexlab/liveness/tombstone"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// RandomEntries generates n lookup entries with strictly ascending document
// IDs (gaps in [1, maxGap]) and distinct, shuffled row IDs. Locks only once
// per call.
func (r *RNG) RandomEntries(n int, maxGap int) []model.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.rand.Perm(n)
	entries := make([]model.Entry, n)

	var doc model.DocumentID
	for i := range entries {
		doc += model.DocumentID(1 + r.rand.Intn(maxGap))
		entries[i] = model.Entry{DocID: doc, RowID: model.RowID(rows[i])}
	}

	return entries
}

// BuildLookup encodes entries into the lookup-table file format: 16-byte
// header, checkpoint directory, then one delta-encoded block per checkpoint.
// Entries must be sorted by strictly ascending document ID; interval must be
// positive. Misuse panics — this is a fixture builder, not a table writer.
func BuildLookup(entries []model.Entry, interval uint32) []byte {
	if interval == 0 {
		panic("testutil: checkpoint interval must be positive")
	}

	count, err := conv.IntToUint32(len(entries))
	if err != nil {
		panic("testutil: " + err.Error())
	}
	ckCount := int((count + interval - 1) / interval)

	var maxDoc model.DocumentID
	if count > 0 {
		maxDoc = entries[count-1].DocID
	}

	header := make([]byte, 0, lookup.HeaderLen)
	header = binary.LittleEndian.AppendUint32(header, count)
	header = binary.LittleEndian.AppendUint32(header, interval)
	header = binary.LittleEndian.AppendUint64(header, uint64(maxDoc))

	blocksStart := lookup.HeaderLen + ckCount*lookup.CheckpointLen

	var directory, blocks []byte
	for ck := range ckCount {
		first := ck * int(interval)
		last := min(first+int(interval), int(count))
		base := entries[first]

		directory = binary.LittleEndian.AppendUint64(directory, uint64(base.DocID))
		directory = binary.LittleEndian.AppendUint64(directory, uint64(blocksStart+len(blocks)))

		blocks = binary.LittleEndian.AppendUint32(blocks, uint32(base.RowID))
		prev := base.DocID
		for _, e := range entries[first+1 : last] {
			if e.DocID <= prev {
				panic("testutil: entries must be sorted by strictly ascending document ID")
			}
			blocks = wire.AppendUvarintBE(blocks, uint64(e.DocID-prev))
			blocks = binary.LittleEndian.AppendUint32(blocks, uint32(e.RowID))
			prev = e.DocID
		}
	}

	out := make([]byte, 0, len(header)+len(directory)+len(blocks))
	out = append(out, header...)
	out = append(out, directory...)
	out = append(out, blocks...)
	return out
}

// TombstoneBytes builds a serialized tombstone bitmap with the given rows
// dead.
func TombstoneBytes(rows ...model.RowID) []byte {
	bm := tombstone.New()
	for _, row := range rows {
		bm.Set(row)
	}
	return bm.Bytes()
}
