package liveness_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexlab/liveness"
	"github.com/indexlab/liveness/blobstore"
	"github.com/indexlab/liveness/lookup"
	"github.com/indexlab/liveness/model"
	"github.com/indexlab/liveness/testutil"
)

const table = "products.0"

// seedTable puts a lookup table and tombstone bitmap for `table` into a
// fresh memory store.
func seedTable(t *testing.T, entries []model.Entry, interval uint32, spm []byte) *blobstore.MemoryStore {
	t.Helper()
	ctx := context.Background()

	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, model.LookupPath(table), testutil.BuildLookup(entries, interval)))
	require.NoError(t, blobs.Put(ctx, model.TombstonePath(table), spm))
	return blobs
}

func spmBytes(t *testing.T, blobs blobstore.BlobStore) []byte {
	t.Helper()
	data, release, err := blobstore.Fetch(context.Background(), blobs, model.TombstonePath(table))
	require.NoError(t, err)
	out := make([]byte, len(data))
	copy(out, data)
	require.NoError(t, release())
	return out
}

func TestMarkKilledAndReport(t *testing.T) {
	ctx := context.Background()
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
		{DocID: 103, RowID: 6},
		{DocID: 105, RowID: 7},
	}, 2, make([]byte, 4))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	res, err := store.MarkKilled(ctx, table, []model.DocumentID{100, 105, 999})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 2, res.Resolved)
	assert.Equal(t, 2, res.NewlyKilled)
	assert.Equal(t, 0, res.AlreadyKilled)
	assert.Equal(t, []model.DocumentID{999}, res.Unresolved)
	assert.True(t, res.TableComplete)

	// rows 5 and 7 live in word 0
	assert.Equal(t, []byte{0xA0, 0x00, 0x00, 0x00}, spmBytes(t, blobs))

	rep, err := store.Killed(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentID{100, 105}, rep.DocIDs)
	assert.Equal(t, 0, rep.Orphans)
	assert.True(t, rep.TableComplete)
}

// The canonical end-to-end scenario: {100:5, 103:6}, kill {100, 200}.
func TestMarkKilledPartialResolution(t *testing.T) {
	ctx := context.Background()
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
		{DocID: 103, RowID: 6},
	}, 64, make([]byte, 4))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	res, err := store.MarkKilled(ctx, table, []model.DocumentID{100, 200})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Requested)
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, 1, res.NewlyKilled)
	assert.Equal(t, []model.DocumentID{200}, res.Unresolved)
	assert.Equal(t, []byte{0x20, 0x00, 0x00, 0x00}, spmBytes(t, blobs))

	rep, err := store.Killed(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentID{100}, rep.DocIDs)
}

func TestMarkKilledAlreadyDead(t *testing.T) {
	ctx := context.Background()
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
		{DocID: 103, RowID: 6},
	}, 64, make([]byte, 4))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	res, err := store.MarkKilled(ctx, table, []model.DocumentID{100})
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewlyKilled)

	res, err = store.MarkKilled(ctx, table, []model.DocumentID{100, 103})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Resolved)
	assert.Equal(t, 1, res.NewlyKilled)
	assert.Equal(t, 1, res.AlreadyKilled)
}

func TestMarkKilledDeduplicatesInput(t *testing.T) {
	ctx := context.Background()
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
	}, 64, make([]byte, 4))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	res, err := store.MarkKilled(ctx, table, []model.DocumentID{100, 100, 100, 7, 7})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Requested)
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, []model.DocumentID{7}, res.Unresolved)
}

func TestMarkKilledNothingResolvedWritesNothing(t *testing.T) {
	ctx := context.Background()

	// The ragged 5-byte bitmap would come back 4 bytes long if the store
	// rewrote it, so surviving intact proves no write happened.
	ragged := []byte{0x00, 0x00, 0x00, 0x00, 0xFF}
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
	}, 64, ragged)

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	res, err := store.MarkKilled(ctx, table, []model.DocumentID{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Resolved)
	assert.Equal(t, []model.DocumentID{1, 2, 3}, res.Unresolved)

	assert.Equal(t, ragged, spmBytes(t, blobs))
}

func TestMarkKilledEmptyInput(t *testing.T) {
	ctx := context.Background()
	ragged := []byte{0x00, 0x00, 0x00, 0x00, 0xFF}
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
	}, 64, ragged)

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	res, err := store.MarkKilled(ctx, table, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Requested)
	assert.Equal(t, ragged, spmBytes(t, blobs))
}

func TestMarkKilledMissingTable(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, model.TombstonePath(table), make([]byte, 4)))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	_, err = store.MarkKilled(ctx, table, []model.DocumentID{1})
	assert.ErrorIs(t, err, liveness.ErrTableNotFound)
}

func TestMarkKilledMissingTombstone(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, model.LookupPath(table), testutil.BuildLookup(nil, 64)))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	_, err = store.MarkKilled(ctx, table, []model.DocumentID{1})
	assert.ErrorIs(t, err, liveness.ErrTombstoneNotFound)
}

func TestMarkKilledCorruptTable(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, model.LookupPath(table), []byte{0x01, 0x02}))
	require.NoError(t, blobs.Put(ctx, model.TombstonePath(table), make([]byte, 4)))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	_, err = store.MarkKilled(ctx, table, []model.DocumentID{1})
	assert.ErrorIs(t, err, lookup.ErrInvalidFormat)
}

func TestKilledOrphanRows(t *testing.T) {
	ctx := context.Background()
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
		{DocID: 103, RowID: 6},
	}, 64, testutil.TombstoneBytes(5, 31))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	rep, err := store.Killed(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentID{100}, rep.DocIDs)
	assert.Equal(t, 1, rep.Orphans)
}

func TestKilledEmptyBitmap(t *testing.T) {
	ctx := context.Background()
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
	}, 64, nil)

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	rep, err := store.Killed(ctx, table)
	require.NoError(t, err)
	assert.Empty(t, rep.DocIDs)
	assert.Equal(t, 0, rep.Orphans)
}

func TestMarkKilledIncompleteTable(t *testing.T) {
	ctx := context.Background()

	// Cut the fixture in the middle of the second block: doc 105 is lost,
	// docs 100 and 103 survive.
	full := testutil.BuildLookup([]model.Entry{
		{DocID: 100, RowID: 5},
		{DocID: 103, RowID: 6},
		{DocID: 105, RowID: 7},
	}, 2)
	truncated := full[:len(full)-2]

	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, model.LookupPath(table), truncated))
	require.NoError(t, blobs.Put(ctx, model.TombstonePath(table), make([]byte, 4)))

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	res, err := store.MarkKilled(ctx, table, []model.DocumentID{100, 105})
	require.NoError(t, err)
	assert.False(t, res.TableComplete)
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, []model.DocumentID{105}, res.Unresolved)

	rep, err := store.Killed(ctx, table)
	require.NoError(t, err)
	assert.False(t, rep.TableComplete)
	assert.Equal(t, []model.DocumentID{100}, rep.DocIDs)
}

func TestTables(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	for _, name := range []string{"b.spt", "b.spm", "a.spt", "notes.txt"} {
		require.NoError(t, blobs.Put(ctx, name, []byte{0x00}))
	}

	store, err := liveness.New(blobs)
	require.NoError(t, err)

	tables, err := store.Tables(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tables)
}

func TestMetricsCollected(t *testing.T) {
	ctx := context.Background()
	blobs := seedTable(t, []model.Entry{
		{DocID: 100, RowID: 5},
	}, 64, make([]byte, 4))

	metrics := &liveness.BasicMetricsCollector{}
	store, err := liveness.New(blobs, liveness.WithMetricsCollector(metrics))
	require.NoError(t, err)

	_, err = store.MarkKilled(ctx, table, []model.DocumentID{100, 42})
	require.NoError(t, err)

	_, err = store.Killed(ctx, table)
	require.NoError(t, err)

	_, err = store.Killed(ctx, "no-such-table")
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.MarkCount)
	assert.Equal(t, int64(2), stats.MarkRequested)
	assert.Equal(t, int64(1), stats.MarkResolved)
	assert.Equal(t, int64(0), stats.MarkErrors)
	assert.Equal(t, int64(2), stats.ReportCount)
	assert.Equal(t, int64(1), stats.ReportKilled)
	assert.Equal(t, int64(1), stats.ReportErrors)
}

func TestNewNilBlobStore(t *testing.T) {
	_, err := liveness.New(nil)
	require.Error(t, err)
}

func TestRowSet(t *testing.T) {
	rs := liveness.NewRowSet()
	assert.True(t, rs.IsEmpty())

	for _, row := range []model.RowID{9, 3, 9, 1000000} {
		rs.Add(row)
	}
	assert.False(t, rs.IsEmpty())
	assert.Equal(t, uint64(3), rs.Cardinality())
	assert.True(t, rs.Contains(9))
	assert.False(t, rs.Contains(10))

	var got []model.RowID
	for row := range rs.Iterator() {
		got = append(got, row)
	}
	assert.Equal(t, []model.RowID{3, 9, 1000000}, got)
}
