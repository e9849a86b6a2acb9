package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexlab/liveness/lookup"
	"github.com/indexlab/liveness/model"
)

func TestBuildLookupDecodesBack(t *testing.T) {
	entries := []model.Entry{
		{DocID: 100, RowID: 5},
		{DocID: 103, RowID: 6},
		{DocID: 105, RowID: 7},
	}

	data := BuildLookup(entries, 2)

	tbl, err := lookup.Decode(data)
	require.NoError(t, err)
	assert.True(t, tbl.Complete())
	assert.Equal(t, 3, tbl.Len())

	hdr := tbl.Header()
	assert.Equal(t, uint32(3), hdr.DocumentCount)
	assert.Equal(t, uint32(2), hdr.CheckpointInterval)
	assert.Equal(t, model.DocumentID(105), hdr.MaxDocumentID)

	for _, e := range entries {
		row, ok := tbl.RowByDoc(e.DocID)
		assert.True(t, ok)
		assert.Equal(t, e.RowID, row)
	}
}

func TestBuildLookupReferenceBytes(t *testing.T) {
	data := BuildLookup([]model.Entry{
		{DocID: 100, RowID: 5},
		{DocID: 103, RowID: 6},
		{DocID: 105, RowID: 7},
	}, 2)

	want := []byte{
		// header
		0x03, 0x00, 0x00, 0x00,                         // document_count = 3
		0x02, 0x00, 0x00, 0x00,                         // checkpoint_interval = 2
		0x69, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // max_document_id = 105
		// directory
		0x64, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // base = 100
		0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // offset = 48
		0x69, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // base = 105
		0x39, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // offset = 57
		// block 0: row 5, then delta 3 row 6
		0x05, 0x00, 0x00, 0x00,
		0x03, 0x06, 0x00, 0x00, 0x00,
		// block 1: row 7
		0x07, 0x00, 0x00, 0x00,
	}
	assert.Equal(t, want, data)
}

func TestBuildLookupEmpty(t *testing.T) {
	data := BuildLookup(nil, 64)
	require.Len(t, data, lookup.HeaderLen)

	tbl, err := lookup.Decode(data)
	require.NoError(t, err)
	assert.True(t, tbl.Complete())
	assert.Equal(t, 0, tbl.Len())
}

func TestBuildLookupPanics(t *testing.T) {
	assert.Panics(t, func() {
		BuildLookup(nil, 0)
	})
	assert.Panics(t, func() {
		BuildLookup([]model.Entry{
			{DocID: 10, RowID: 0},
			{DocID: 10, RowID: 1},
		}, 64)
	})
}

func TestRandomEntries(t *testing.T) {
	rng := NewRNG(4711)

	entries := rng.RandomEntries(500, 20)
	require.Len(t, entries, 500)

	rowsSeen := make(map[model.RowID]bool, 500)
	for i, e := range entries {
		if i > 0 {
			assert.Greater(t, e.DocID, entries[i-1].DocID)
		}
		assert.False(t, rowsSeen[e.RowID])
		rowsSeen[e.RowID] = true
	}
}

func TestRandomEntriesRoundTrip(t *testing.T) {
	rng := NewRNG(99)
	entries := rng.RandomEntries(300, 1000)

	tbl, err := lookup.Decode(BuildLookup(entries, 64))
	require.NoError(t, err)
	require.True(t, tbl.Complete())
	require.Equal(t, len(entries), tbl.Len())

	for _, e := range entries {
		row, ok := tbl.RowByDoc(e.DocID)
		require.True(t, ok)
		require.Equal(t, e.RowID, row)

		doc, ok := tbl.DocByRow(e.RowID)
		require.True(t, ok)
		require.Equal(t, e.DocID, doc)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	e1 := rng.RandomEntries(10, 5)

	rng.Reset()
	e2 := rng.RandomEntries(10, 5)

	assert.Equal(t, e1, e2)
}

func TestTombstoneBytes(t *testing.T) {
	assert.Empty(t, TombstoneBytes())

	got := TombstoneBytes(13)
	assert.Equal(t, []byte{0x00, 0x20, 0x00, 0x00}, got)
}
