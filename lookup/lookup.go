package lookup

import (
	"fmt"

	"github.com/indexlab/liveness/internal/wire"
	"github.com/indexlab/liveness/model"
)

// DefaultCheckpointInterval is the number of documents per checkpoint block
// written by the store's indexer.
const DefaultCheckpointInterval = 64

// Fixed layout sizes.
const (
	// HeaderLen is the size of the file header: document count (u32),
	// checkpoint interval (u32), max document ID (u64).
	HeaderLen = 16
	// CheckpointLen is the size of one directory entry: base document ID
	// (u64) and absolute block byte offset (u64).
	CheckpointLen = 16
)

// Header is the fixed 16-byte prefix of a lookup-table file.
type Header struct {
	DocumentCount      uint32
	CheckpointInterval uint32
	MaxDocumentID      model.DocumentID
}

// Checkpoint is one directory entry: the first document of a block and the
// absolute byte offset of the block's records.
type Checkpoint struct {
	BaseDocID model.DocumentID
	Offset    uint64
}

// Table is the decoded docID⇄rowID association of one lookup-table file.
// It is immutable after Decode and safe for concurrent reads.
type Table struct {
	header      Header
	checkpoints []Checkpoint
	byDoc       map[model.DocumentID]model.RowID
	byRow       map[model.RowID]model.DocumentID
	complete    bool
}

// DecodeHeader reads the fixed header. It fails with a FormatError when
// fewer than 16 bytes are available or when a nonzero document count is
// paired with a zero checkpoint interval, which would make the directory
// size undefined.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderLen {
		return Header{}, &FormatError{Reason: fmt.Sprintf("file too short: %d bytes, header needs %d", len(data), HeaderLen)}
	}
	count, _ := wire.Uint32(data, 0)
	interval, _ := wire.Uint32(data, 4)
	maxID, _ := wire.Uint64(data, 8)

	if interval == 0 && count > 0 {
		return Header{}, &FormatError{Reason: "checkpoint interval is zero"}
	}

	return Header{
		DocumentCount:      count,
		CheckpointInterval: interval,
		MaxDocumentID:      model.DocumentID(maxID),
	}, nil
}

// Decode reads a whole lookup-table file into a Table.
//
// Decoding is deliberately tolerant: past a valid header every structural
// problem is recovered, not reported as an error. A truncated directory
// keeps the entries that fit; a block offset beyond the buffer skips that
// checkpoint; a block whose first record is cut off ends decoding of all
// remaining checkpoints (the layout past it cannot be trusted); a record cut
// off mid-block ends that block only. Whatever was recovered is returned,
// and Complete reports false whenever any of this happened.
func Decode(data []byte) (*Table, error) {
	hdr, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	t := &Table{
		header:   hdr,
		byDoc:    make(map[model.DocumentID]model.RowID, hdr.DocumentCount),
		byRow:    make(map[model.RowID]model.DocumentID, hdr.DocumentCount),
		complete: true,
	}

	if hdr.DocumentCount == 0 {
		return t, nil
	}

	interval := int(hdr.CheckpointInterval)
	want := (int(hdr.DocumentCount) + interval - 1) / interval

	t.checkpoints = make([]Checkpoint, 0, want)
	off := HeaderLen
	for i := 0; i < want; i++ {
		base, ok := wire.Uint64(data, off)
		if !ok {
			t.complete = false
			break
		}
		blockOff, ok := wire.Uint64(data, off+wire.U64Len)
		if !ok {
			t.complete = false
			break
		}
		t.checkpoints = append(t.checkpoints, Checkpoint{
			BaseDocID: model.DocumentID(base),
			Offset:    blockOff,
		})
		off += CheckpointLen
	}

	// The trailing short block belongs to the last directory entry that
	// survived, even if the directory itself was cut short.
	leftover := int(hdr.DocumentCount) % interval
	if leftover == 0 {
		leftover = interval
	}

	for i, cp := range t.checkpoints {
		if cp.Offset >= uint64(len(data)) {
			t.complete = false
			continue
		}
		pos := int(cp.Offset)

		records := interval
		if i == len(t.checkpoints)-1 {
			records = leftover
		}

		// Record 0 carries the checkpoint document's row ID with no delta.
		// If its 4 bytes are gone the block layout past here cannot be
		// trusted, so decoding of every remaining checkpoint stops.
		first, ok := wire.Uint32(data, pos)
		if !ok {
			t.complete = false
			break
		}
		pos += wire.U32Len

		docID := cp.BaseDocID
		if model.RowID(first) != model.InvalidRowID {
			t.add(docID, model.RowID(first))
		}

		for r := 1; r < records; r++ {
			if pos >= len(data) {
				t.complete = false
				break
			}
			delta, next := wire.UvarintBE(data, pos)
			pos = next

			rid, ok := wire.Uint32(data, pos)
			if !ok {
				t.complete = false
				break
			}
			pos += wire.U32Len

			if model.RowID(rid) == model.InvalidRowID {
				// Terminator: the rest of the block holds no entries.
				break
			}

			docID += model.DocumentID(delta)
			t.add(docID, model.RowID(rid))
		}
	}

	return t, nil
}

func (t *Table) add(doc model.DocumentID, row model.RowID) {
	t.byDoc[doc] = row
	t.byRow[row] = doc
}

// RowByDoc resolves a document ID to its storage row.
func (t *Table) RowByDoc(doc model.DocumentID) (model.RowID, bool) {
	row, ok := t.byDoc[doc]
	return row, ok
}

// DocByRow resolves a storage row back to its document ID.
func (t *Table) DocByRow(row model.RowID) (model.DocumentID, bool) {
	doc, ok := t.byRow[row]
	return doc, ok
}

// Len returns the number of decoded associations. It never exceeds the
// header's document count.
func (t *Table) Len() int {
	return len(t.byDoc)
}

// Complete reports whether the decode consumed every record the header
// promised. Partial tables are still fully usable for the entries they hold.
func (t *Table) Complete() bool {
	return t.complete
}

// Header returns the decoded file header.
func (t *Table) Header() Header {
	return t.header
}

// Checkpoints returns the decoded directory in file order. The slice is
// shared; callers must not modify it.
func (t *Table) Checkpoints() []Checkpoint {
	return t.checkpoints
}
