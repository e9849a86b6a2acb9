// Package lookup decodes the docID-to-rowID lookup-table file (<table>.spt).
//
// The file starts with a 16-byte header (document count, checkpoint
// interval, max document ID), followed by a directory of checkpoints (base
// document ID plus absolute block offset) and the blocks themselves. Inside
// a block the first record stores a bare row ID for the checkpoint document;
// every later record stores the document-ID delta as a big-endian base-128
// varint followed by the row ID. A row ID of 0xFFFFFFFF terminates a block.
//
// The decoder is a recovery tool, not a validator: anything salvageable from
// a damaged file is returned, and Table.Complete reports whether records
// were lost. Only a header too short to read fails outright.
package lookup
