// Package tombstone implements the dead-row bitmap file (<table>.spm).
//
// The file is a raw array of little-endian uint32 words with no header: bit
// row%32 of word row/32 is set when that row is dead. Marking a row beyond
// the current storage grows the array to exactly row/32+1 words, zero
// padded; the file never shrinks. An absent file is an empty bitmap.
package tombstone
