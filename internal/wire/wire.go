// Package wire implements the low-level binary codec shared by the table
// metadata files: little-endian fixed-width integers addressed by absolute
// offset, and the big-endian base-128 varint used for document-ID deltas.
package wire

import "encoding/binary"

// Fixed field widths.
const (
	U32Len = 4
	U64Len = 8
)

// MaxUvarintLen is the longest big-endian varint encoding of a uint64.
const MaxUvarintLen = 10

// Uint32 reads a little-endian uint32 at off. ok is false when fewer than
// four bytes remain; data is untouched in that case.
func Uint32(data []byte, off int) (v uint32, ok bool) {
	if off < 0 || off+U32Len > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[off:]), true
}

// Uint64 reads a little-endian uint64 at off.
func Uint64(data []byte, off int) (v uint64, ok bool) {
	if off < 0 || off+U64Len > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(data[off:]), true
}

// UvarintBE decodes a big-endian base-128 varint starting at off: seven
// value bits per byte, most-significant group first, high bit set on every
// byte except the last.
//
// The decoder is deliberately lenient at the end of the buffer. If the data
// runs out while the continuation bit is still set, it returns the value
// accumulated so far and next == len(data), with no error. Truncation is
// detected structurally by callers (the bytes that must follow a delta are
// missing), never here; readers elsewhere in the system depend on this.
func UvarintBE(data []byte, off int) (v uint64, next int) {
	for off < len(data) {
		b := data[off]
		off++
		v = v<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			break
		}
	}
	return v, off
}

// AppendUvarintBE appends the big-endian base-128 encoding of v to dst and
// returns the extended slice. Zero encodes as a single 0x00 byte.
func AppendUvarintBE(dst []byte, v uint64) []byte {
	var tmp [MaxUvarintLen]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		tmp[i] = byte(v&0x7F) | 0x80
	}
	return append(dst, tmp[i:]...)
}

// UvarintBELen reports the encoded length of v in bytes.
func UvarintBELen(v uint64) int {
	n := 1
	for v >>= 7; v > 0; v >>= 7 {
		n++
	}
	return n
}
