package lbytes

import (
	"encoding/binary"
)

func EncodeU16(value uint16) []byte {
	bs := make([]byte, 2)
	binary.LittleEndian.PutUint16(bs, value)
	return bs
}

func EncodeU32(value uint32) []byte {
	bs := make([]byte, 4)
	binary.LittleEndian.PutUint32(bs, value)
	return bs
}

func EncodeU64(value uint64) []byte {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, value)
	return bs
}

// PutPadded copies s into bs[offset:offset+capacity] and zeroes the rest of the field.
// The caller checks that s fits.
func PutPadded(bs []byte, offset int, capacity int, s []byte) {
	field := bs[offset : offset+capacity]
	n := copy(field, s)
	for i := n; i < capacity; i++ {
		field[i] = 0
	}
}
