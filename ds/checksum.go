package ds

import (
	"hash/crc32"
)

// Crc32 is the IEEE CRC32 used for the header, every section and the whole image.
func Crc32(bs []byte) uint32 {
	return crc32.ChecksumIEEE(bs)
}
