// Package index builds the INDEX and DATA sections from the packaged resource files.
package index

type (
	// File is one resource selected by discovery. CRC32 of zero means
	// "compute it from Bytes".
	File struct {
		Path  string
		Size  uint32
		CRC32 uint32
		Bytes []byte
		// Source is where the bytes were read from; not stored in the image.
		Source string
	}
	// Entry is one index record. DataOffset is relative to the start of DATA.
	Entry struct {
		DataOffset uint32 `json:"data_offset"`
		DataSize   uint32 `json:"data_size"`
		CRC32      uint32 `json:"crc32"`
		Name       string `json:"name"`
	}
)

const (
	HeaderSize    = 8
	EntryHeadSize = 16
	MaxNameLength = 0xFF
)
