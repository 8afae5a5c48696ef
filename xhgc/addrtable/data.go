// Package addrtable reads and writes the fixed 15-slot address table
// that lives at the tail of the cartridge header.
package addrtable

import (
	"fmt"
)

type (
	// Slot describes one section of the image. DataOffset is 4096-aligned
	// whenever it is non-zero.
	Slot struct {
		Index      int    `json:"index"`
		DataOffset uint64 `json:"data_offset"`
		DataSize   uint32 `json:"data_size"`
		CRC32      uint32 `json:"crc32"`
	}
)

const (
	Base      = 0x0F00
	SlotSize  = 0x10
	SlotCount = 15
	End       = Base + SlotSize*SlotCount
)

const (
	SlotIcon = iota
	SlotThumbnail
	SlotManifest
	SlotEntry
	SlotIndex
	SlotData
	// SlotImage carries (0, image length, image CRC32) when whole-image CRC is enabled.
	SlotImage
)

var slotNames = []string{"ICON", "THMB", "MANF", "ENTRY", "INDEX", "DATA", "IMAGE"}

func SlotName(i int) string {
	if i >= 0 && i < len(slotNames) {
		return slotNames[i]
	}
	return fmt.Sprintf("SLOT%d", i)
}

func (r Slot) Name() string {
	return SlotName(r.Index)
}

func (r Slot) IsZero() bool {
	return r.DataOffset == 0 && r.DataSize == 0 && r.CRC32 == 0
}

// End is the first byte after the section's payload, padding excluded.
// Check FitsIn first: End wraps around for offsets near 2^64.
func (r Slot) End() uint64 {
	return r.DataOffset + uint64(r.DataSize)
}

// FitsIn reports whether the payload lies inside a file of length bytes.
func (r Slot) FitsIn(length int) bool {
	if length < 0 || r.DataOffset > uint64(length) {
		return false
	}
	return uint64(r.DataSize) <= uint64(length)-r.DataOffset
}
