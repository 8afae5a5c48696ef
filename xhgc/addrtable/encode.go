package addrtable

import (
	"encoding/binary"

	"xhcart/xherr"
)

func SlotOffset(i int) (int, error) {
	if i < 0 || i >= SlotCount {
		return 0, xherr.IndexOutOfRange("address table slot", i, SlotCount)
	}
	return Base + i*SlotSize, nil
}

// WriteSlot stores (offset u64, size u32, crc32 u32) little-endian into slot i of header.
func WriteSlot(header []byte, i int, offset uint64, size uint32, crc32 uint32) error {
	slotOffset, err := SlotOffset(i)
	if err != nil {
		return err
	}
	if len(header) < End {
		return xherr.InvalidSize("header", End, len(header))
	}
	binary.LittleEndian.PutUint64(header[slotOffset:], offset)
	binary.LittleEndian.PutUint32(header[slotOffset+8:], size)
	binary.LittleEndian.PutUint32(header[slotOffset+12:], crc32)
	return nil
}

func ClearSlot(header []byte, i int) error {
	return WriteSlot(header, i, 0, 0, 0)
}

func ClearAllSlots(header []byte) {
	for i := range header[Base:End] {
		header[Base+i] = 0
	}
}
