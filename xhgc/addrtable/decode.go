package addrtable

import (
	"encoding/binary"

	"github.com/samber/lo"
	"xhcart/xherr"
)

func ReadSlot(header []byte, i int) (Slot, error) {
	slotOffset, err := SlotOffset(i)
	if err != nil {
		return Slot{}, err
	}
	if len(header) < End {
		return Slot{}, xherr.InvalidSize("header", End, len(header))
	}
	return Slot{
		Index:      i,
		DataOffset: binary.LittleEndian.Uint64(header[slotOffset:]),
		DataSize:   binary.LittleEndian.Uint32(header[slotOffset+8:]),
		CRC32:      binary.LittleEndian.Uint32(header[slotOffset+12:]),
	}, nil
}

// ReadTable returns all fifteen slots. header must be at least End bytes long.
func ReadTable(header []byte) ([]Slot, error) {
	if len(header) < End {
		return nil, xherr.InvalidSize("header", End, len(header))
	}
	return lo.Times(
		SlotCount,
		func(i int) Slot {
			slot, _ := ReadSlot(header, i)
			return slot
		},
	), nil
}
