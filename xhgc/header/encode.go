package header

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"xhcart/ds"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/lbytes"
	"xhcart/xherr"
)

// Encode serializes meta into a sealed header: the CRC32 field holds the
// checksum of all 4096 bytes taken with that field zeroed.
func Encode(meta Meta) ([]byte, error) {
	bs, err := EncodeWithoutCRC(meta)
	if err != nil {
		return nil, err
	}
	return RecomputeCRC(bs)
}

// EncodeWithoutCRC is Encode with the CRC32 field left zero, for pipeline
// stages that still have address table entries to add.
func EncodeWithoutCRC(meta Meta) ([]byte, error) {
	cartID, err := ParseCartID(meta.CartID)
	if err != nil {
		return nil, errors.Wrap(err, "header.Encode error")
	}

	bs := make([]byte, Size)
	copy(bs[OffsetMagic:], Magic[:])
	binary.LittleEndian.PutUint32(bs[OffsetHeaderVersion:], Version)
	binary.LittleEndian.PutUint32(bs[OffsetHeaderSize:], Size)
	binary.LittleEndian.PutUint32(bs[OffsetFlags:], 0)
	binary.LittleEndian.PutUint64(bs[OffsetCartID:], cartID)

	for _, field := range stringFields {
		value := []byte(field.value(meta))
		if len(value) > field.capacity-1 {
			return nil, errors.Wrap(
				xherr.FieldTooLong(field.name, field.capacity-1),
				"header.Encode error",
			)
		}
		lbytes.PutPadded(bs, field.offset, field.capacity, value)
	}

	addrtable.ClearAllSlots(bs)
	binary.LittleEndian.PutUint32(bs[OffsetCRC32:], 0)
	return bs, nil
}

// ComputeCRC checksums the header as if its CRC32 field were zero.
func ComputeCRC(bs []byte) (uint32, error) {
	if len(bs) != Size {
		return 0, xherr.InvalidSize("header", Size, len(bs))
	}
	headerCopy := ds.ShallowCopy(bs)
	binary.LittleEndian.PutUint32(headerCopy[OffsetCRC32:], 0)
	return ds.Crc32(headerCopy), nil
}

func StoredCRC(bs []byte) (uint32, error) {
	if len(bs) != Size {
		return 0, xherr.InvalidSize("header", Size, len(bs))
	}
	return binary.LittleEndian.Uint32(bs[OffsetCRC32:]), nil
}

// RecomputeCRC returns a copy of bs with a freshly computed CRC32 field.
// The input is left untouched, so calling it twice yields identical buffers.
func RecomputeCRC(bs []byte) ([]byte, error) {
	crc, err := ComputeCRC(bs)
	if err != nil {
		return nil, errors.Wrap(err, "header.RecomputeCRC error")
	}
	sealed := ds.ShallowCopy(bs)
	binary.LittleEndian.PutUint32(sealed[OffsetCRC32:], crc)
	return sealed, nil
}

// ClearCRC returns a copy of bs with the CRC32 field zeroed.
func ClearCRC(bs []byte) ([]byte, error) {
	if len(bs) != Size {
		return nil, xherr.InvalidSize("header", Size, len(bs))
	}
	cleared := ds.ShallowCopy(bs)
	binary.LittleEndian.PutUint32(cleared[OffsetCRC32:], 0)
	return cleared, nil
}

// WithSlot returns a copy of bs with slot i replaced.
func WithSlot(bs []byte, i int, offset uint64, size uint32, crc32 uint32) ([]byte, error) {
	if len(bs) != Size {
		return nil, xherr.InvalidSize("header", Size, len(bs))
	}
	updated := ds.ShallowCopy(bs)
	if err := addrtable.WriteSlot(updated, i, offset, size, crc32); err != nil {
		return nil, errors.Wrap(err, "header.WithSlot error")
	}
	return updated, nil
}
